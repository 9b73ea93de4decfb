package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arielbeck/go-halakha-backend/internal/apperr"
)

// ErrorMapper is the single point where taxonomy errors become HTTP
// responses. Handlers attach errors with c.Error(err) and return; this
// middleware renders the first one after the chain unwinds, using the fixed
// kind→status/code table. The same error kind therefore produces the same
// status and body shape on every endpoint.
//
// Wrapped causes (driver errors, remote API bodies) are logged, never
// serialized; clients get the taxonomy message and optional details only.
func ErrorMapper() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors[0].Err
		e, ok := apperr.As(err)
		if !ok {
			e = apperr.Internal(err)
		}
		if e.Err != nil {
			LoggerFrom(c).Error().Err(e.Err).Str("code", e.Code()).Msg("request failed")
		}

		body := envelopeBody(c, e.Code(), clientMessage(e))
		if len(e.Details) > 0 {
			body["details"] = e.Details
		}
		c.JSON(e.Status(), body)
	}
}

// envelopeBody builds the canonical error body. Every error response in the
// API goes through it, so the wire shape has a single source.
func envelopeBody(c *gin.Context, code, message string) gin.H {
	return gin.H{
		"request_id": RequestIDFrom(c),
		"code":       code,
		"message":    message,
	}
}

// Envelope renders the canonical error body for rejections that carry no
// taxonomy kind (405, 429, recovered panics). Everything else attaches an
// error and lets ErrorMapper render it.
func Envelope(c *gin.Context, status int, code, message string) {
	c.JSON(status, envelopeBody(c, code, message))
}

// clientMessage keeps server-side failure messages generic on the wire while
// passing caller-actionable ones (validation, not found, conflict) through.
func clientMessage(e *apperr.Error) string {
	switch e.Kind {
	case apperr.KindDatabase:
		return "database operation failed"
	case apperr.KindInternal:
		return "internal error"
	case apperr.KindExternal:
		if e.Message == "" {
			return e.Service + " service failed"
		}
		return e.Message
	default:
		if e.Message == "" {
			return http.StatusText(e.Status())
		}
		return e.Message
	}
}
