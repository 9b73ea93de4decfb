// Package handlers implements the HTTP endpoints of the API. Handlers stay
// thin: they bind and lightly shape input, call one service method, and
// either render the result or attach the returned taxonomy error for the
// error-mapper middleware to turn into the canonical response envelope.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arielbeck/go-halakha-backend/internal/apperr"
	"github.com/arielbeck/go-halakha-backend/internal/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// fail records a taxonomy error on the context and halts the chain; the
// mapper middleware renders it after unwind.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// failBind wraps a binding failure as a validation error.
func failBind(c *gin.Context, err error) {
	fail(c, apperr.Validation("invalid request body: "+err.Error(), nil))
}

// listEnvelope is the shared shape of paginated list responses.
type listEnvelope struct {
	Items   any   `json:"items"`
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// pageWindow reads page/per_page query params with bounded defaults.
func pageWindow(c *gin.Context) (page, per, offset int) {
	return utils.PageWindow(c.Query("page"), c.Query("per_page"), defaultPageSize, maxPageSize)
}

func ok(c *gin.Context, body any)      { c.JSON(http.StatusOK, body) }
func created(c *gin.Context, body any) { c.JSON(http.StatusCreated, body) }
func noContent(c *gin.Context)         { c.Status(http.StatusNoContent) }
