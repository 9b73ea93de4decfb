package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/arielbeck/go-halakha-backend/internal/http/middleware"
	"github.com/arielbeck/go-halakha-backend/internal/services"
)

// idempotencyKeyHeader lets clients retry the publish pipeline safely.
const idempotencyKeyHeader = "Idempotency-Key"

// ProcessingHandler serves the content pipeline endpoints.
type ProcessingHandler struct {
	Svc *services.ProcessingService
}

type processRequest struct {
	Content      string  `json:"content"`
	SourceID     string  `json:"source_id"`
	Temperature  float32 `json:"temperature"`
	ScheduleDays int     `json:"schedule_days"`
	ImageURL     string  `json:"image_url"`
}

// Process godoc
//
//	@Summary	Structure raw content with AI, store it and publish it
//	@Tags		processing
//	@Accept		json
//	@Produce	json
//	@Param		Idempotency-Key	header		string			false	"retry-safe publish key"
//	@Param		body			body		processRequest	true	"raw content"
//	@Success	200				{object}	services.ProcessResult
//	@Failure	404				{object}	map[string]any
//	@Failure	422				{object}	map[string]any
//	@Failure	502				{object}	map[string]any
//	@Router		/process [post]
func (h *ProcessingHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err)
		return
	}
	res, err := h.Svc.ProcessAndPublish(c.Request.Context(), services.ProcessInput{
		Content:        req.Content,
		SourceID:       req.SourceID,
		IdempotencyKey: c.GetHeader(idempotencyKeyHeader),
		Temperature:    req.Temperature,
		ScheduleDays:   req.ScheduleDays,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		middleware.ObservePipeline("process", "error")
		fail(c, err)
		return
	}
	if res.Replayed {
		middleware.ObservePipeline("process", "replayed")
	} else {
		middleware.ObservePipeline("process", "ok")
	}
	ok(c, res)
}

// ProcessExisting godoc
//
//	@Summary	Re-run AI structuring on a stored halakha and publish it
//	@Tags		processing
//	@Produce	json
//	@Param		id				path		string	true	"halakha id"
//	@Param		Idempotency-Key	header		string	false	"retry-safe publish key"
//	@Success	200				{object}	services.ProcessResult
//	@Failure	404				{object}	map[string]any
//	@Failure	502				{object}	map[string]any
//	@Router		/halakhot/{id}/process [post]
func (h *ProcessingHandler) ProcessExisting(c *gin.Context) {
	res, err := h.Svc.ProcessExisting(c.Request.Context(), c.Param("id"), c.GetHeader(idempotencyKeyHeader))
	if err != nil {
		middleware.ObservePipeline("reprocess", "error")
		fail(c, err)
		return
	}
	if res.Replayed {
		middleware.ObservePipeline("reprocess", "replayed")
	} else {
		middleware.ObservePipeline("reprocess", "ok")
	}
	ok(c, res)
}

// Publish godoc
//
//	@Summary	Publish an already-stored halakha
//	@Tags		processing
//	@Produce	json
//	@Param		id				path		string	true	"halakha id"
//	@Param		Idempotency-Key	header		string	false	"retry-safe publish key"
//	@Success	200				{object}	services.ProcessResult
//	@Failure	404				{object}	map[string]any
//	@Failure	502				{object}	map[string]any
//	@Router		/halakhot/{id}/publish [post]
func (h *ProcessingHandler) Publish(c *gin.Context) {
	res, err := h.Svc.PublishExisting(c.Request.Context(), c.Param("id"), c.GetHeader(idempotencyKeyHeader))
	if err != nil {
		middleware.ObservePipeline("publish", "error")
		fail(c, err)
		return
	}
	if res.Replayed {
		middleware.ObservePipeline("publish", "replayed")
	} else {
		middleware.ObservePipeline("publish", "ok")
	}
	ok(c, res)
}
