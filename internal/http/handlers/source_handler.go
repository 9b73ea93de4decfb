package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/arielbeck/go-halakha-backend/internal/services"
)

// SourceHandler serves the source catalog endpoints.
type SourceHandler struct {
	Svc *services.SourceService
}

type nameRequest struct {
	Name string `json:"name"`
}

// Create godoc
//
//	@Summary	Register a source
//	@Tags		sources
//	@Accept		json
//	@Produce	json
//	@Param		body	body		nameRequest	true	"source name"
//	@Success	201		{object}	domain.Source
//	@Failure	409		{object}	map[string]any
//	@Failure	422		{object}	map[string]any
//	@Router		/sources [post]
func (h *SourceHandler) Create(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err)
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, out)
}

// Get godoc
//
//	@Summary	Get a source by id
//	@Tags		sources
//	@Produce	json
//	@Param		id	path		string	true	"source id"
//	@Success	200	{object}	domain.Source
//	@Failure	404	{object}	map[string]any
//	@Router		/sources/{id} [get]
func (h *SourceHandler) Get(c *gin.Context) {
	out, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, out)
}

// List godoc
//
//	@Summary	List sources
//	@Tags		sources
//	@Produce	json
//	@Param		name	query		string	false	"name substring"
//	@Success	200		{object}	listEnvelope
//	@Router		/sources [get]
func (h *SourceHandler) List(c *gin.Context) {
	page, per, offset := pageWindow(c)
	items, err := h.Svc.List(c.Request.Context(), c.Query("name"), offset, per)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, listEnvelope{Items: items, Page: page, PerPage: per})
}

// Update godoc
//
//	@Summary	Rename a source
//	@Tags		sources
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"source id"
//	@Param		body	body		nameRequest	true	"new name"
//	@Success	200		{object}	domain.Source
//	@Failure	404		{object}	map[string]any
//	@Router		/sources/{id} [patch]
func (h *SourceHandler) Update(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err)
		return
	}
	out, err := h.Svc.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, out)
}

// Delete godoc
//
//	@Summary	Delete an uncited source
//	@Tags		sources
//	@Param		id	path	string	true	"source id"
//	@Success	204
//	@Failure	404	{object}	map[string]any
//	@Failure	409	{object}	map[string]any
//	@Router		/sources/{id} [delete]
func (h *SourceHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// Halakhot godoc
//
//	@Summary	List halakhot citing a source
//	@Tags		sources
//	@Produce	json
//	@Param		id	path		string	true	"source id"
//	@Success	200	{object}	listEnvelope
//	@Failure	404	{object}	map[string]any
//	@Router		/sources/{id}/halakhot [get]
func (h *SourceHandler) Halakhot(c *gin.Context) {
	page, per, offset := pageWindow(c)
	items, err := h.Svc.Halakhot(c.Request.Context(), c.Param("id"), offset, per)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, listEnvelope{Items: items, Page: page, PerPage: per})
}
