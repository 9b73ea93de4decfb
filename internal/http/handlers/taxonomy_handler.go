package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/arielbeck/go-halakha-backend/internal/services"
)

// TagHandler serves the tag catalog endpoints.
type TagHandler struct {
	Svc *services.TagService
}

// Create godoc
//
//	@Summary	Register a tag
//	@Tags		tags
//	@Accept		json
//	@Produce	json
//	@Param		body	body		nameRequest	true	"tag name"
//	@Success	201		{object}	domain.Tag
//	@Failure	409		{object}	map[string]any
//	@Failure	422		{object}	map[string]any
//	@Router		/tags [post]
func (h *TagHandler) Create(c *gin.Context) {
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
//	@Summary	Get a tag by id
//	@Tags		tags
//	@Produce	json
//	@Param		id	path		string	true	"tag id"
//	@Success	200	{object}	domain.Tag
//	@Failure	404	{object}	map[string]any
//	@Router		/tags/{id} [get]
func (h *TagHandler) Get(c *gin.Context) {
	out, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, out)
}

// List godoc
//
//	@Summary	List tags
//	@Tags		tags
//	@Produce	json
//	@Param		name	query		string	false	"name substring"
//	@Success	200		{object}	listEnvelope
//	@Router		/tags [get]
func (h *TagHandler) List(c *gin.Context) {
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
//	@Summary	Rename a tag
//	@Tags		tags
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"tag id"
//	@Param		body	body		nameRequest	true	"new name"
//	@Success	200		{object}	domain.Tag
//	@Failure	404		{object}	map[string]any
//	@Router		/tags/{id} [patch]
func (h *TagHandler) Update(c *gin.Context) {
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
//	@Summary	Delete a tag and detach it everywhere
//	@Tags		tags
//	@Param		id	path	string	true	"tag id"
//	@Success	204
//	@Failure	404	{object}	map[string]any
//	@Router		/tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// Halakhot godoc
//
//	@Summary	List halakhot carrying a tag
//	@Tags		tags
//	@Produce	json
//	@Param		id	path		string	true	"tag id"
//	@Success	200	{object}	listEnvelope
//	@Failure	404	{object}	map[string]any
//	@Router		/tags/{id}/halakhot [get]
func (h *TagHandler) Halakhot(c *gin.Context) {
	page, per, offset := pageWindow(c)
	items, err := h.Svc.Halakhot(c.Request.Context(), c.Param("id"), offset, per)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, listEnvelope{Items: items, Page: page, PerPage: per})
}

// ThemeHandler serves the theme catalog endpoints. Routes and semantics
// mirror TagHandler under /themes.
type ThemeHandler struct {
	Svc *services.ThemeService
}

func (h *ThemeHandler) Create(c *gin.Context) {
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

func (h *ThemeHandler) Get(c *gin.Context) {
	out, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, out)
}

func (h *ThemeHandler) List(c *gin.Context) {
	page, per, offset := pageWindow(c)
	items, err := h.Svc.List(c.Request.Context(), c.Query("name"), offset, per)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, listEnvelope{Items: items, Page: page, PerPage: per})
}

func (h *ThemeHandler) Update(c *gin.Context) {
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

func (h *ThemeHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

func (h *ThemeHandler) Halakhot(c *gin.Context) {
	page, per, offset := pageWindow(c)
	items, err := h.Svc.Halakhot(c.Request.Context(), c.Param("id"), offset, per)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, listEnvelope{Items: items, Page: page, PerPage: per})
}
