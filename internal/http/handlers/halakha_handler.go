package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/arielbeck/go-halakha-backend/internal/services"
)

// HalakhaHandler serves the CRUD endpoints of the halakha aggregate.
type HalakhaHandler struct {
	Svc *services.HalakhaService
}

type createHalakhaRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	ThemeLabel string   `json:"theme_label"`
	SourceID   string   `json:"source_id"`
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Tags       []string `json:"tags"`
	Themes     []string `json:"themes"`
}

type updateHalakhaRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	ThemeLabel *string  `json:"theme_label"`
	Question   *string  `json:"question"`
	Answer     *string  `json:"answer"`
	Tags       []string `json:"tags"`
	Themes     []string `json:"themes"`
}

// Create godoc
//
//	@Summary	Create a halakha
//	@Tags		halakhot
//	@Accept		json
//	@Produce	json
//	@Param		body	body		createHalakhaRequest	true	"halakha payload"
//	@Success	201		{object}	domain.Halakha
//	@Failure	404		{object}	map[string]any
//	@Failure	422		{object}	map[string]any
//	@Router		/halakhot [post]
func (h *HalakhaHandler) Create(c *gin.Context) {
	var req createHalakhaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err)
		return
	}
	out, err := h.Svc.Create(c.Request.Context(), services.HalakhaInput{
		Title:      req.Title,
		Content:    req.Content,
		ThemeLabel: req.ThemeLabel,
		SourceID:   req.SourceID,
		Question:   req.Question,
		Answer:     req.Answer,
		Tags:       req.Tags,
		Themes:     req.Themes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	created(c, out)
}

// Get godoc
//
//	@Summary	Get a halakha by id
//	@Tags		halakhot
//	@Produce	json
//	@Param		id	path		string	true	"halakha id"
//	@Success	200	{object}	domain.Halakha
//	@Failure	404	{object}	map[string]any
//	@Router		/halakhot/{id} [get]
func (h *HalakhaHandler) Get(c *gin.Context) {
	out, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, out)
}

// List godoc
//
//	@Summary	List halakhot
//	@Tags		halakhot
//	@Produce	json
//	@Param		search		query		string	false	"title/content substring"
//	@Param		page		query		int		false	"page (1-based)"
//	@Param		per_page	query		int		false	"page size"
//	@Success	200			{object}	listEnvelope
//	@Router		/halakhot [get]
func (h *HalakhaHandler) List(c *gin.Context) {
	page, per, offset := pageWindow(c)
	items, total, err := h.Svc.List(c.Request.Context(), c.Query("search"), offset, per)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, listEnvelope{Items: items, Total: total, Page: page, PerPage: per})
}

// Update godoc
//
//	@Summary	Partially update a halakha
//	@Tags		halakhot
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"halakha id"
//	@Param		body	body		updateHalakhaRequest	true	"fields to change"
//	@Success	200		{object}	domain.Halakha
//	@Failure	404		{object}	map[string]any
//	@Failure	422		{object}	map[string]any
//	@Router		/halakhot/{id} [patch]
func (h *HalakhaHandler) Update(c *gin.Context) {
	var req updateHalakhaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBind(c, err)
		return
	}
	out, err := h.Svc.Update(c.Request.Context(), c.Param("id"), services.HalakhaUpdate{
		Title:      req.Title,
		Content:    req.Content,
		ThemeLabel: req.ThemeLabel,
		Question:   req.Question,
		Answer:     req.Answer,
		Tags:       req.Tags,
		Themes:     req.Themes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, out)
}

// Delete godoc
//
//	@Summary	Delete a halakha and its owned question/answer
//	@Tags		halakhot
//	@Param		id	path	string	true	"halakha id"
//	@Success	204
//	@Failure	404	{object}	map[string]any
//	@Router		/halakhot/{id} [delete]
func (h *HalakhaHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
