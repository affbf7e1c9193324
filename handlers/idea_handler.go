package handlers

import (
	"bytes"
	"net/http"

	"gabinete-digital/helper"
	"gabinete-digital/models"
	"gabinete-digital/services"

	"github.com/gin-gonic/gin"
)

type IdeaHandler struct {
	ideaService services.IdeaService
	Helper      *helper.HTTPHelper
}

func NewIdeaHandler(ideaService services.IdeaService, h *helper.HTTPHelper) *IdeaHandler {
	return &IdeaHandler{ideaService: ideaService, Helper: h}
}

func (h *IdeaHandler) SubmitIdea(c *gin.Context) {
	var req models.SubmitIdeaRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	idea, err := h.ideaService.Submit(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Thank you! Your idea was received.", idea)
}

func (h *IdeaHandler) GetIdeas(c *gin.Context) {
	var params models.IdeaListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	params.Normalize()

	ideas, total, err := h.ideaService.List(c.Request.Context(), params)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Ideas loaded", gin.H{
		"ideas":  ideas,
		"paging": h.Helper.GeneratePaging(c, 0, 0, params.Limit, params.Page, total),
	})
}

// ExportIdeas downloads the idea bank as CSV.
func (h *IdeaHandler) ExportIdeas(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.ideaService.ExportCSV(c.Request.Context(), &buf); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ideas.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *IdeaHandler) DeleteIdea(c *gin.Context) {
	if err := h.ideaService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Idea deleted", h.Helper.EmptyJsonMap())
}
