package handlers

import (
	"gabinete-digital/helper"
	"gabinete-digital/middleware"
	"gabinete-digital/models"
	"gabinete-digital/services"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardService services.BoardService
	Helper       *helper.HTTPHelper
}

func NewBoardHandler(boardService services.BoardService, h *helper.HTTPHelper) *BoardHandler {
	return &BoardHandler{boardService: boardService, Helper: h}
}

func (h *BoardHandler) GetPosts(c *gin.Context) {
	var params models.PostListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	posts, err := h.boardService.List(c.Request.Context(), params.Limit)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Posts loaded", posts)
}

func (h *BoardHandler) PublishPost(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var req models.PublishPostRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	post, err := h.boardService.Publish(c.Request.Context(), identity, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Post published", post)
}

func (h *BoardHandler) DeletePost(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	if err := h.boardService.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Post deleted", h.Helper.EmptyJsonMap())
}
