package handlers

import (
	"gabinete-digital/helper"
	"gabinete-digital/models"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	Helper *helper.HTTPHelper
}

func NewCatalogHandler(h *helper.HTTPHelper) *CatalogHandler {
	return &CatalogHandler{Helper: h}
}

// GetCatalog lists the fixed choices a client needs to build its forms.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	h.Helper.SendSuccess(c, "Catalog loaded", models.DefaultCatalog())
}
