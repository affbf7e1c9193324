package handlers

import (
	"strconv"

	"gabinete-digital/helper"
	"gabinete-digital/middleware"
	"gabinete-digital/models"
	"gabinete-digital/services"

	"github.com/gin-gonic/gin"
)

// ProposalHandler serves the member area: drafting, revising and browsing
// proposal history. Each user's draft in progress lives in sessions.
type ProposalHandler struct {
	proposalService services.ProposalService
	sessions        *services.DraftSessions
	Helper          *helper.HTTPHelper
}

func NewProposalHandler(proposalService services.ProposalService, sessions *services.DraftSessions, h *helper.HTTPHelper) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		sessions:        sessions,
		Helper:          h,
	}
}

func (h *ProposalHandler) StartProposal(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	var req models.StartProposalRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	session, err := h.proposalService.StartProposal(c.Request.Context(), identity.Name, req.DocumentType, req.Subject)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.sessions.Set(identity.UserID, *session)
	h.Helper.SendCreated(c, "Draft generated", session)
}

func (h *ProposalHandler) GetCurrent(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	session, ok := h.sessions.Get(identity.UserID)
	if !ok {
		h.Helper.SendNotFoundError(c, "No draft in progress", h.Helper.EmptyJsonMap())
		return
	}

	h.Helper.SendSuccess(c, "Current draft", session)
}

// ReviseProposal revises the caller's current text for the proposal, or the
// version named by base_version, or the latest version when neither applies.
func (h *ProposalHandler) ReviseProposal(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	proposalID := c.Param("id")

	var req models.ReviseProposalRequest
	if !h.Helper.BindJSON(c, &req) {
		return
	}

	session := models.DraftSession{ProposalID: proposalID}
	if req.BaseVersion > 0 {
		base, err := h.proposalService.Restore(c.Request.Context(), proposalID, req.BaseVersion)
		if err != nil {
			h.Helper.SendError(c, err)
			return
		}
		session = *base
	} else if current, ok := h.sessions.Get(identity.UserID); ok && current.ProposalID == proposalID {
		session = current
	}

	revised, err := h.proposalService.ReviseProposal(c.Request.Context(), session, req.Instruction)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.sessions.Set(identity.UserID, *revised)
	h.Helper.SendCreated(c, "Draft revised", revised)
}

func (h *ProposalHandler) ListProposals(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	author := identity.Name
	if identity.IsAdmin() && c.Query("all") == "true" {
		author = ""
	}

	summaries, err := h.proposalService.ListProposals(c.Request.Context(), author)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Proposals loaded", summaries)
}

func (h *ProposalHandler) ListVersions(c *gin.Context) {
	versions, err := h.proposalService.ListVersions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Versions loaded", versions)
}

func (h *ProposalHandler) GetVersion(c *gin.Context) {
	versionNumber, ok := h.versionParam(c)
	if !ok {
		return
	}

	version, err := h.proposalService.GetVersion(c.Request.Context(), c.Param("id"), versionNumber)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Version loaded", version)
}

// RestoreVersion makes an older version the caller's current draft.
func (h *ProposalHandler) RestoreVersion(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)
	versionNumber, ok := h.versionParam(c)
	if !ok {
		return
	}

	session, err := h.proposalService.Restore(c.Request.Context(), c.Param("id"), versionNumber)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	h.sessions.Set(identity.UserID, *session)
	h.Helper.SendSuccess(c, "Version restored", session)
}

func (h *ProposalHandler) versionParam(c *gin.Context) (int, bool) {
	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil || versionNumber < 1 {
		h.Helper.SendBadRequest(c, "Invalid version number", h.Helper.EmptyJsonMap())
		return 0, false
	}
	return versionNumber, true
}
