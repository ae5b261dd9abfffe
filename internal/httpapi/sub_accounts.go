package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradsys/venue/internal/models"
	"github.com/tradsys/venue/internal/venueerrors"
)

type createSubAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

type updateSubAccountRequest struct {
	ID     int64   `json:"id" binding:"required"`
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (h *entityHandlers) registerSubAccounts(router gin.IRouter) {
	router.GET("/sub_accounts/", h.listSubAccountsByStatus)
	router.GET("/sub_accounts/:client_id", h.listActiveSubAccounts)
	router.POST("/sub_accounts/:client_id", h.createSubAccount)
	router.PUT("/sub_accounts/:client_id", h.updateSubAccount)
}

func (h *entityHandlers) listSubAccountsByStatus(c *gin.Context) {
	status, ok := models.ParseSubAccountStatus(c.Query("status"))
	if !ok {
		respondError(c, venueerrors.New(venueerrors.Invalid, "status is required and must be active or inactive"))
		return
	}
	subs, err := h.store.ListSubAccountsByStatus(c.Request.Context(), status, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *entityHandlers) listActiveSubAccounts(c *gin.Context) {
	clientID, err := pathInt64(c, "client_id")
	if err != nil {
		respondError(c, venueerrors.New(venueerrors.Invalid, "client_id must be an integer"))
		return
	}
	subs, err := h.store.ActiveSubAccountsByClient(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *entityHandlers) createSubAccount(c *gin.Context) {
	clientID, err := pathInt64(c, "client_id")
	if err != nil {
		respondError(c, venueerrors.New(venueerrors.Invalid, "client_id must be an integer"))
		return
	}
	var req createSubAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "invalid request body: %v", err))
		return
	}
	sub, err := h.store.CreateSubAccount(c.Request.Context(), clientID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *entityHandlers) updateSubAccount(c *gin.Context) {
	var req updateSubAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, venueerrors.Newf(venueerrors.Invalid, "invalid request body: %v", err))
		return
	}

	var status *models.SubAccountStatus
	if req.Status != nil {
		parsed, ok := models.ParseSubAccountStatus(*req.Status)
		if !ok {
			respondError(c, venueerrors.Newf(venueerrors.Invalid, "unrecognized status %q", *req.Status))
			return
		}
		status = &parsed
	}

	sub, err := h.store.UpdateSubAccount(c.Request.Context(), req.ID, status, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
