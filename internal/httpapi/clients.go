package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradsys/venue/internal/venueerrors"
)

func (h *entityHandlers) registerClients(router gin.IRouter) {
	router.GET("/clients/", h.listClients)
	router.GET("/clients/:email", h.getClientByEmail)
	router.POST("/clients/:email", h.createClient)
	router.PUT("/clients/:id", h.renameClient)
}

func (h *entityHandlers) listClients(c *gin.Context) {
	clients, err := h.store.ListClients(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *entityHandlers) getClientByEmail(c *gin.Context) {
	client, err := h.store.ClientByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *entityHandlers) createClient(c *gin.Context) {
	client, err := h.store.CreateClient(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *entityHandlers) renameClient(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		respondError(c, venueerrors.New(venueerrors.Invalid, "id must be an integer"))
		return
	}
	newEmail := c.Query("new_email")
	if newEmail == "" {
		respondError(c, venueerrors.New(venueerrors.Invalid, "new_email is required"))
		return
	}
	client, err := h.store.RenameClient(c.Request.Context(), id, newEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}
