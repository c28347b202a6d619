package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tushy123/minyan-now/internal/store"
)

type membershipRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// PostJoin handles a user joining a space. A duplicate join is absorbed and
// reported as a benign no-op, never as an error.
func (h *Handler) PostJoin(c *gin.Context) {
	var req membershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.Join(c.Request.Context(), c.Param("space_id"), req.UserID)
	if errors.Is(err, store.ErrAlreadyMember) {
		c.JSON(http.StatusOK, gin.H{"joined": true, "already_member": true})
		return
	}
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"joined": true, "already_member": false})
}

// PostLeave handles a user leaving a space. Leaving a space the user never
// joined succeeds silently.
func (h *Handler) PostLeave(c *gin.Context) {
	var req membershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Leave(c.Request.Context(), c.Param("space_id"), req.UserID); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": true})
}

// GetMembers lists a space's members with their profile names.
func (h *Handler) GetMembers(c *gin.Context) {
	spaceID := c.Param("space_id")
	if _, err := h.store.GetSpace(c.Request.Context(), spaceID); err != nil {
		abortWithStoreError(c, err)
		return
	}

	members, err := h.store.ListMembers(c.Request.Context(), spaceID)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

type removeMemberRequest struct {
	HostID string `json:"host_id" binding:"required,uuid"`
}

// DeleteMember handles the host removing another user from their space.
func (h *Handler) DeleteMember(c *gin.Context) {
	var req removeMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.RemoveMember(c.Request.Context(), c.Param("space_id"), c.Param("user_id"), req.HostID)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
