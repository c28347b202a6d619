package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tushy123/minyan-now/internal/model"
	"github.com/tushy123/minyan-now/internal/store"
)

// tefillahFromParam accepts either casing of a service name. Returns "" for
// anything unrecognized.
func tefillahFromParam(raw string) model.Tefillah {
	t := model.Tefillah(strings.ToUpper(raw))
	if !t.Valid() {
		return ""
	}
	return t
}

type createSpaceRequest struct {
	Tefillah     string    `json:"tefillah" binding:"required"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	Lat          *float64  `json:"lat" binding:"required"`
	Lng          *float64  `json:"lng" binding:"required"`
	Address      *string   `json:"address"`
	Notes        *string   `json:"notes"`
	Capacity     int       `json:"capacity"`
	PresenceRule *string   `json:"presence_rule"`
	HostID       string    `json:"host_id" binding:"required,uuid"`
}

// PostSpace handles the creation of a new ad hoc space.
func (h *Handler) PostSpace(c *gin.Context) {
	var req createSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tefillah := tefillahFromParam(req.Tefillah)
	if tefillah == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tefillah"})
		return
	}
	if req.Capacity == 0 {
		req.Capacity = 10 // default quorum-sized space
	}

	space, err := h.store.CreateSpace(c.Request.Context(), store.CreateSpaceInput{
		Tefillah:     tefillah,
		StartTime:    req.StartTime,
		Lat:          *req.Lat,
		Lng:          *req.Lng,
		Address:      req.Address,
		Notes:        req.Notes,
		Capacity:     req.Capacity,
		PresenceRule: req.PresenceRule,
		HostID:       req.HostID,
	})
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, space)
}

type updateSpaceRequest struct {
	HostID    string     `json:"host_id" binding:"required,uuid"`
	StartTime *time.Time `json:"start_time"`
	Address   *string    `json:"address"`
	Notes     *string    `json:"notes"`
	Capacity  *int       `json:"capacity"`
	Status    *string    `json:"status"`
}

// PatchSpace handles host edits to an existing space.
func (h *Handler) PatchSpace(c *gin.Context) {
	var req updateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := store.SpaceUpdate{
		StartTime: req.StartTime,
		Address:   req.Address,
		Notes:     req.Notes,
		Capacity:  req.Capacity,
	}
	if req.Status != nil {
		status := model.SpaceStatus(strings.ToUpper(*req.Status))
		updates.Status = &status
	}

	space, err := h.store.UpdateSpace(c.Request.Context(), c.Param("space_id"), req.HostID, updates)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, space)
}

type hostActionRequest struct {
	HostID string `json:"host_id" binding:"required,uuid"`
}

// PostCancelSpace handles the host cancelling an OPEN space.
func (h *Handler) PostCancelSpace(c *gin.Context) {
	var req hostActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	space, err := h.store.CancelSpace(c.Request.Context(), c.Param("space_id"), req.HostID)
	if err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, space)
}

// DeleteSpace handles the host deleting a space outright.
func (h *Handler) DeleteSpace(c *gin.Context) {
	var req hostActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DeleteSpace(c.Request.Context(), c.Param("space_id"), req.HostID); err != nil {
		abortWithStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
