package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tushy123/minyan-now/internal/presence"
	"github.com/tushy123/minyan-now/internal/reconcile"
	"github.com/tushy123/minyan-now/internal/store"
	"github.com/tushy123/minyan-now/internal/zmanim"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	cache    *reconcile.Reconciler
	zman     *zmanim.Service
	zmanAPI  *zmanim.Client
	presence *presence.Tracker
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, cache *reconcile.Reconciler, zman *zmanim.Service, zmanAPI *zmanim.Client, tracker *presence.Tracker) *Handler {
	return &Handler{
		store:    s,
		cache:    cache,
		zman:     zman,
		zmanAPI:  zmanAPI,
		presence: tracker,
	}
}

// abortWithStoreError maps the store's error taxonomy onto HTTP statuses.
// ErrAlreadyMember is deliberately not handled here; join absorbs it.
func abortWithStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrSpaceClosed), errors.Is(err, store.ErrSpaceFull):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrValidation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
