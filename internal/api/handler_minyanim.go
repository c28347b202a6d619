package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tushy123/minyan-now/internal/geo"
	"github.com/tushy123/minyan-now/internal/rank"
	"github.com/tushy123/minyan-now/internal/zmanim"
)

// defaultMaxDistanceMeters is two miles, the default discovery radius.
const defaultMaxDistanceMeters = 2 * geo.MetersPerMile

// GetMinyanim handles the GET /api/minyanim request: the ranked, filtered
// union of standing and ad hoc gatherings around the caller.
func (h *Handler) GetMinyanim(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "valid lat and lng are required"})
		return
	}
	origin := geo.Point{Lat: lat, Lng: lng}

	criteria, ok := h.parseCriteria(c)
	if !ok {
		return
	}

	// Joined spaces rank first, so resolve the caller's membership set.
	joined := make(map[string]bool)
	if userID := c.Query("user_id"); userID != "" {
		ids, err := h.store.ListMemberships(c.Request.Context(), userID)
		if err != nil {
			log.Printf("Error listing memberships for ranking: %v", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
			return
		}
		for _, id := range ids {
			joined[id] = true
		}
	}

	officials, spaces := h.cache.Snapshot()
	items := rank.Rank(officials, spaces, joined, origin, criteria)

	windows, degraded := h.zman.Windows()
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"windows":  windows,
		"degraded": degraded,
		"state":    h.cache.State(),
	})
}

// parseCriteria reads the filter/sort query parameters, applying defaults:
// today's date, the currently active tefillah, all variants, two miles,
// closest-first.
func (h *Handler) parseCriteria(c *gin.Context) (rank.Criteria, bool) {
	criteria := rank.Criteria{
		Date:              c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02")),
		Type:              rank.TypeAll,
		MaxDistanceMeters: defaultMaxDistanceMeters,
		Sort:              rank.SortClosest,
	}

	if tefillah := c.Query("tefillah"); tefillah != "" {
		criteria.Tefillah = tefillahFromParam(tefillah)
		if criteria.Tefillah == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown tefillah"})
			return criteria, false
		}
	} else {
		windows, _ := h.zman.Windows()
		now := time.Now().UTC()
		criteria.Tefillah = zmanim.CurrentTefillah(windows, now.Hour()*60+now.Minute())
	}

	switch filter := rank.TypeFilter(c.DefaultQuery("type", string(rank.TypeAll))); filter {
	case rank.TypeAll, rank.TypeSpace, rank.TypeOfficial:
		criteria.Type = filter
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "type must be all, space, or official"})
		return criteria, false
	}

	if raw := c.Query("max_distance"); raw != "" {
		meters, err := strconv.ParseFloat(raw, 64)
		if err != nil || meters <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "max_distance must be a positive number of meters"})
			return criteria, false
		}
		criteria.MaxDistanceMeters = meters
	}

	switch key := rank.SortKey(c.DefaultQuery("sort", string(rank.SortClosest))); key {
	case rank.SortClosest, rank.SortSoonest, rank.SortFullest, rank.SortReliable:
		criteria.Sort = key
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "sort must be closest, soonest, fullest, or reliable"})
		return criteria, false
	}

	return criteria, true
}
