package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tushy123/minyan-now/internal/zmanim"
)

// GetZmanim handles the GET /api/zmanim request: prayer windows for an
// arbitrary location and date. An unreachable upstream is not an error; the
// static defaults are returned with the degraded flag raised.
func (h *Handler) GetZmanim(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "valid lat and lng are required"})
		return
	}

	tzid := c.DefaultQuery("tzid", "UTC")
	if _, err := time.LoadLocation(tzid); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown tzid"})
		return
	}

	date := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	resp, err := h.zmanAPI.Fetch(c.Request.Context(), lat, lng, tzid, date)
	if err != nil {
		log.Printf("Zmanim fetch failed for %s: %v. Serving static defaults.", date, err)
		c.JSON(http.StatusOK, gin.H{
			"windows":  zmanim.DefaultWindows(),
			"degraded": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"windows":  zmanim.ResolveWindows(resp.Times),
		"degraded": false,
		"times":    resp.Times,
	})
}
