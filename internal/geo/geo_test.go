package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_KnownPoints(t *testing.T) {
	// Western Wall plaza to the Great Synagogue, Jerusalem: roughly 1.4 km.
	kotel := Point{Lat: 31.7767, Lng: 35.2345}
	greatSynagogue := Point{Lat: 31.7749, Lng: 35.2185}

	d := Distance(kotel, greatSynagogue)
	assert.InDelta(t, 1520, d, 120, "distance should be roughly 1.4-1.6 km")
}

func TestDistance_ZeroForSamePoint(t *testing.T) {
	p := Point{Lat: 40.7128, Lng: -74.0060}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistance_Symmetric(t *testing.T) {
	a := Point{Lat: 31.7683, Lng: 35.2137}
	b := Point{Lat: 32.0853, Lng: 34.7818}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistance_ColinearAdditivity(t *testing.T) {
	// Three points on the same meridian: B lies between A and C, so the legs
	// should sum to the whole within floating-point tolerance.
	a := Point{Lat: 31.0, Lng: 35.0}
	b := Point{Lat: 31.5, Lng: 35.0}
	c := Point{Lat: 32.0, Lng: 35.0}

	assert.InDelta(t, Distance(a, c), Distance(a, b)+Distance(b, c), 0.01)
}

func TestWalkingETAMinutes(t *testing.T) {
	assert.Equal(t, 1, WalkingETAMinutes(0), "ETA is never below one minute")
	assert.Equal(t, 1, WalkingETAMinutes(40), "short walks round up to one minute")
	assert.Equal(t, 1, WalkingETAMinutes(80))
	assert.Equal(t, 10, WalkingETAMinutes(800))
	assert.Equal(t, 20, WalkingETAMinutes(1609.34), "a mile is about a 20 minute walk")
}
