package zmanim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tushy123/minyan-now/internal/model"
)

func TestResolveWindows_AllMarkersAbsent(t *testing.T) {
	windows := ResolveWindows(nil)
	assert.Equal(t, DefaultWindows(), windows, "an empty marker set must yield the static defaults exactly")

	windows = ResolveWindows(map[string]string{})
	assert.Equal(t, DefaultWindows(), windows)
}

func TestResolveWindows_ShacharisFromSunriseAndTfilla(t *testing.T) {
	// misheyakir and alotHaShachar absent: sunrise is the first present
	// start marker; sofZmanTfilla is the preferred end marker.
	times := map[string]string{
		"sunrise":       "2026-09-01T06:00:00+03:00",
		"sofZmanTfilla": "2026-09-01T10:00:00+03:00",
	}
	windows := ResolveWindows(times)
	assert.Equal(t, Window{Start: 6 * 60, End: 10 * 60}, windows.Shacharis)
}

func TestResolveWindows_MisheyakirPreferredOverSunrise(t *testing.T) {
	times := map[string]string{
		"misheyakir": "2026-09-01T05:12:00+03:00",
		"sunrise":    "2026-09-01T06:00:00+03:00",
	}
	windows := ResolveWindows(times)
	assert.Equal(t, 5*60+12, windows.Shacharis.Start, "misheyakir outranks sunrise for the shacharis start")
}

func TestResolveWindows_MaarivWrapsPastMidnight(t *testing.T) {
	// Nightfall markers absent: maariv starts at sunset. chatzotNight at
	// midnight resolves to 0, which normalization pushes to 1440.
	times := map[string]string{
		"minchaGedola": "2026-09-01T13:00:00+03:00",
		"sunset":       "2026-09-01T19:30:00+03:00",
		"chatzotNight": "2026-09-02T00:00:00+03:00",
	}
	windows := ResolveWindows(times)

	assert.Equal(t, Window{Start: 13 * 60, End: 19*60 + 30}, windows.Mincha)
	assert.Equal(t, Window{Start: 19*60 + 30, End: 24 * 60}, windows.Maariv)
}

func TestResolveWindows_EveryWindowEndsAfterStart(t *testing.T) {
	cases := []map[string]string{
		nil,
		{"sunrise": "2026-09-01T06:00:00Z"},
		{"misheyakir": "2026-09-01T23:50:00Z", "chatzot": "2026-09-01T00:10:00Z"},
		{"sunset": "2026-09-01T19:30:00Z", "chatzotNight": "2026-09-02T00:41:00Z"},
	}
	for _, times := range cases {
		windows := ResolveWindows(times)
		for _, w := range []Window{windows.Shacharis, windows.Mincha, windows.Maariv} {
			assert.Greater(t, w.End, w.Start, "normalization must guarantee end > start for %v", times)
		}
	}
}

func TestResolveWindows_MalformedMarkerFallsThrough(t *testing.T) {
	times := map[string]string{
		"misheyakir": "not a timestamp",
		"sunrise":    "2026-09-01T06:00:00+03:00",
	}
	windows := ResolveWindows(times)
	assert.Equal(t, 6*60, windows.Shacharis.Start, "an unparseable marker should be skipped, not fall back to the default")
}

func TestResolveWindows_Deterministic(t *testing.T) {
	times := map[string]string{
		"misheyakir":    "2026-09-01T05:12:00+03:00",
		"sofZmanTfilla": "2026-09-01T10:03:00+03:00",
		"minchaGedola":  "2026-09-01T13:07:00+03:00",
		"sunset":        "2026-09-01T19:05:00+03:00",
		"tzeit":         "2026-09-01T19:40:00+03:00",
	}
	assert.Equal(t, ResolveWindows(times), ResolveWindows(times))
}

func TestCurrentTefillah(t *testing.T) {
	windows := DefaultWindows()

	assert.Equal(t, model.TefillahShacharis, CurrentTefillah(windows, 7*60))
	assert.Equal(t, model.TefillahMincha, CurrentTefillah(windows, 14*60))
	assert.Equal(t, model.TefillahMaariv, CurrentTefillah(windows, 21*60), "maariv wins during the mincha/maariv overlap")
}

func TestCurrentTefillah_MidnightWraparound(t *testing.T) {
	windows := DefaultWindows()
	windows.Maariv = Window{Start: 19*60 + 30, End: 24*60 + 41} // ends 00:41 next day

	assert.Equal(t, model.TefillahMaariv, CurrentTefillah(windows, 20))
	assert.Equal(t, model.TefillahMaariv, CurrentTefillah(windows, 23*60))
}

func TestCurrentTefillah_OutsideAllWindowsDefaultsToMincha(t *testing.T) {
	windows := Windows{
		Shacharis: Window{Start: 5 * 60, End: 10 * 60},
		Mincha:    Window{Start: 13 * 60, End: 19 * 60},
		Maariv:    Window{Start: 20 * 60, End: 23 * 60},
	}
	assert.Equal(t, model.TefillahMincha, CurrentTefillah(windows, 4*60))
}

func TestParseMinutes(t *testing.T) {
	assert.Equal(t, 6*60+30, parseMinutes("2026-09-01T06:30:00+03:00"))
	assert.Equal(t, 0, parseMinutes("2026-09-02T00:00:00+03:00"))
	assert.Equal(t, -1, parseMinutes("yesterday"))
	assert.Equal(t, -1, parseMinutes(""))
}
