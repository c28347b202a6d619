package zmanim

import (
	"regexp"

	"github.com/tushy123/minyan-now/internal/model"
)

const minutesInDay = 24 * 60

// Static fallback windows, used whenever a marker cannot be resolved.
var (
	defaultShacharis = Window{Start: 5 * 60, End: 12*60 - 5}   // 05:00–11:55
	defaultMincha    = Window{Start: 12 * 60, End: 20*60 - 5}  // 12:00–19:55
	defaultMaariv    = Window{Start: 19 * 60, End: 24*60 - 5}  // 19:00–23:55
)

// Marker priority lists. The ordering encodes halachic preference and is a
// fixed contract; do not reorder.
var (
	shacharisStartMarkers = []string{"misheyakir", "alotHaShachar", "sunrise"}
	shacharisEndMarkers   = []string{"sofZmanTfilla", "sofZmanShma", "chatzot"}
	minchaStartMarkers    = []string{"minchaGedola", "chatzot"}
	minchaEndMarkers      = []string{"sunset", "tzeit"}
	maarivStartMarkers    = []string{"tzeit7083deg", "tzeit85deg", "tzeit", "sunset"}
	maarivEndMarkers      = []string{"chatzotNight", "chatzot"}
)

// DefaultWindows returns the static fallback set for all three services.
func DefaultWindows() Windows {
	return Windows{
		Shacharis: defaultShacharis,
		Mincha:    defaultMincha,
		Maariv:    defaultMaariv,
	}
}

var clockRe = regexp.MustCompile(`T(\d{2}):(\d{2})`)

// parseMinutes extracts local wall-clock minutes of day from an ISO-8601
// timestamp. Returns -1 when the value cannot be parsed.
func parseMinutes(value string) int {
	m := clockRe.FindStringSubmatch(value)
	if m == nil {
		return -1
	}
	hours := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	mins := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	if hours > 23 || mins > 59 {
		return -1
	}
	return hours*60 + mins
}

// resolveMarker returns the minutes of day for the first present, parseable
// marker in the priority list, or fallback when none resolves.
func resolveMarker(times map[string]string, keys []string, fallback int) int {
	for _, key := range keys {
		value, ok := times[key]
		if !ok {
			continue
		}
		if minutes := parseMinutes(value); minutes >= 0 {
			return minutes
		}
	}
	return fallback
}

// normalizeWindow shifts the end past midnight when it would otherwise not be
// after the start. Every returned window satisfies End > Start.
func normalizeWindow(start, end int) Window {
	if end <= start {
		end += minutesInDay
	}
	return Window{Start: start, End: end}
}

// ResolveWindows computes the three prayer windows from a set of named time
// markers. Each unresolved endpoint falls back to its static default
// individually; a nil or empty map yields DefaultWindows exactly.
func ResolveWindows(times map[string]string) Windows {
	return Windows{
		Shacharis: normalizeWindow(
			resolveMarker(times, shacharisStartMarkers, defaultShacharis.Start),
			resolveMarker(times, shacharisEndMarkers, defaultShacharis.End),
		),
		Mincha: normalizeWindow(
			resolveMarker(times, minchaStartMarkers, defaultMincha.Start),
			resolveMarker(times, minchaEndMarkers, defaultMincha.End),
		),
		Maariv: normalizeWindow(
			resolveMarker(times, maarivStartMarkers, defaultMaariv.Start),
			resolveMarker(times, maarivEndMarkers, defaultMaariv.End),
		),
	}
}

// CurrentTefillah picks the service whose window contains the given minutes
// of day. Later services are checked first so that they win during overlaps;
// outside every window the answer defaults to mincha.
func CurrentTefillah(w Windows, nowMinutes int) model.Tefillah {
	candidates := []struct {
		tefillah model.Tefillah
		window   Window
	}{
		{model.TefillahMaariv, w.Maariv},
		{model.TefillahMincha, w.Mincha},
		{model.TefillahShacharis, w.Shacharis},
	}
	for _, c := range candidates {
		if c.window.End > minutesInDay {
			// Window spans midnight.
			if nowMinutes >= c.window.Start || nowMinutes <= c.window.End%minutesInDay {
				return c.tefillah
			}
		} else if nowMinutes >= c.window.Start && nowMinutes <= c.window.End {
			return c.tefillah
		}
	}
	return model.TefillahMincha
}
