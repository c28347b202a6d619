// Package rank merges standing and ad hoc gatherings into the ordered list a
// client displays. Ranking is a pure function of its inputs: no hidden state,
// identical inputs always produce identical ordering.
package rank

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tushy123/minyan-now/internal/geo"
	"github.com/tushy123/minyan-now/internal/model"
)

// Kind tags which variant of gathering an Item projects.
type Kind string

const (
	KindSpace    Kind = "space"
	KindOfficial Kind = "official"
)

// SortKey selects the secondary ordering after joined-first.
type SortKey string

const (
	SortClosest  SortKey = "closest"  // ascending distance
	SortSoonest  SortKey = "soonest"  // ascending start minutes
	SortFullest  SortKey = "fullest"  // descending member count
	SortReliable SortKey = "reliable" // descending reliability, ad hoc ties at 0
)

// TypeFilter restricts the list to one gathering variant.
type TypeFilter string

const (
	TypeAll      TypeFilter = "all"
	TypeSpace    TypeFilter = "space"
	TypeOfficial TypeFilter = "official"
)

// officialCapacity is the display capacity assumed for standing gatherings,
// which do not track explicit membership.
const officialCapacity = 10

// Criteria are the caller-selected filter and sort settings.
type Criteria struct {
	Date              string // UTC calendar date (YYYY-MM-DD); empty disables the date filter
	Tefillah          model.Tefillah
	Type              TypeFilter
	MaxDistanceMeters float64 // <= 0 disables the distance filter
	Sort              SortKey
}

// Item is a read-only projection of a gathering with computed distance and
// ETA. It is never persisted; recompute per query.
type Item struct {
	Kind           Kind           `json:"kind"`
	ID             string         `json:"id"`
	Tefillah       model.Tefillah `json:"tefillah"`
	StartMinutes   int            `json:"start_minutes"`
	Lat            float64        `json:"lat"`
	Lng            float64        `json:"lng"`
	Address        string         `json:"address"`
	Members        int            `json:"members"`
	Capacity       int            `json:"capacity"`
	DistanceMeters float64        `json:"distance_meters"`
	ETAMinutes     int            `json:"eta_minutes"`

	// Ad hoc only.
	Status model.SpaceStatus `json:"status,omitempty"`
	HostID string            `json:"host_id,omitempty"`
	Notes  *string           `json:"notes,omitempty"`
	Joined bool              `json:"joined"`

	// Standing only.
	ShulName    string  `json:"shul_name,omitempty"`
	Reliability float64 `json:"reliability,omitempty"`

	// dateTag is the UTC calendar date of an ad hoc start instant, kept for
	// the date filter. Standing gatherings recur daily and carry none.
	dateTag string
}

// Rank merges the two gathering collections, applies the criteria, and
// returns the ordered projection. Standing gatherings precede ad hoc ones in
// merge order, and the sort is stable, so equal-key items keep that order.
func Rank(officials []model.OfficialMinyan, spaces []model.Space, joined map[string]bool, origin geo.Point, criteria Criteria) []Item {
	items := make([]Item, 0, len(officials)+len(spaces))
	for _, m := range officials {
		items = append(items, projectOfficial(m, origin))
	}
	for _, sp := range spaces {
		items = append(items, projectSpace(sp, joined[sp.ID], origin))
	}

	filtered := items[:0]
	for _, item := range items {
		if keep(item, criteria) {
			filtered = append(filtered, item)
		}
	}

	less := comparator(criteria.Sort)
	sort.SliceStable(filtered, func(i, j int) bool {
		return less(filtered[i], filtered[j])
	})
	return filtered
}

func projectSpace(sp model.Space, joined bool, origin geo.Point) Item {
	address := "Location shared upon join"
	if sp.Address != nil && *sp.Address != "" {
		address = *sp.Address
	}
	distance := geo.Distance(origin, geo.Point{Lat: sp.Lat, Lng: sp.Lng})
	start := sp.StartTime.UTC()
	return Item{
		Kind:           KindSpace,
		ID:             sp.ID,
		Tefillah:       sp.Tefillah,
		StartMinutes:   start.Hour()*60 + start.Minute(),
		Lat:            sp.Lat,
		Lng:            sp.Lng,
		Address:        address,
		Members:        sp.QuorumCount,
		Capacity:       sp.Capacity,
		DistanceMeters: distance,
		ETAMinutes:     geo.WalkingETAMinutes(distance),
		Status:         sp.Status,
		HostID:         sp.HostID,
		Notes:          sp.Notes,
		Joined:         joined,
		dateTag:        start.Format("2006-01-02"),
	}
}

func projectOfficial(m model.OfficialMinyan, origin geo.Point) Item {
	distance := geo.Distance(origin, geo.Point{Lat: m.Lat, Lng: m.Lng})
	return Item{
		Kind:           KindOfficial,
		ID:             m.ID,
		Tefillah:       m.Tefillah,
		StartMinutes:   parseClockMinutes(m.StartTime),
		Lat:            m.Lat,
		Lng:            m.Lng,
		Address:        m.Address,
		Members:        m.AvgMembers,
		Capacity:       officialCapacity,
		DistanceMeters: distance,
		ETAMinutes:     geo.WalkingETAMinutes(distance),
		ShulName:       m.ShulName,
		Reliability:    m.Reliability,
	}
}

// parseClockMinutes converts an "HH:MM" label to minutes of day; malformed
// labels sort to the start of the day.
func parseClockMinutes(label string) int {
	parts := strings.SplitN(label, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hours, err1 := strconv.Atoi(parts[0])
	mins, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return hours*60 + mins
}

// keep applies the filters in their contractual order: date (ad hoc only),
// tefillah, variant, distance.
func keep(item Item, c Criteria) bool {
	if c.Date != "" && item.Kind == KindSpace && item.dateTag != c.Date {
		return false
	}
	if c.Tefillah != "" && item.Tefillah != c.Tefillah {
		return false
	}
	switch c.Type {
	case TypeSpace:
		if item.Kind != KindSpace {
			return false
		}
	case TypeOfficial:
		if item.Kind != KindOfficial {
			return false
		}
	}
	if c.MaxDistanceMeters > 0 && item.DistanceMeters > c.MaxDistanceMeters {
		return false
	}
	return true
}

// comparator builds the composite ordering: joined items first, then the
// selected key. Ties fall through to the stable sort's original order.
func comparator(key SortKey) func(a, b Item) bool {
	secondary := secondaryComparator(key)
	return func(a, b Item) bool {
		if a.Joined != b.Joined {
			return a.Joined
		}
		return secondary(a, b)
	}
}

func secondaryComparator(key SortKey) func(a, b Item) bool {
	switch key {
	case SortSoonest:
		return func(a, b Item) bool { return a.StartMinutes < b.StartMinutes }
	case SortFullest:
		return func(a, b Item) bool { return a.Members > b.Members }
	case SortReliable:
		return func(a, b Item) bool { return itemReliability(a) > itemReliability(b) }
	default: // SortClosest
		return func(a, b Item) bool { return a.DistanceMeters < b.DistanceMeters }
	}
}

// itemReliability treats every ad hoc gathering as reliability 0, so under
// the "reliable" sort they tie at the bottom among non-joined items.
func itemReliability(item Item) float64 {
	if item.Kind != KindOfficial {
		return 0
	}
	return item.Reliability
}
