package model

import "time"

// Tefillah identifies one of the three daily prayer services.
type Tefillah string

const (
	TefillahShacharis Tefillah = "SHACHARIS"
	TefillahMincha    Tefillah = "MINCHA"
	TefillahMaariv    Tefillah = "MAARIV"
)

// Valid reports whether t is one of the three known services.
func (t Tefillah) Valid() bool {
	switch t {
	case TefillahShacharis, TefillahMincha, TefillahMaariv:
		return true
	}
	return false
}

// SpaceStatus is the lifecycle state of an ad hoc space.
// OPEN is the only state that accepts joins; every other state is terminal.
type SpaceStatus string

const (
	StatusOpen      SpaceStatus = "OPEN"
	StatusLocked    SpaceStatus = "LOCKED"
	StatusStarted   SpaceStatus = "STARTED"
	StatusCancelled SpaceStatus = "CANCELLED"
	StatusExpired   SpaceStatus = "EXPIRED"
)

// Terminal reports whether the status no longer accepts membership changes.
func (s SpaceStatus) Terminal() bool {
	return s != StatusOpen
}

// Space is an ad hoc, host-created prayer gathering with a managed lifecycle.
type Space struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	Tefillah     Tefillah    `gorm:"size:16;not null;index" json:"tefillah"`
	StartTime    time.Time   `gorm:"not null;index" json:"start_time"`
	Lat          float64     `gorm:"not null" json:"lat"`
	Lng          float64     `gorm:"not null" json:"lng"`
	Address      *string     `gorm:"size:512" json:"address"`
	Notes        *string     `gorm:"size:1024" json:"notes"`
	Status       SpaceStatus `gorm:"size:16;not null;default:OPEN" json:"status"`
	Capacity     int         `gorm:"not null" json:"capacity"`
	QuorumCount  int         `gorm:"not null;default:0" json:"quorum_count"`
	PresenceRule *string     `gorm:"size:512" json:"presence_rule"`
	HostID       string      `gorm:"type:uuid;not null;index" json:"host_id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
