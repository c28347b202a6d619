package model

import "time"

// Membership links one user to one ad hoc space. The composite primary key
// enforces that a user cannot join the same space twice.
type Membership struct {
	SpaceID  string    `gorm:"type:uuid;primaryKey" json:"space_id"`
	UserID   string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	JoinedAt time.Time `gorm:"not null" json:"joined_at"`
}
