package model

import "time"

// Profile is the slice of the identity provider's user record this service
// reads. It is never created here; the identity provider owns the row.
type Profile struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName    *string `gorm:"size:256" json:"full_name"`
	Reliability float64 `gorm:"not null;default:0" json:"reliability"`
	Streak      int     `gorm:"not null;default:0" json:"streak"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
