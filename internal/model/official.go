package model

import "time"

// OfficialMinyan is a standing gathering at a fixed venue. It recurs daily,
// has no lifecycle, and its member count is a historical estimate.
type OfficialMinyan struct {
	ID          string   `gorm:"type:uuid;primaryKey" json:"id"`
	Tefillah    Tefillah `gorm:"size:16;not null;index" json:"tefillah"`
	Name        string   `gorm:"size:256;not null" json:"name"`
	ShulName    string   `gorm:"size:256;not null" json:"shul_name"`
	Lat         float64  `gorm:"not null" json:"lat"`
	Lng         float64  `gorm:"not null" json:"lng"`
	Address     string   `gorm:"size:512;not null" json:"address"`
	Reliability float64  `gorm:"not null" json:"reliability"` // in [0,1]
	AvgMembers  int      `gorm:"not null" json:"avg_members"`
	StartTime   string   `gorm:"size:8;not null" json:"start_time"` // "HH:MM" local clock time
	Active      bool     `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
