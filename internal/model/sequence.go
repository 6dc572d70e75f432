package model

import "time"

// DocumentSequence backs per-prefix, per-day document numbering.
// Rows are incremented under a pg advisory lock so numbers never collide.
type DocumentSequence struct {
	Prefix    string    `gorm:"type:varchar(10);primaryKey" json:"prefix"`
	DateKey   string    `gorm:"type:varchar(8);primaryKey" json:"date_key"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt time.Time `json:"updated_at"`
}
