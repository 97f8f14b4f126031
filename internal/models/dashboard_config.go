package models

import "time"

// DashboardConfig is the singleton row holding the dashboard's default
// filter bounds. Exactly one row (ID=1) exists; it is created with the
// defaults below on first run and only ever updated in place.
type DashboardConfig struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	MinScore int     `gorm:"default:50" json:"min_score"`
	MaxScore int     `gorm:"default:100" json:"max_score"`
	MinPrice float64 `gorm:"default:1500" json:"min_price"`
	MaxPrice float64 `gorm:"default:50000" json:"max_price"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for DashboardConfig model
func (DashboardConfig) TableName() string {
	return "dashboard_config"
}

// DefaultDashboardConfig returns the bounds seeded on first run.
func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		ID:       1,
		MinScore: 50,
		MaxScore: 100,
		MinPrice: 1500,
		MaxPrice: 50000,
	}
}
