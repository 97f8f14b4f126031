package models

import (
	"time"

	"gorm.io/datatypes"
)

// Condition categories (coarse) and condition tiers (fine) a listing can carry.
// The tier is assigned by the condition classifier; the category only
// distinguishes retail-new from second-hand offers.
const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

// Listing is one observed offer for a target model at one point in time.
// A listing is permanently identified by its canonical link: the unique
// index backs the all-time dedup policy at the schema level.
type Listing struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Date          time.Time `gorm:"index" json:"date"`
	Model         string    `gorm:"not null" json:"model"`
	ModelKey      string    `gorm:"index;not null" json:"model_key"`
	Title         string    `json:"title"`
	Price         float64   `gorm:"not null" json:"price"`
	RepairCost    float64   `gorm:"default:0" json:"repair_cost"`
	Condition     string    `gorm:"type:varchar(20)" json:"condition"`
	ConditionTier string    `gorm:"type:varchar(30)" json:"condition_tier"`
	Store         string    `json:"store"`
	Location      string    `json:"location"`
	Ships         bool      `gorm:"default:false" json:"ships"`
	Link          string    `gorm:"uniqueIndex;not null" json:"link"`
	Analysis      string    `json:"analysis"`
	Active        bool      `gorm:"default:true" json:"active"`

	RawVerdict datatypes.JSON `gorm:"type:jsonb" json:"raw_verdict,omitempty"`
	RunID      string         `gorm:"type:varchar(36);index" json:"run_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Listing model
func (Listing) TableName() string {
	return "listings"
}

// TotalCost is the comparison metric across conditions: asking price plus
// the estimated cost to bring the instrument back to full function.
func (l Listing) TotalCost() float64 {
	return l.Price + l.RepairCost
}
