package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContractState enum constants
const (
	ContractStateActive    = "active"
	ContractStateFinished  = "finished"
	ContractStateCancelled = "cancelled"
)

// Contract binds one Entity to one Asset for a period.
type Contract struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Number     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"number"`
	EntityID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"entity_id"`
	AssetID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"asset_id"`
	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	EndDate    time.Time       `gorm:"not null" json:"end_date"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	State      string          `gorm:"type:varchar(20);not null;default:'active';index" json:"state"`
	Notes      *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	if c.State == "" {
		c.State = ContractStateActive
	}
	return nil
}
