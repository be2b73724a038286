package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetCategory enum constants
const (
	AssetCategoryEquipment = "equipment"
	AssetCategoryVehicle   = "vehicle"
)

// AssetState enum constants
const (
	AssetStateAvailable   = "available"
	AssetStateRented      = "rented"
	AssetStateMaintenance = "maintenance"
)

// Asset is a rentable item. State moves to rented when a contract is created
// against it and back to available when that contract is deleted.
type Asset struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // stored upper case
	Category    string          `gorm:"type:varchar(20);not null;index" json:"category"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Brand       string          `gorm:"type:varchar(120);not null" json:"brand"`
	Model       string          `gorm:"type:varchar(120);not null" json:"model"`
	Year        int             `gorm:"not null" json:"year"`
	DailyRate   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"daily_rate"`
	State       string          `gorm:"type:varchar(20);not null;default:'available';index" json:"state"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	if a.State == "" {
		a.State = AssetStateAvailable
	}
	return nil
}
