package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceState enum constants
const (
	InvoiceStatePending = "pending"
	InvoiceStatePaid    = "paid"
	InvoiceStateOverdue = "overdue"
)

// Invoice is a billing document derived from a Contract.
// Amounts are stored as supplied by the operator; the server never recomputes them.
type Invoice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Number     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"number"`
	ContractID uuid.UUID       `gorm:"type:uuid;not null;index" json:"contract_id"`
	EntityID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"entity_id"`
	IssueDate  time.Time       `gorm:"not null" json:"issue_date"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	Tax        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"tax"`
	Total      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
	State      string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"state"`
	CreatedAt  time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	if i.State == "" {
		i.State = InvoiceStatePending
	}
	return nil
}
