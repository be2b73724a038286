package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionRegisterUser = "REGISTER_USER"

	ActionCreateEntity = "CREATE_ENTITY"
	ActionUpdateEntity = "UPDATE_ENTITY"
	ActionDeleteEntity = "DELETE_ENTITY"

	ActionCreateContact = "CREATE_CONTACT"
	ActionUpdateContact = "UPDATE_CONTACT"
	ActionDeleteContact = "DELETE_CONTACT"

	ActionCreateAsset = "CREATE_ASSET"
	ActionUpdateAsset = "UPDATE_ASSET"
	ActionDeleteAsset = "DELETE_ASSET"

	// Contract actions also move the referenced asset's state
	ActionCreateContract = "CREATE_CONTRACT"
	ActionUpdateContract = "UPDATE_CONTRACT"
	ActionDeleteContract = "DELETE_CONTRACT"

	ActionCreateInvoice = "CREATE_INVOICE"
	ActionUpdateInvoice = "UPDATE_INVOICE"
	ActionDeleteInvoice = "DELETE_INVOICE"
)

// AuditLog tracks Who, What, and When for every mutation
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // id of the touched record
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // human readable label
	Details    string     `gorm:"type:jsonb" json:"details"`                      // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
