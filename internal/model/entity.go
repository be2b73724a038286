package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityKind enum constants
const (
	EntityKindOrganization = "organization"
	EntityKindIndividual   = "individual"
)

// DocumentType enum constants. TAX_ORG belongs to organizations, the TAX_IND_* pair to individuals.
const (
	DocumentTaxOrg  = "TAX_ORG"
	DocumentTaxIndA = "TAX_IND_A"
	DocumentTaxIndB = "TAX_IND_B"
)

// Entity represents a client or counterparty of the rental business
type Entity struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Kind           string    `gorm:"type:varchar(20);not null;index" json:"kind"` // organization, individual
	DocumentType   string    `gorm:"type:varchar(20);not null" json:"document_type"`
	DocumentNumber string    `gorm:"type:varchar(50);not null;index" json:"document_number"`
	Email          string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone          string    `gorm:"type:varchar(50);not null" json:"phone"`
	Address        string    `gorm:"type:text;not null" json:"address"`
	City           string    `gorm:"type:varchar(120);not null" json:"city"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Entity) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// Contact is a person reachable at an Entity. The link is a plain reference:
// deleting an Entity is refused while contacts point at it.
type Contact struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityID  uuid.UUID `gorm:"type:uuid;not null;index" json:"entity_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"type:varchar(50);not null" json:"phone"`
	Title     string    `gorm:"type:varchar(120);not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
