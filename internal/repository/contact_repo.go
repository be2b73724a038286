package repository

import (
	"context"

	"rentals/internal/model"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	List(ctx context.Context, p pagination.Params) ([]model.Contact, error)
	ListByEntityID(ctx context.Context, entityID uuid.UUID) ([]model.Contact, error)
	ExistsForEntity(ctx context.Context, entityID uuid.UUID) (bool, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return GetDB(ctx, r.db).Create(contact).Error
}

func (r *contactRepository) Update(ctx context.Context, contact *model.Contact) error {
	return GetDB(ctx, r.db).Save(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Contact{})
	return res.RowsAffected > 0, res.Error
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := GetDB(ctx, r.db).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) List(ctx context.Context, p pagination.Params) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := GetDB(ctx, r.db).Scopes(paginate(p)).Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) ListByEntityID(ctx context.Context, entityID uuid.UUID) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := GetDB(ctx, r.db).Where("entity_id = ?", entityID).Order("created_at ASC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *contactRepository) ExistsForEntity(ctx context.Context, entityID uuid.UUID) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Contact{}).Where("entity_id = ?", entityID).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
