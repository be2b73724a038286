package repository

import (
	"context"

	"rentals/internal/model"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntityRepository interface {
	Create(ctx context.Context, entity *model.Entity) error
	Update(ctx context.Context, entity *model.Entity) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Entity, error)
	List(ctx context.Context, p pagination.Params) ([]model.Entity, error)
}

type entityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) EntityRepository {
	return &entityRepository{db: db}
}

func (r *entityRepository) Create(ctx context.Context, entity *model.Entity) error {
	return GetDB(ctx, r.db).Create(entity).Error
}

func (r *entityRepository) Update(ctx context.Context, entity *model.Entity) error {
	return GetDB(ctx, r.db).Save(entity).Error
}

func (r *entityRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Entity{})
	return res.RowsAffected > 0, res.Error
}

func (r *entityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Entity, error) {
	var entity model.Entity
	if err := GetDB(ctx, r.db).First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *entityRepository) List(ctx context.Context, p pagination.Params) ([]model.Entity, error) {
	var entities []model.Entity
	if err := GetDB(ctx, r.db).Scopes(paginate(p)).Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}
