package repository

import (
	"context"

	"rentals/internal/model"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	// Update writes only the named columns. State is owned by the contract
	// coordinator and must not be rewritten from a stale read.
	Update(ctx context.Context, asset *model.Asset, columns ...string) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	List(ctx context.Context, p pagination.Params) ([]model.Asset, error)
	// MarkRented flips the asset to rented unless it already is. It reports
	// false when no row changed, i.e. the asset is missing or already rented.
	MarkRented(ctx context.Context, id uuid.UUID) (bool, error)
	SetState(ctx context.Context, id uuid.UUID, state string) error
}

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *model.Asset) error {
	return GetDB(ctx, r.db).Create(asset).Error
}

func (r *assetRepository) Update(ctx context.Context, asset *model.Asset, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Model(asset).Select(columns).Updates(asset).Error
}

func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Asset{})
	return res.RowsAffected > 0, res.Error
}

func (r *assetRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	if err := GetDB(ctx, r.db).First(&asset, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, p pagination.Params) ([]model.Asset, error) {
	var assets []model.Asset
	if err := GetDB(ctx, r.db).Scopes(paginate(p)).Order("created_at DESC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) MarkRented(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.Asset{}).
		Where("id = ? AND state <> ?", id, model.AssetStateRented).
		Update("state", model.AssetStateRented)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *assetRepository) SetState(ctx context.Context, id uuid.UUID, state string) error {
	return GetDB(ctx, r.db).Model(&model.Asset{}).Where("id = ?", id).Update("state", state).Error
}
