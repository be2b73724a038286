package service

import (
	"context"
	"strings"

	"rentals/internal/apperr"
	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateAssetInput struct {
	Code        string          `json:"code"`
	Category    string          `json:"category"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Year        int             `json:"year"`
	DailyRate   decimal.Decimal `json:"dailyRate"`
	State       *string         `json:"state,omitempty"`
}

type UpdateAssetInput struct {
	Code        *string          `json:"code,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Model       *string          `json:"model,omitempty"`
	Year        *int             `json:"year,omitempty"`
	DailyRate   *decimal.Decimal `json:"dailyRate,omitempty"`
	// State can be set directly, e.g. to put an asset into maintenance.
	State *string `json:"state,omitempty"`
}

type AssetService interface {
	Create(ctx context.Context, actor uuid.UUID, in CreateAssetInput) (*model.Asset, error)
	Update(ctx context.Context, actor uuid.UUID, id string, in UpdateAssetInput) (*model.Asset, error)
	Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error)
	Get(ctx context.Context, id string) (*model.Asset, error)
	List(ctx context.Context, p pagination.Params) ([]model.Asset, error)
}

type assetService struct {
	txManager repository.TransactionManager
	repo      repository.AssetRepository
	auditRepo repository.AuditRepository
}

func NewAssetService(txManager repository.TransactionManager, repo repository.AssetRepository, auditRepo repository.AuditRepository) AssetService {
	return &assetService{txManager: txManager, repo: repo, auditRepo: auditRepo}
}

func validateAssetCategory(category string) error {
	return validateOneOf("category", category, validAssetCategories, model.AssetCategoryEquipment, model.AssetCategoryVehicle)
}

func validateAssetState(state string) error {
	return validateOneOf("state", state, validAssetStates, model.AssetStateAvailable, model.AssetStateRented, model.AssetStateMaintenance)
}

func validateMoney(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperr.Violation(field + " must not be negative")
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *assetService) Create(ctx context.Context, actor uuid.UUID, in CreateAssetInput) (*model.Asset, error) {
	if err := requireFields(
		"code", in.Code,
		"category", in.Category,
		"name", in.Name,
		"description", in.Description,
		"brand", in.Brand,
		"model", in.Model,
	); err != nil {
		return nil, err
	}
	if err := validateAssetCategory(in.Category); err != nil {
		return nil, err
	}
	if err := validateMoney("dailyRate", in.DailyRate); err != nil {
		return nil, err
	}

	asset := &model.Asset{
		Code:        normalizeCode(in.Code),
		Category:    in.Category,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Brand:       strings.TrimSpace(in.Brand),
		Model:       strings.TrimSpace(in.Model),
		Year:        in.Year,
		DailyRate:   in.DailyRate,
		State:       model.AssetStateAvailable,
	}
	if in.State != nil {
		if err := validateAssetState(*in.State); err != nil {
			return nil, err
		}
		asset.State = *in.State
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, asset); err != nil {
			return dbError(err, "asset")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionCreateAsset, asset.ID.String(), asset.Code, in)
	})
	if err != nil {
		return nil, dbError(err, "asset")
	}
	return asset, nil
}

func (s *assetService) Update(ctx context.Context, actor uuid.UUID, id string, in UpdateAssetInput) (*model.Asset, error) {
	if err := requirePatched(
		patchField{"code", in.Code},
		patchField{"category", in.Category},
		patchField{"name", in.Name},
		patchField{"description", in.Description},
		patchField{"brand", in.Brand},
		patchField{"model", in.Model},
	); err != nil {
		return nil, err
	}
	assetID, err := parseID(id, "asset")
	if err != nil {
		return nil, err
	}
	if in.Category != nil {
		if err := validateAssetCategory(*in.Category); err != nil {
			return nil, err
		}
	}
	if in.State != nil {
		if err := validateAssetState(*in.State); err != nil {
			return nil, err
		}
	}
	if in.DailyRate != nil {
		if err := validateMoney("dailyRate", *in.DailyRate); err != nil {
			return nil, err
		}
	}

	var asset *model.Asset
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, assetID)
		if err != nil {
			return dbError(err, "asset")
		}
		asset = found

		var columns []string
		set := func(column string, dst *string, src *string) {
			if src != nil {
				*dst = strings.TrimSpace(*src)
				columns = append(columns, column)
			}
		}
		if in.Code != nil {
			asset.Code = normalizeCode(*in.Code)
			columns = append(columns, "code")
		}
		set("category", &asset.Category, in.Category)
		set("name", &asset.Name, in.Name)
		set("description", &asset.Description, in.Description)
		set("brand", &asset.Brand, in.Brand)
		set("model", &asset.Model, in.Model)
		set("state", &asset.State, in.State)
		if in.Year != nil {
			asset.Year = *in.Year
			columns = append(columns, "year")
		}
		if in.DailyRate != nil {
			asset.DailyRate = *in.DailyRate
			columns = append(columns, "daily_rate")
		}

		if err := s.repo.Update(txCtx, asset, columns...); err != nil {
			return dbError(err, "asset")
		}
		// Re-read so the caller sees state changes made by other writers.
		if asset, err = s.repo.FindByID(txCtx, assetID); err != nil {
			return dbError(err, "asset")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionUpdateAsset, asset.ID.String(), asset.Code, in)
	})
	if err != nil {
		return nil, dbError(err, "asset")
	}
	return asset, nil
}

func (s *assetService) Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error) {
	assetID, err := parseID(id, "asset")
	if err != nil {
		return false, nil
	}

	deleted := false
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.repo.Delete(txCtx, assetID)
		if err != nil || !deleted {
			return err
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionDeleteAsset, assetID.String(), "", map[string]bool{"deleted": true})
	})
	if err != nil {
		return false, dbError(err, "asset")
	}
	return deleted, nil
}

func (s *assetService) Get(ctx context.Context, id string) (*model.Asset, error) {
	assetID, err := parseID(id, "asset")
	if err != nil {
		return nil, err
	}
	asset, err := s.repo.FindByID(ctx, assetID)
	if err != nil {
		return nil, dbError(err, "asset")
	}
	return asset, nil
}

func (s *assetService) List(ctx context.Context, p pagination.Params) ([]model.Asset, error) {
	assets, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, dbError(err, "asset")
	}
	return assets, nil
}
