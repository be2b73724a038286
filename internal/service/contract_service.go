package service

import (
	"context"
	"strings"
	"time"

	"rentals/internal/apperr"
	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventAssetStateChanged is published after a committed contract mutation
// moved an asset between available and rented.
const EventAssetStateChanged = "asset.state_changed"

// EventPublisher fans out domain events to live dashboards.
type EventPublisher interface {
	Publish(event string, data map[string]interface{})
}

type CreateContractInput struct {
	Number     string          `json:"number"`
	EntityID   string          `json:"entityId"`
	AssetID    string          `json:"assetId"`
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	State      *string         `json:"state,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
}

type UpdateContractInput struct {
	Number     *string          `json:"number,omitempty"`
	EntityID   *string          `json:"entityId,omitempty"`
	AssetID    *string          `json:"assetId,omitempty"`
	StartDate  *string          `json:"startDate,omitempty"`
	EndDate    *string          `json:"endDate,omitempty"`
	TotalPrice *decimal.Decimal `json:"totalPrice,omitempty"`
	State      *string          `json:"state,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

// ContractService owns every write that couples a contract to its asset's
// availability.
type ContractService interface {
	Create(ctx context.Context, actor uuid.UUID, in CreateContractInput) (*model.Contract, error)
	Update(ctx context.Context, actor uuid.UUID, id string, in UpdateContractInput) (*model.Contract, error)
	Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error)
	Get(ctx context.Context, id string) (*model.Contract, error)
	List(ctx context.Context, p pagination.Params) ([]model.Contract, error)
}

type contractService struct {
	txManager  repository.TransactionManager
	repo       repository.ContractRepository
	entityRepo repository.EntityRepository
	assetRepo  repository.AssetRepository
	auditRepo  repository.AuditRepository
	events     EventPublisher
}

// NewContractService wires the coordinator. events may be nil.
func NewContractService(
	txManager repository.TransactionManager,
	repo repository.ContractRepository,
	entityRepo repository.EntityRepository,
	assetRepo repository.AssetRepository,
	auditRepo repository.AuditRepository,
	events EventPublisher,
) ContractService {
	return &contractService{
		txManager:  txManager,
		repo:       repo,
		entityRepo: entityRepo,
		assetRepo:  assetRepo,
		auditRepo:  auditRepo,
		events:     events,
	}
}

func validateContractState(state string) error {
	return validateOneOf("state", state, validContractStates, model.ContractStateActive, model.ContractStateFinished, model.ContractStateCancelled)
}

func errAssetUnavailable(code string) error {
	return apperr.New(apperr.KindAssetUnavailable, "asset "+code+" is not available")
}

func (s *contractService) Create(ctx context.Context, actor uuid.UUID, in CreateContractInput) (*model.Contract, error) {
	if err := requireFields(
		"number", in.Number,
		"entityId", in.EntityID,
		"assetId", in.AssetID,
		"startDate", in.StartDate,
		"endDate", in.EndDate,
	); err != nil {
		return nil, err
	}
	entityID, err := parseID(in.EntityID, "entity")
	if err != nil {
		return nil, err
	}
	assetID, err := parseID(in.AssetID, "asset")
	if err != nil {
		return nil, err
	}
	start, err := parseDate("startDate", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("endDate", in.EndDate)
	if err != nil {
		return nil, err
	}
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}
	if err := validateMoney("totalPrice", in.TotalPrice); err != nil {
		return nil, err
	}

	contract := &model.Contract{
		Number:     strings.TrimSpace(in.Number),
		EntityID:   entityID,
		AssetID:    assetID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: in.TotalPrice,
		State:      model.ContractStateActive,
		Notes:      in.Notes,
	}
	if in.State != nil {
		if err := validateContractState(*in.State); err != nil {
			return nil, err
		}
		contract.State = *in.State
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := validateReferenceExists(txCtx, s.entityRepo.FindByID, "entity", entityID); err != nil {
			return err
		}
		asset, err := validateReferenceExists(txCtx, s.assetRepo.FindByID, "asset", assetID)
		if err != nil {
			return err
		}
		if asset.State == model.AssetStateRented {
			return errAssetUnavailable(asset.Code)
		}

		if err := s.repo.Create(txCtx, contract); err != nil {
			return dbError(err, "contract")
		}

		// Another writer may have rented the asset since the read above.
		changed, err := s.assetRepo.MarkRented(txCtx, assetID)
		if err != nil {
			return dbError(err, "asset")
		}
		if !changed {
			return errAssetUnavailable(asset.Code)
		}

		return recordAudit(txCtx, s.auditRepo, actor, model.ActionCreateContract, contract.ID.String(), contract.Number, in)
	})
	if err != nil {
		return nil, dbError(err, "contract")
	}

	s.publishAssetState(assetID, model.AssetStateRented, contract.ID)
	return contract, nil
}

// Update patches contract fields only. Asset state is left as it is even when
// the contract finishes or moves to another asset.
func (s *contractService) Update(ctx context.Context, actor uuid.UUID, id string, in UpdateContractInput) (*model.Contract, error) {
	if err := requirePatched(
		patchField{"number", in.Number},
		patchField{"entityId", in.EntityID},
		patchField{"assetId", in.AssetID},
		patchField{"startDate", in.StartDate},
		patchField{"endDate", in.EndDate},
	); err != nil {
		return nil, err
	}
	contractID, err := parseID(id, "contract")
	if err != nil {
		return nil, err
	}
	if in.State != nil {
		if err := validateContractState(*in.State); err != nil {
			return nil, err
		}
	}
	if in.TotalPrice != nil {
		if err := validateMoney("totalPrice", *in.TotalPrice); err != nil {
			return nil, err
		}
	}

	var contract *model.Contract
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, contractID)
		if err != nil {
			return dbError(err, "contract")
		}
		contract = found

		if in.EntityID != nil {
			entityID, err := parseID(*in.EntityID, "entity")
			if err != nil {
				return err
			}
			if _, err := validateReferenceExists(txCtx, s.entityRepo.FindByID, "entity", entityID); err != nil {
				return err
			}
			contract.EntityID = entityID
		}
		if in.AssetID != nil {
			assetID, err := parseID(*in.AssetID, "asset")
			if err != nil {
				return err
			}
			if _, err := validateReferenceExists(txCtx, s.assetRepo.FindByID, "asset", assetID); err != nil {
				return err
			}
			contract.AssetID = assetID
		}
		if in.StartDate != nil {
			if contract.StartDate, err = parseDate("startDate", *in.StartDate); err != nil {
				return err
			}
		}
		if in.EndDate != nil {
			if contract.EndDate, err = parseDate("endDate", *in.EndDate); err != nil {
				return err
			}
		}
		if err := validatePeriod(contract.StartDate, contract.EndDate); err != nil {
			return err
		}
		applyString(&contract.Number, in.Number)
		applyString(&contract.State, in.State)
		if in.TotalPrice != nil {
			contract.TotalPrice = *in.TotalPrice
		}
		if in.Notes != nil {
			contract.Notes = in.Notes
		}

		if err := s.repo.Update(txCtx, contract); err != nil {
			return dbError(err, "contract")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionUpdateContract, contract.ID.String(), contract.Number, in)
	})
	if err != nil {
		return nil, dbError(err, "contract")
	}
	return contract, nil
}

// Delete releases the contract's asset and removes the contract in one
// transaction; if the asset cannot be released the contract stays.
func (s *contractService) Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error) {
	contractID, err := parseID(id, "contract")
	if err != nil {
		return false, err
	}

	var contract *model.Contract
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, contractID)
		if err != nil {
			return dbError(err, "contract")
		}
		contract = found

		if err := s.assetRepo.SetState(txCtx, contract.AssetID, model.AssetStateAvailable); err != nil {
			return dbError(err, "asset")
		}
		deleted, err := s.repo.Delete(txCtx, contract.ID)
		if err != nil {
			return dbError(err, "contract")
		}
		if !deleted {
			return apperr.NotFound("contract")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionDeleteContract, contract.ID.String(), contract.Number, map[string]string{
			"asset_id": contract.AssetID.String(),
		})
	})
	if err != nil {
		return false, dbError(err, "contract")
	}

	s.publishAssetState(contract.AssetID, model.AssetStateAvailable, contract.ID)
	return true, nil
}

func (s *contractService) Get(ctx context.Context, id string) (*model.Contract, error) {
	contractID, err := parseID(id, "contract")
	if err != nil {
		return nil, err
	}
	contract, err := s.repo.FindByID(ctx, contractID)
	if err != nil {
		return nil, dbError(err, "contract")
	}
	return contract, nil
}

func (s *contractService) List(ctx context.Context, p pagination.Params) ([]model.Contract, error) {
	contracts, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, dbError(err, "contract")
	}
	return contracts, nil
}

func (s *contractService) publishAssetState(assetID uuid.UUID, state string, contractID uuid.UUID) {
	if s.events == nil {
		return
	}
	s.events.Publish(EventAssetStateChanged, map[string]interface{}{
		"asset_id":    assetID.String(),
		"state":       state,
		"contract_id": contractID.String(),
		"at":          time.Now().UTC().Format(time.RFC3339),
	})
}
