package service

import (
	"context"
	"strings"

	"rentals/internal/apperr"
	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
)

type CreateEntityInput struct {
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
}

// UpdateEntityInput is a partial patch: nil fields are left untouched.
type UpdateEntityInput struct {
	Name           *string `json:"name,omitempty"`
	Kind           *string `json:"kind,omitempty"`
	DocumentType   *string `json:"documentType,omitempty"`
	DocumentNumber *string `json:"documentNumber,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	City           *string `json:"city,omitempty"`
}

type EntityService interface {
	Create(ctx context.Context, actor uuid.UUID, in CreateEntityInput) (*model.Entity, error)
	Update(ctx context.Context, actor uuid.UUID, id string, in UpdateEntityInput) (*model.Entity, error)
	Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error)
	Get(ctx context.Context, id string) (*model.Entity, error)
	List(ctx context.Context, p pagination.Params) ([]model.Entity, error)
}

type entityService struct {
	txManager   repository.TransactionManager
	repo        repository.EntityRepository
	contactRepo repository.ContactRepository
	auditRepo   repository.AuditRepository
}

func NewEntityService(txManager repository.TransactionManager, repo repository.EntityRepository, contactRepo repository.ContactRepository, auditRepo repository.AuditRepository) EntityService {
	return &entityService{txManager: txManager, repo: repo, contactRepo: contactRepo, auditRepo: auditRepo}
}

func (s *entityService) Create(ctx context.Context, actor uuid.UUID, in CreateEntityInput) (*model.Entity, error) {
	if err := requireFields(
		"name", in.Name,
		"kind", in.Kind,
		"documentType", in.DocumentType,
		"documentNumber", in.DocumentNumber,
		"email", in.Email,
		"phone", in.Phone,
		"address", in.Address,
		"city", in.City,
	); err != nil {
		return nil, err
	}
	if err := ValidateEntityDocument(in.Kind, in.DocumentType); err != nil {
		return nil, err
	}

	entity := &model.Entity{
		Name:           strings.TrimSpace(in.Name),
		Kind:           in.Kind,
		DocumentType:   in.DocumentType,
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		Email:          normalizeEmail(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, entity); err != nil {
			return dbError(err, "entity")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionCreateEntity, entity.ID.String(), entity.Name, in)
	})
	if err != nil {
		return nil, dbError(err, "entity")
	}
	return entity, nil
}

func (s *entityService) Update(ctx context.Context, actor uuid.UUID, id string, in UpdateEntityInput) (*model.Entity, error) {
	if err := requirePatched(
		patchField{"name", in.Name},
		patchField{"kind", in.Kind},
		patchField{"documentType", in.DocumentType},
		patchField{"documentNumber", in.DocumentNumber},
		patchField{"email", in.Email},
		patchField{"phone", in.Phone},
		patchField{"address", in.Address},
		patchField{"city", in.City},
	); err != nil {
		return nil, err
	}
	entityID, err := parseID(id, "entity")
	if err != nil {
		return nil, err
	}

	// The kind/document pairing is only checked when both arrive together;
	// a lone field is still held to its own vocabulary.
	switch {
	case in.Kind != nil && in.DocumentType != nil:
		if err := ValidateEntityDocument(*in.Kind, *in.DocumentType); err != nil {
			return nil, err
		}
	case in.Kind != nil:
		if err := validateOneOf("kind", *in.Kind, validEntityKinds, model.EntityKindOrganization, model.EntityKindIndividual); err != nil {
			return nil, err
		}
	case in.DocumentType != nil:
		if err := validateOneOf("documentType", *in.DocumentType, validDocumentTypes, model.DocumentTaxOrg, model.DocumentTaxIndA, model.DocumentTaxIndB); err != nil {
			return nil, err
		}
	}

	var entity *model.Entity
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, entityID)
		if err != nil {
			return dbError(err, "entity")
		}
		entity = found

		applyString(&entity.Name, in.Name)
		applyString(&entity.Kind, in.Kind)
		applyString(&entity.DocumentType, in.DocumentType)
		applyString(&entity.DocumentNumber, in.DocumentNumber)
		applyString(&entity.Phone, in.Phone)
		applyString(&entity.Address, in.Address)
		applyString(&entity.City, in.City)
		if in.Email != nil {
			entity.Email = normalizeEmail(*in.Email)
		}

		if err := s.repo.Update(txCtx, entity); err != nil {
			return dbError(err, "entity")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionUpdateEntity, entity.ID.String(), entity.Name, in)
	})
	if err != nil {
		return nil, dbError(err, "entity")
	}
	return entity, nil
}

func (s *entityService) Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error) {
	entityID, err := parseID(id, "entity")
	if err != nil {
		return false, nil
	}

	deleted := false
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		hasContacts, err := s.contactRepo.ExistsForEntity(txCtx, entityID)
		if err != nil {
			return dbError(err, "contact")
		}
		if hasContacts {
			return apperr.Violation("entity still has contacts; delete them first")
		}

		deleted, err = s.repo.Delete(txCtx, entityID)
		if err != nil {
			return dbError(err, "entity")
		}
		if !deleted {
			return nil
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionDeleteEntity, entityID.String(), "", map[string]bool{"deleted": true})
	})
	if err != nil {
		return false, dbError(err, "entity")
	}
	return deleted, nil
}

func (s *entityService) Get(ctx context.Context, id string) (*model.Entity, error) {
	entityID, err := parseID(id, "entity")
	if err != nil {
		return nil, err
	}
	entity, err := s.repo.FindByID(ctx, entityID)
	if err != nil {
		return nil, dbError(err, "entity")
	}
	return entity, nil
}

func (s *entityService) List(ctx context.Context, p pagination.Params) ([]model.Entity, error) {
	entities, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, dbError(err, "entity")
	}
	return entities, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
