package service

import (
	"context"
	"strings"

	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
)

type CreateContactInput struct {
	EntityID string `json:"entityId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Title    string `json:"title"`
}

type UpdateContactInput struct {
	EntityID *string `json:"entityId,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Title    *string `json:"title,omitempty"`
}

type ContactService interface {
	Create(ctx context.Context, actor uuid.UUID, in CreateContactInput) (*model.Contact, error)
	Update(ctx context.Context, actor uuid.UUID, id string, in UpdateContactInput) (*model.Contact, error)
	Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
	List(ctx context.Context, p pagination.Params) ([]model.Contact, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]model.Contact, error)
}

type contactService struct {
	txManager  repository.TransactionManager
	repo       repository.ContactRepository
	entityRepo repository.EntityRepository
	auditRepo  repository.AuditRepository
}

func NewContactService(txManager repository.TransactionManager, repo repository.ContactRepository, entityRepo repository.EntityRepository, auditRepo repository.AuditRepository) ContactService {
	return &contactService{txManager: txManager, repo: repo, entityRepo: entityRepo, auditRepo: auditRepo}
}

func (s *contactService) Create(ctx context.Context, actor uuid.UUID, in CreateContactInput) (*model.Contact, error) {
	if err := requireFields(
		"entityId", in.EntityID,
		"name", in.Name,
		"email", in.Email,
		"phone", in.Phone,
		"title", in.Title,
	); err != nil {
		return nil, err
	}
	entityID, err := parseID(in.EntityID, "entity")
	if err != nil {
		return nil, err
	}

	contact := &model.Contact{
		EntityID: entityID,
		Name:     strings.TrimSpace(in.Name),
		Email:    normalizeEmail(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Title:    strings.TrimSpace(in.Title),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := validateReferenceExists(txCtx, s.entityRepo.FindByID, "entity", entityID); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, contact); err != nil {
			return dbError(err, "contact")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionCreateContact, contact.ID.String(), contact.Name, in)
	})
	if err != nil {
		return nil, dbError(err, "contact")
	}
	return contact, nil
}

func (s *contactService) Update(ctx context.Context, actor uuid.UUID, id string, in UpdateContactInput) (*model.Contact, error) {
	if err := requirePatched(
		patchField{"entityId", in.EntityID},
		patchField{"name", in.Name},
		patchField{"email", in.Email},
		patchField{"phone", in.Phone},
		patchField{"title", in.Title},
	); err != nil {
		return nil, err
	}
	contactID, err := parseID(id, "contact")
	if err != nil {
		return nil, err
	}

	var contact *model.Contact
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, contactID)
		if err != nil {
			return dbError(err, "contact")
		}
		contact = found

		if in.EntityID != nil {
			entityID, err := parseID(*in.EntityID, "entity")
			if err != nil {
				return err
			}
			if _, err := validateReferenceExists(txCtx, s.entityRepo.FindByID, "entity", entityID); err != nil {
				return err
			}
			contact.EntityID = entityID
		}
		applyString(&contact.Name, in.Name)
		applyString(&contact.Phone, in.Phone)
		applyString(&contact.Title, in.Title)
		if in.Email != nil {
			contact.Email = normalizeEmail(*in.Email)
		}

		if err := s.repo.Update(txCtx, contact); err != nil {
			return dbError(err, "contact")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionUpdateContact, contact.ID.String(), contact.Name, in)
	})
	if err != nil {
		return nil, dbError(err, "contact")
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error) {
	contactID, err := parseID(id, "contact")
	if err != nil {
		return false, nil
	}

	deleted := false
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.repo.Delete(txCtx, contactID)
		if err != nil || !deleted {
			return err
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionDeleteContact, contactID.String(), "", map[string]bool{"deleted": true})
	})
	if err != nil {
		return false, dbError(err, "contact")
	}
	return deleted, nil
}

func (s *contactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	contactID, err := parseID(id, "contact")
	if err != nil {
		return nil, err
	}
	contact, err := s.repo.FindByID(ctx, contactID)
	if err != nil {
		return nil, dbError(err, "contact")
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, p pagination.Params) ([]model.Contact, error) {
	contacts, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, dbError(err, "contact")
	}
	return contacts, nil
}

// ListByEntity returns the contacts of one entity oldest first
func (s *contactService) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]model.Contact, error) {
	contacts, err := s.repo.ListByEntityID(ctx, entityID)
	if err != nil {
		return nil, dbError(err, "contact")
	}
	return contacts, nil
}
