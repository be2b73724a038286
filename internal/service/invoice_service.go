package service

import (
	"context"
	"strings"

	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateInvoiceInput struct {
	Number     string          `json:"number"`
	ContractID string          `json:"contractId"`
	EntityID   string          `json:"entityId"`
	IssueDate  string          `json:"issueDate"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	State      *string         `json:"state,omitempty"`
}

type UpdateInvoiceInput struct {
	Number     *string          `json:"number,omitempty"`
	ContractID *string          `json:"contractId,omitempty"`
	EntityID   *string          `json:"entityId,omitempty"`
	IssueDate  *string          `json:"issueDate,omitempty"`
	Subtotal   *decimal.Decimal `json:"subtotal,omitempty"`
	Tax        *decimal.Decimal `json:"tax,omitempty"`
	Total      *decimal.Decimal `json:"total,omitempty"`
	State      *string          `json:"state,omitempty"`
}

// InvoiceService stores invoices as billed; amounts are never recomputed and
// invoices have no effect on contract or asset state.
type InvoiceService interface {
	Create(ctx context.Context, actor uuid.UUID, in CreateInvoiceInput) (*model.Invoice, error)
	Update(ctx context.Context, actor uuid.UUID, id string, in UpdateInvoiceInput) (*model.Invoice, error)
	Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error)
	Get(ctx context.Context, id string) (*model.Invoice, error)
	List(ctx context.Context, p pagination.Params) ([]model.Invoice, error)
}

type invoiceService struct {
	txManager    repository.TransactionManager
	repo         repository.InvoiceRepository
	contractRepo repository.ContractRepository
	entityRepo   repository.EntityRepository
	auditRepo    repository.AuditRepository
}

func NewInvoiceService(
	txManager repository.TransactionManager,
	repo repository.InvoiceRepository,
	contractRepo repository.ContractRepository,
	entityRepo repository.EntityRepository,
	auditRepo repository.AuditRepository,
) InvoiceService {
	return &invoiceService{
		txManager:    txManager,
		repo:         repo,
		contractRepo: contractRepo,
		entityRepo:   entityRepo,
		auditRepo:    auditRepo,
	}
}

func validateInvoiceState(state string) error {
	return validateOneOf("state", state, validInvoiceStates, model.InvoiceStatePending, model.InvoiceStatePaid, model.InvoiceStateOverdue)
}

func validateInvoiceAmounts(subtotal, tax, total decimal.Decimal) error {
	if err := validateMoney("subtotal", subtotal); err != nil {
		return err
	}
	if err := validateMoney("tax", tax); err != nil {
		return err
	}
	return validateMoney("total", total)
}

func (s *invoiceService) Create(ctx context.Context, actor uuid.UUID, in CreateInvoiceInput) (*model.Invoice, error) {
	if err := requireFields(
		"number", in.Number,
		"contractId", in.ContractID,
		"entityId", in.EntityID,
		"issueDate", in.IssueDate,
	); err != nil {
		return nil, err
	}
	contractID, err := parseID(in.ContractID, "contract")
	if err != nil {
		return nil, err
	}
	entityID, err := parseID(in.EntityID, "entity")
	if err != nil {
		return nil, err
	}
	issued, err := parseDate("issueDate", in.IssueDate)
	if err != nil {
		return nil, err
	}
	if err := validateInvoiceAmounts(in.Subtotal, in.Tax, in.Total); err != nil {
		return nil, err
	}

	invoice := &model.Invoice{
		Number:     strings.TrimSpace(in.Number),
		ContractID: contractID,
		EntityID:   entityID,
		IssueDate:  issued,
		Subtotal:   in.Subtotal,
		Tax:        in.Tax,
		Total:      in.Total,
		State:      model.InvoiceStatePending,
	}
	if in.State != nil {
		if err := validateInvoiceState(*in.State); err != nil {
			return nil, err
		}
		invoice.State = *in.State
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := validateReferenceExists(txCtx, s.contractRepo.FindByID, "contract", contractID); err != nil {
			return err
		}
		if _, err := validateReferenceExists(txCtx, s.entityRepo.FindByID, "entity", entityID); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, invoice); err != nil {
			return dbError(err, "invoice")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionCreateInvoice, invoice.ID.String(), invoice.Number, in)
	})
	if err != nil {
		return nil, dbError(err, "invoice")
	}
	return invoice, nil
}

func (s *invoiceService) Update(ctx context.Context, actor uuid.UUID, id string, in UpdateInvoiceInput) (*model.Invoice, error) {
	if err := requirePatched(
		patchField{"number", in.Number},
		patchField{"contractId", in.ContractID},
		patchField{"entityId", in.EntityID},
		patchField{"issueDate", in.IssueDate},
	); err != nil {
		return nil, err
	}
	invoiceID, err := parseID(id, "invoice")
	if err != nil {
		return nil, err
	}
	if in.State != nil {
		if err := validateInvoiceState(*in.State); err != nil {
			return nil, err
		}
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, invoiceID)
		if err != nil {
			return dbError(err, "invoice")
		}
		invoice = found

		if in.ContractID != nil {
			contractID, err := parseID(*in.ContractID, "contract")
			if err != nil {
				return err
			}
			if _, err := validateReferenceExists(txCtx, s.contractRepo.FindByID, "contract", contractID); err != nil {
				return err
			}
			invoice.ContractID = contractID
		}
		if in.EntityID != nil {
			entityID, err := parseID(*in.EntityID, "entity")
			if err != nil {
				return err
			}
			if _, err := validateReferenceExists(txCtx, s.entityRepo.FindByID, "entity", entityID); err != nil {
				return err
			}
			invoice.EntityID = entityID
		}
		if in.IssueDate != nil {
			if invoice.IssueDate, err = parseDate("issueDate", *in.IssueDate); err != nil {
				return err
			}
		}
		applyString(&invoice.Number, in.Number)
		applyString(&invoice.State, in.State)
		if in.Subtotal != nil {
			invoice.Subtotal = *in.Subtotal
		}
		if in.Tax != nil {
			invoice.Tax = *in.Tax
		}
		if in.Total != nil {
			invoice.Total = *in.Total
		}
		if err := validateInvoiceAmounts(invoice.Subtotal, invoice.Tax, invoice.Total); err != nil {
			return err
		}

		if err := s.repo.Update(txCtx, invoice); err != nil {
			return dbError(err, "invoice")
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionUpdateInvoice, invoice.ID.String(), invoice.Number, in)
	})
	if err != nil {
		return nil, dbError(err, "invoice")
	}
	return invoice, nil
}

func (s *invoiceService) Delete(ctx context.Context, actor uuid.UUID, id string) (bool, error) {
	invoiceID, err := parseID(id, "invoice")
	if err != nil {
		return false, nil
	}

	deleted := false
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.repo.Delete(txCtx, invoiceID)
		if err != nil || !deleted {
			return err
		}
		return recordAudit(txCtx, s.auditRepo, actor, model.ActionDeleteInvoice, invoiceID.String(), "", map[string]bool{"deleted": true})
	})
	if err != nil {
		return false, dbError(err, "invoice")
	}
	return deleted, nil
}

func (s *invoiceService) Get(ctx context.Context, id string) (*model.Invoice, error) {
	invoiceID, err := parseID(id, "invoice")
	if err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, dbError(err, "invoice")
	}
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, p pagination.Params) ([]model.Invoice, error) {
	invoices, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, dbError(err, "invoice")
	}
	return invoices, nil
}
