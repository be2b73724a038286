package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
)

type AuditService interface {
	List(ctx context.Context, f repository.AuditFilter, p pagination.Params) ([]model.AuditLog, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// List returns audit entries newest first together with the total count
func (s *auditService) List(ctx context.Context, f repository.AuditFilter, p pagination.Params) ([]model.AuditLog, int64, error) {
	f.Action = strings.ToUpper(strings.TrimSpace(f.Action))
	f.EntityID = strings.TrimSpace(f.EntityID)
	logs, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, dbError(err, "audit log")
	}
	return logs, total, nil
}

// recordAudit writes one audit entry. Call it with the transaction context of
// the mutation it describes so both commit or roll back together.
func recordAudit(ctx context.Context, repo repository.AuditRepository, actor uuid.UUID, action, entityID, entityName string, details interface{}) error {
	var uid *uuid.UUID
	if actor != uuid.Nil {
		uid = &actor
	}

	payload := []byte("{}")
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
		payload = b
	}

	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
