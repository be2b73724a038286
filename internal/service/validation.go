package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentals/internal/apperr"
	"rentals/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validEntityKinds = map[string]bool{
	model.EntityKindOrganization: true,
	model.EntityKindIndividual:   true,
}

// documentTypesByKind lists, per entity kind, the document types it may carry
var documentTypesByKind = map[string]map[string]bool{
	model.EntityKindOrganization: {model.DocumentTaxOrg: true},
	model.EntityKindIndividual:   {model.DocumentTaxIndA: true, model.DocumentTaxIndB: true},
}

var validDocumentTypes = map[string]bool{
	model.DocumentTaxOrg:  true,
	model.DocumentTaxIndA: true,
	model.DocumentTaxIndB: true,
}

var validAssetCategories = map[string]bool{
	model.AssetCategoryEquipment: true,
	model.AssetCategoryVehicle:   true,
}

var validAssetStates = map[string]bool{
	model.AssetStateAvailable:   true,
	model.AssetStateRented:      true,
	model.AssetStateMaintenance: true,
}

var validContractStates = map[string]bool{
	model.ContractStateActive:    true,
	model.ContractStateFinished:  true,
	model.ContractStateCancelled: true,
}

var validInvoiceStates = map[string]bool{
	model.InvoiceStatePending: true,
	model.InvoiceStatePaid:    true,
	model.InvoiceStateOverdue: true,
}

var validRoles = map[string]bool{
	model.RoleAdmin: true,
	model.RoleUser:  true,
}

// ValidateEntityDocument enforces that organizations carry TAX_ORG and
// individuals carry TAX_IND_A or TAX_IND_B.
func ValidateEntityDocument(kind, documentType string) error {
	allowed, ok := documentTypesByKind[kind]
	if !ok {
		return apperr.Violation(fmt.Sprintf("kind must be one of: %s, %s", model.EntityKindOrganization, model.EntityKindIndividual))
	}
	if allowed[documentType] {
		return nil
	}
	switch kind {
	case model.EntityKindOrganization:
		return apperr.Violation("organizations can only carry document type " + model.DocumentTaxOrg)
	default:
		return apperr.Violation("individuals can only carry document type " + model.DocumentTaxIndA + " or " + model.DocumentTaxIndB)
	}
}

func validateOneOf(field, value string, allowed map[string]bool, options ...string) error {
	if allowed[value] {
		return nil
	}
	return apperr.Violation(fmt.Sprintf("%s must be one of: %s", field, strings.Join(options, ", ")))
}

// requireFields fails on the first blank value; pairs are field name, value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return apperr.Violation(pairs[i] + " is required")
		}
	}
	return nil
}

// patchField names an optional update value; nil leaves the stored value alone.
type patchField struct {
	name  string
	value *string
}

// requirePatched keeps a patch from blanking a field create requires.
func requirePatched(fields ...patchField) error {
	for _, f := range fields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return apperr.Violation(f.name + " is required")
		}
	}
	return nil
}

// validateReferenceExists resolves a foreign reference through find and
// turns a missing record into a NOT_FOUND error naming what.
func validateReferenceExists[T any](ctx context.Context, find func(context.Context, uuid.UUID) (*T, error), what string, id uuid.UUID) (*T, error) {
	record, err := find(ctx, id)
	if err != nil {
		return nil, dbError(err, what)
	}
	return record, nil
}

// parseID maps malformed identifiers to NOT_FOUND: no record can carry them.
func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.NotFound(what)
	}
	return id, nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Violation(field + " must be a date (YYYY-MM-DD or RFC 3339)")
}

func validatePeriod(start, end time.Time) error {
	if end.Before(start) {
		return apperr.Violation("endDate must not be before startDate")
	}
	return nil
}

// dbError converts repository errors into API errors. Errors that already
// carry a Kind pass through untouched.
func dbError(err error, what string) error {
	var appErr *apperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(what+" violates a unique constraint", err)
	default:
		return apperr.Internal(fmt.Errorf("%s: %w", what, err))
	}
}
