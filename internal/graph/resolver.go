// Package graph serves the GraphQL API: the query façade over the stores and
// the authenticated gateway in front of every mutation.
package graph

import (
	"context"
	_ "embed"
	"errors"

	"rentals/internal/apperr"
	"rentals/internal/middleware"
	"rentals/internal/service"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var schemaSDL string

// Services groups the domain services the resolvers delegate to.
type Services struct {
	Entities   service.EntityService
	Contacts   service.ContactService
	Assets     service.AssetService
	Contracts  service.ContractService
	Invoices   service.InvoiceService
	Auth       service.AuthService
	Audit      service.AuditService
	Statistics service.StatisticsService
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	svc Services
	log *zap.Logger
}

func NewResolver(svc Services, log *zap.Logger) *Resolver {
	return &Resolver{svc: svc, log: log}
}

// NewSchema parses the embedded schema against r.
func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, r,
		graphql.MaxDepth(12),
	)
}

// requireCaller runs first in every mutation except register and login.
func requireCaller(ctx context.Context) (*middleware.Caller, error) {
	caller := middleware.CallerFromContext(ctx)
	if caller == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return caller, nil
}

// fail normalises err to an *apperr.Error so the executor can attach its
// code. Internal causes are logged here and never reach the client.
func (r *Resolver) fail(op string, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}
	if appErr.Kind == apperr.KindInternal {
		r.log.Error("graphql operation failed", zap.String("op", op), zap.Error(appErr.Err))
	}
	return appErr
}
