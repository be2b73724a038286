package service_test

import (
	"context"
	"sync"
	"testing"

	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/internal/service"
	"rentals/internal/testutil"
	"rentals/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type publishedEvent struct {
	name string
	data map[string]interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(event string, data map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{name: event, data: data})
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type stubTokens struct{}

func (stubTokens) Issue(userID uuid.UUID, email, role string) (string, error) {
	return "token-" + userID.String(), nil
}

type fixture struct {
	db        *gorm.DB
	actor     uuid.UUID
	events    *recordingPublisher
	entities  service.EntityService
	contacts  service.ContactService
	assets    service.AssetService
	contracts service.ContractService
	invoices  service.InvoiceService
	auth      service.AuthService
	audit     service.AuditService
	stats     service.StatisticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	txManager := repository.NewTransactionManager(db)
	entityRepo := repository.NewEntityRepository(db)
	contactRepo := repository.NewContactRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	contractRepo := repository.NewContractRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	events := &recordingPublisher{}

	return &fixture{
		db:        db,
		actor:     uuid.New(),
		events:    events,
		entities:  service.NewEntityService(txManager, entityRepo, contactRepo, auditRepo),
		contacts:  service.NewContactService(txManager, contactRepo, entityRepo, auditRepo),
		assets:    service.NewAssetService(txManager, assetRepo, auditRepo),
		contracts: service.NewContractService(txManager, contractRepo, entityRepo, assetRepo, auditRepo, events),
		invoices:  service.NewInvoiceService(txManager, invoiceRepo, contractRepo, entityRepo, auditRepo),
		auth:      service.NewAuthService(txManager, userRepo, auditRepo, stubTokens{}),
		audit:     service.NewAuditService(auditRepo),
		stats:     service.NewStatisticsService(repository.NewStatisticsRepository(db)),
	}
}

func (f *fixture) createEntity(t *testing.T) *model.Entity {
	t.Helper()
	entity, err := f.entities.Create(context.Background(), f.actor, service.CreateEntityInput{
		Name:           "Constructora Andes",
		Kind:           model.EntityKindOrganization,
		DocumentType:   model.DocumentTaxOrg,
		DocumentNumber: "30-71234567-8",
		Email:          "Compras@Andes.example",
		Phone:          "+54 341 555 0101",
		Address:        "Av. Pellegrini 1200",
		City:           "Rosario",
	})
	require.NoError(t, err)
	return entity
}

func (f *fixture) createAsset(t *testing.T, code string) *model.Asset {
	t.Helper()
	asset, err := f.assets.Create(context.Background(), f.actor, service.CreateAssetInput{
		Code:        code,
		Category:    model.AssetCategoryEquipment,
		Name:        "Excavator",
		Description: "Compact excavator 3.5t",
		Brand:       "Bobcat",
		Model:       "E35",
		Year:        2022,
		DailyRate:   decimal.RequireFromString("320.00"),
	})
	require.NoError(t, err)
	return asset
}

func contractInput(number string, entity *model.Entity, asset *model.Asset) service.CreateContractInput {
	return service.CreateContractInput{
		Number:     number,
		EntityID:   entity.ID.String(),
		AssetID:    asset.ID.String(),
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-15",
		TotalPrice: decimal.RequireFromString("4480.00"),
	}
}

func (f *fixture) assetState(t *testing.T, id uuid.UUID) string {
	t.Helper()
	asset, err := f.assets.Get(context.Background(), id.String())
	require.NoError(t, err)
	return asset.State
}

func (f *fixture) count(t *testing.T, table interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(table).Count(&n).Error)
	return n
}

// pagedAll is the unpaged listing the façade uses when no page/limit is given.
func pagedAll() pagination.Params {
	return pagination.Params{}
}
