package graph_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"rentals/internal/graph"
	"rentals/internal/middleware"
	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/internal/service"
	"rentals/internal/testutil"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type harness struct {
	db     *gorm.DB
	schema *graphql.Schema
	tokens *middleware.TokenManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	tokens := middleware.NewTokenManager("test-secret", time.Hour)

	txManager := repository.NewTransactionManager(db)
	entityRepo := repository.NewEntityRepository(db)
	contactRepo := repository.NewContactRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	contractRepo := repository.NewContractRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	resolver := graph.NewResolver(graph.Services{
		Entities:   service.NewEntityService(txManager, entityRepo, contactRepo, auditRepo),
		Contacts:   service.NewContactService(txManager, contactRepo, entityRepo, auditRepo),
		Assets:     service.NewAssetService(txManager, assetRepo, auditRepo),
		Contracts:  service.NewContractService(txManager, contractRepo, entityRepo, assetRepo, auditRepo, nil),
		Invoices:   service.NewInvoiceService(txManager, invoiceRepo, contractRepo, entityRepo, auditRepo),
		Auth:       service.NewAuthService(txManager, repository.NewUserRepository(db), auditRepo, tokens),
		Audit:      service.NewAuditService(auditRepo),
		Statistics: service.NewStatisticsService(repository.NewStatisticsRepository(db)),
	}, zaptest.NewLogger(t))

	schema, err := graph.NewSchema(resolver)
	require.NoError(t, err)
	return &harness{db: db, schema: schema, tokens: tokens}
}

type gqlResult struct {
	Data   map[string]json.RawMessage
	Errors []struct {
		Message    string
		Extensions map[string]interface{}
	}
}

func (h *harness) exec(t *testing.T, ctx context.Context, query string, vars map[string]interface{}) gqlResult {
	t.Helper()
	resp := h.schema.Exec(ctx, query, "", vars)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var out gqlResult
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func errorCode(t *testing.T, res gqlResult) string {
	t.Helper()
	require.NotEmpty(t, res.Errors, "expected an error")
	code, _ := res.Errors[0].Extensions["code"].(string)
	return code
}

// registerCaller signs up a user and returns a context carrying it.
func (h *harness) registerCaller(t *testing.T, email string) context.Context {
	t.Helper()
	res := h.exec(t, context.Background(), `mutation($in: RegisterInput!) {
		register(input: $in) { token user { id email role } }
	}`, map[string]interface{}{
		"in": map[string]interface{}{"email": email, "password": "password1", "name": "Operator"},
	})
	require.Empty(t, res.Errors)

	var payload struct {
		Token string
		User  struct{ ID string }
	}
	require.NoError(t, json.Unmarshal(res.Data["register"], &payload))
	caller, err := h.tokens.Verify(payload.Token)
	require.NoError(t, err)
	assert.Equal(t, payload.User.ID, caller.UserID.String())
	return middleware.WithCaller(context.Background(), caller)
}

const createEntityMutation = `mutation($in: EntityInput!) {
	createEntity(input: $in) { id name kind documentType email }
}`

func entityVars(kind, doc string) map[string]interface{} {
	return map[string]interface{}{"in": map[string]interface{}{
		"name":           "Constructora Andes",
		"kind":           kind,
		"documentType":   doc,
		"documentNumber": "30-71234567-8",
		"email":          "Compras@Andes.example",
		"phone":          "555-0101",
		"address":        "Av. Pellegrini 1200",
		"city":           "Rosario",
	}}
}

func TestGateway_AnonymousMutationIsRejectedBeforeAnyWrite(t *testing.T) {
	h := newHarness(t)

	res := h.exec(t, context.Background(), createEntityMutation, entityVars(model.EntityKindOrganization, model.DocumentTaxOrg))
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, res))

	var n int64
	require.NoError(t, h.db.Model(&model.Entity{}).Count(&n).Error)
	assert.Zero(t, n)

	res = h.exec(t, context.Background(), `mutation { deleteContract(id: "`+uuid.NewString()+`") }`, nil)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, res))
}

func TestGateway_AuthenticatedMutationAndQueries(t *testing.T) {
	h := newHarness(t)
	ctx := h.registerCaller(t, "ops@example.com")

	res := h.exec(t, ctx, createEntityMutation, entityVars(model.EntityKindOrganization, model.DocumentTaxOrg))
	require.Empty(t, res.Errors)
	var entity struct{ ID, Email string }
	require.NoError(t, json.Unmarshal(res.Data["createEntity"], &entity))
	assert.Equal(t, "compras@andes.example", entity.Email)

	res = h.exec(t, ctx, `mutation($in: ContactInput!) { createContact(input: $in) { id entity { id } } }`,
		map[string]interface{}{"in": map[string]interface{}{
			"entityId": entity.ID, "name": "Ana", "email": "ana@example.com", "phone": "555", "title": "Manager",
		}})
	require.Empty(t, res.Errors)

	// queries are public
	res = h.exec(t, context.Background(), `query($id: ID!) { entity(id: $id) { name contacts { name } } }`,
		map[string]interface{}{"id": entity.ID})
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"name":"Constructora Andes","contacts":[{"name":"Ana"}]}`, string(res.Data["entity"]))

	res = h.exec(t, context.Background(), `{ entity(id: "`+uuid.NewString()+`") { id } contract(id: "garbage") { id } }`, nil)
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `null`, string(res.Data["entity"]))
	assert.JSONEq(t, `null`, string(res.Data["contract"]))
}

func TestGateway_DomainErrorsCarryCodes(t *testing.T) {
	h := newHarness(t)
	ctx := h.registerCaller(t, "ops@example.com")

	res := h.exec(t, ctx, createEntityMutation, entityVars(model.EntityKindOrganization, model.DocumentTaxIndA))
	assert.Equal(t, "DOMAIN_CONSTRAINT_VIOLATION", errorCode(t, res))

	res = h.exec(t, context.Background(), `{ login(input: {email: "ops@example.com", password: "wrong-one"}) { token } }`, nil)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, res))
	assert.Equal(t, "invalid email or password", res.Errors[0].Message)

	res = h.exec(t, context.Background(), `mutation { register(input: {email: "ops@example.com", password: "password1", name: "Dup"}) { token } }`, nil)
	assert.Equal(t, "CONFLICT", errorCode(t, res))
}

func TestGateway_ContractCoordinationThroughAPI(t *testing.T) {
	h := newHarness(t)
	ctx := h.registerCaller(t, "ops@example.com")

	res := h.exec(t, ctx, createEntityMutation, entityVars(model.EntityKindIndividual, model.DocumentTaxIndB))
	require.Empty(t, res.Errors)
	var entity struct{ ID string }
	require.NoError(t, json.Unmarshal(res.Data["createEntity"], &entity))

	res = h.exec(t, ctx, `mutation {
		createAsset(input: {code: "EQ-001", category: "equipment", name: "Generator", description: "20kVA",
			brand: "Atlas", model: "QAS 20", year: 2021, dailyRate: 150.5}) { id state dailyRate }
	}`, nil)
	require.Empty(t, res.Errors)
	var asset struct {
		ID        string
		State     string
		DailyRate float64
	}
	require.NoError(t, json.Unmarshal(res.Data["createAsset"], &asset))
	assert.Equal(t, "available", asset.State)
	assert.Equal(t, 150.5, asset.DailyRate)

	createContract := `mutation($in: ContractInput!) { createContract(input: $in) { id state asset { state } entity { id } } }`
	contractVars := func(number string) map[string]interface{} {
		return map[string]interface{}{"in": map[string]interface{}{
			"number": number, "entityId": entity.ID, "assetId": asset.ID,
			"startDate": "2026-03-01", "endDate": "2026-03-10", "totalPrice": 1505.0,
		}}
	}

	res = h.exec(t, ctx, createContract, contractVars("C-1"))
	require.Empty(t, res.Errors)
	var contract struct {
		ID    string
		State string
		Asset struct{ State string }
	}
	require.NoError(t, json.Unmarshal(res.Data["createContract"], &contract))
	assert.Equal(t, "active", contract.State)
	assert.Equal(t, "rented", contract.Asset.State)

	res = h.exec(t, ctx, createContract, contractVars("C-2"))
	assert.Equal(t, "ASSET_UNAVAILABLE", errorCode(t, res))

	res = h.exec(t, ctx, `mutation($id: ID!) { deleteContract(id: $id) }`, map[string]interface{}{"id": contract.ID})
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `true`, string(res.Data["deleteContract"]))

	res = h.exec(t, context.Background(), `query($id: ID!) { asset(id: $id) { state } }`, map[string]interface{}{"id": asset.ID})
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"state":"available"}`, string(res.Data["asset"]))

	res = h.exec(t, ctx, createContract, contractVars("C-2"))
	require.Empty(t, res.Errors)
}

func TestQuery_MeAndAuditLogsNeedCaller(t *testing.T) {
	h := newHarness(t)

	res := h.exec(t, context.Background(), `{ me { id } }`, nil)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, res))

	res = h.exec(t, context.Background(), `{ auditLogs { total } }`, nil)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, res))

	ctx := h.registerCaller(t, "me@example.com")
	res = h.exec(t, ctx, `{ me { email role } auditLogs(page: 1, limit: 10) { total items { action } } }`, nil)
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"email":"me@example.com","role":"user"}`, string(res.Data["me"]))
	assert.JSONEq(t, `{"total":1,"items":[{"action":"REGISTER_USER"}]}`, string(res.Data["auditLogs"]))

	res = h.exec(t, ctx, `{ auditLogs(action: "CREATE_ASSET") { total } }`, nil)
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"total":0}`, string(res.Data["auditLogs"]))
}

func TestQuery_DashboardStatsIsPublic(t *testing.T) {
	h := newHarness(t)

	res := h.exec(t, context.Background(), `{ dashboardStats { entities assets assetsByState { state count } } }`, nil)
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"entities":0,"assets":0,"assetsByState":[]}`, string(res.Data["dashboardStats"]))
}
