package graph

import (
	"context"
	"time"

	"rentals/internal/apperr"
	"rentals/internal/model"
	"rentals/internal/service"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/shopspring/decimal"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// optional turns a NOT_FOUND lookup into a null field.
func optional[T any](v *T, err error) (*T, error) {
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	return v, err
}

// --- User ---

type userResolver struct {
	u *model.User
}

func (r *userResolver) ID() graphql.ID    { return graphql.ID(r.u.ID.String()) }
func (r *userResolver) Email() string     { return r.u.Email }
func (r *userResolver) Name() string      { return r.u.Name }
func (r *userResolver) Role() string      { return r.u.Role }
func (r *userResolver) CreatedAt() string { return formatTime(r.u.CreatedAt) }

type authPayloadResolver struct {
	p *service.AuthPayload
}

func (r *authPayloadResolver) Token() string       { return r.p.Token }
func (r *authPayloadResolver) User() *userResolver { return &userResolver{u: r.p.User} }

// --- Entity ---

type entityResolver struct {
	root *Resolver
	e    *model.Entity
}

func (r *entityResolver) ID() graphql.ID         { return graphql.ID(r.e.ID.String()) }
func (r *entityResolver) Name() string           { return r.e.Name }
func (r *entityResolver) Kind() string           { return r.e.Kind }
func (r *entityResolver) DocumentType() string   { return r.e.DocumentType }
func (r *entityResolver) DocumentNumber() string { return r.e.DocumentNumber }
func (r *entityResolver) Email() string          { return r.e.Email }
func (r *entityResolver) Phone() string          { return r.e.Phone }
func (r *entityResolver) Address() string        { return r.e.Address }
func (r *entityResolver) City() string           { return r.e.City }
func (r *entityResolver) CreatedAt() string      { return formatTime(r.e.CreatedAt) }
func (r *entityResolver) UpdatedAt() string      { return formatTime(r.e.UpdatedAt) }

func (r *entityResolver) Contacts(ctx context.Context) ([]*contactResolver, error) {
	contacts, err := r.root.svc.Contacts.ListByEntity(ctx, r.e.ID)
	if err != nil {
		return nil, r.root.fail("Entity.contacts", err)
	}
	return r.root.contactList(contacts), nil
}

// --- Contact ---

type contactResolver struct {
	root *Resolver
	c    *model.Contact
}

func (r *contactResolver) ID() graphql.ID       { return graphql.ID(r.c.ID.String()) }
func (r *contactResolver) EntityID() graphql.ID { return graphql.ID(r.c.EntityID.String()) }
func (r *contactResolver) Name() string         { return r.c.Name }
func (r *contactResolver) Email() string        { return r.c.Email }
func (r *contactResolver) Phone() string        { return r.c.Phone }
func (r *contactResolver) Title() string        { return r.c.Title }
func (r *contactResolver) CreatedAt() string    { return formatTime(r.c.CreatedAt) }

func (r *contactResolver) Entity(ctx context.Context) (*entityResolver, error) {
	return r.root.entityByID(ctx, "Contact.entity", r.c.EntityID.String())
}

// --- Asset ---

type assetResolver struct {
	a *model.Asset
}

func (r *assetResolver) ID() graphql.ID      { return graphql.ID(r.a.ID.String()) }
func (r *assetResolver) Code() string        { return r.a.Code }
func (r *assetResolver) Category() string    { return r.a.Category }
func (r *assetResolver) Name() string        { return r.a.Name }
func (r *assetResolver) Description() string { return r.a.Description }
func (r *assetResolver) Brand() string       { return r.a.Brand }
func (r *assetResolver) Model() string       { return r.a.Model }
func (r *assetResolver) Year() int32         { return int32(r.a.Year) }
func (r *assetResolver) DailyRate() float64  { return money(r.a.DailyRate) }
func (r *assetResolver) State() string       { return r.a.State }
func (r *assetResolver) CreatedAt() string   { return formatTime(r.a.CreatedAt) }
func (r *assetResolver) UpdatedAt() string   { return formatTime(r.a.UpdatedAt) }

// --- Contract ---

type contractResolver struct {
	root *Resolver
	c    *model.Contract
}

func (r *contractResolver) ID() graphql.ID       { return graphql.ID(r.c.ID.String()) }
func (r *contractResolver) Number() string       { return r.c.Number }
func (r *contractResolver) EntityID() graphql.ID { return graphql.ID(r.c.EntityID.String()) }
func (r *contractResolver) AssetID() graphql.ID  { return graphql.ID(r.c.AssetID.String()) }
func (r *contractResolver) StartDate() string    { return formatTime(r.c.StartDate) }
func (r *contractResolver) EndDate() string      { return formatTime(r.c.EndDate) }
func (r *contractResolver) TotalPrice() float64  { return money(r.c.TotalPrice) }
func (r *contractResolver) State() string        { return r.c.State }
func (r *contractResolver) Notes() *string       { return r.c.Notes }
func (r *contractResolver) CreatedAt() string    { return formatTime(r.c.CreatedAt) }
func (r *contractResolver) UpdatedAt() string    { return formatTime(r.c.UpdatedAt) }

func (r *contractResolver) Entity(ctx context.Context) (*entityResolver, error) {
	return r.root.entityByID(ctx, "Contract.entity", r.c.EntityID.String())
}

func (r *contractResolver) Asset(ctx context.Context) (*assetResolver, error) {
	asset, err := optional(r.root.svc.Assets.Get(ctx, r.c.AssetID.String()))
	if err != nil {
		return nil, r.root.fail("Contract.asset", err)
	}
	if asset == nil {
		return nil, nil
	}
	return &assetResolver{a: asset}, nil
}

// --- Invoice ---

type invoiceResolver struct {
	root *Resolver
	i    *model.Invoice
}

func (r *invoiceResolver) ID() graphql.ID         { return graphql.ID(r.i.ID.String()) }
func (r *invoiceResolver) Number() string         { return r.i.Number }
func (r *invoiceResolver) ContractID() graphql.ID { return graphql.ID(r.i.ContractID.String()) }
func (r *invoiceResolver) EntityID() graphql.ID   { return graphql.ID(r.i.EntityID.String()) }
func (r *invoiceResolver) IssueDate() string      { return formatTime(r.i.IssueDate) }
func (r *invoiceResolver) Subtotal() float64      { return money(r.i.Subtotal) }
func (r *invoiceResolver) Tax() float64           { return money(r.i.Tax) }
func (r *invoiceResolver) Total() float64         { return money(r.i.Total) }
func (r *invoiceResolver) State() string          { return r.i.State }
func (r *invoiceResolver) CreatedAt() string      { return formatTime(r.i.CreatedAt) }
func (r *invoiceResolver) UpdatedAt() string      { return formatTime(r.i.UpdatedAt) }

func (r *invoiceResolver) Contract(ctx context.Context) (*contractResolver, error) {
	return r.root.contractByID(ctx, "Invoice.contract", r.i.ContractID.String())
}

func (r *invoiceResolver) Entity(ctx context.Context) (*entityResolver, error) {
	return r.root.entityByID(ctx, "Invoice.entity", r.i.EntityID.String())
}

// --- Dashboard ---

type stateCountResolver struct {
	s model.StateCount
}

func (r *stateCountResolver) State() string { return r.s.State }
func (r *stateCountResolver) Count() int32  { return int32(r.s.Count) }

func stateCounts(counts []model.StateCount) []*stateCountResolver {
	out := make([]*stateCountResolver, 0, len(counts))
	for _, c := range counts {
		out = append(out, &stateCountResolver{s: c})
	}
	return out
}

type dashboardStatsResolver struct {
	s *model.DashboardStats
}

func (r *dashboardStatsResolver) Entities() int32  { return int32(r.s.Entities) }
func (r *dashboardStatsResolver) Contacts() int32  { return int32(r.s.Contacts) }
func (r *dashboardStatsResolver) Assets() int32    { return int32(r.s.Assets) }
func (r *dashboardStatsResolver) Contracts() int32 { return int32(r.s.Contracts) }
func (r *dashboardStatsResolver) Invoices() int32  { return int32(r.s.Invoices) }

func (r *dashboardStatsResolver) AssetsByState() []*stateCountResolver {
	return stateCounts(r.s.AssetsByState)
}

func (r *dashboardStatsResolver) ContractsByState() []*stateCountResolver {
	return stateCounts(r.s.ContractsByState)
}

func (r *dashboardStatsResolver) InvoicesByState() []*stateCountResolver {
	return stateCounts(r.s.InvoicesByState)
}

// --- Audit ---

type auditLogResolver struct {
	l *model.AuditLog
}

func (r *auditLogResolver) ID() graphql.ID { return graphql.ID(r.l.ID.String()) }

func (r *auditLogResolver) UserID() *graphql.ID {
	if r.l.UserID == nil {
		return nil
	}
	id := graphql.ID(r.l.UserID.String())
	return &id
}

func (r *auditLogResolver) Action() string     { return r.l.Action }
func (r *auditLogResolver) EntityID() string   { return r.l.EntityID }
func (r *auditLogResolver) EntityName() string { return r.l.EntityName }
func (r *auditLogResolver) Details() string    { return r.l.Details }
func (r *auditLogResolver) CreatedAt() string  { return formatTime(r.l.CreatedAt) }

type auditLogPageResolver struct {
	items []*auditLogResolver
	total int64
}

func (r *auditLogPageResolver) Items() []*auditLogResolver { return r.items }
func (r *auditLogPageResolver) Total() int32               { return int32(r.total) }

// --- helpers shared by queries and relational fields ---

func (r *Resolver) entityByID(ctx context.Context, op, id string) (*entityResolver, error) {
	entity, err := optional(r.svc.Entities.Get(ctx, id))
	if err != nil {
		return nil, r.fail(op, err)
	}
	if entity == nil {
		return nil, nil
	}
	return &entityResolver{root: r, e: entity}, nil
}

func (r *Resolver) contractByID(ctx context.Context, op, id string) (*contractResolver, error) {
	contract, err := optional(r.svc.Contracts.Get(ctx, id))
	if err != nil {
		return nil, r.fail(op, err)
	}
	if contract == nil {
		return nil, nil
	}
	return &contractResolver{root: r, c: contract}, nil
}

func (r *Resolver) contactList(contacts []model.Contact) []*contactResolver {
	out := make([]*contactResolver, 0, len(contacts))
	for i := range contacts {
		out = append(out, &contactResolver{root: r, c: &contacts[i]})
	}
	return out
}
