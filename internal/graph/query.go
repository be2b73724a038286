package graph

import (
	"context"

	"rentals/internal/apperr"
	"rentals/internal/repository"
	"rentals/internal/service"
	"rentals/pkg/pagination"

	graphql "github.com/graph-gophers/graphql-go"
)

type pageArgs struct {
	Page  *int32
	Limit *int32
}

func (a pageArgs) params() pagination.Params {
	return pagination.FromArgs(a.Page, a.Limit)
}

type auditArgs struct {
	Page     *int32
	Limit    *int32
	Action   *string
	EntityID *string
}

type idArgs struct {
	ID graphql.ID
}

type loginArgs struct {
	Input struct {
		Email    string
		Password string
	}
}

// Login is exposed on both Query and Mutation.
func (r *Resolver) Login(ctx context.Context, args loginArgs) (*authPayloadResolver, error) {
	payload, err := r.svc.Auth.Login(ctx, service.LoginInput{
		Email:    args.Input.Email,
		Password: args.Input.Password,
	})
	if err != nil {
		return nil, r.fail("login", err)
	}
	return &authPayloadResolver{p: payload}, nil
}

func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	user, err := r.svc.Auth.Me(ctx, caller.UserID)
	if err != nil {
		// a valid token for a deleted account is just an unknown caller
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, r.fail("me", err)
	}
	return &userResolver{u: user}, nil
}

func (r *Resolver) Entities(ctx context.Context, args pageArgs) ([]*entityResolver, error) {
	entities, err := r.svc.Entities.List(ctx, args.params())
	if err != nil {
		return nil, r.fail("entities", err)
	}
	out := make([]*entityResolver, 0, len(entities))
	for i := range entities {
		out = append(out, &entityResolver{root: r, e: &entities[i]})
	}
	return out, nil
}

func (r *Resolver) Entity(ctx context.Context, args idArgs) (*entityResolver, error) {
	return r.entityByID(ctx, "entity", string(args.ID))
}

func (r *Resolver) Contacts(ctx context.Context, args pageArgs) ([]*contactResolver, error) {
	contacts, err := r.svc.Contacts.List(ctx, args.params())
	if err != nil {
		return nil, r.fail("contacts", err)
	}
	return r.contactList(contacts), nil
}

func (r *Resolver) Contact(ctx context.Context, args idArgs) (*contactResolver, error) {
	contact, err := optional(r.svc.Contacts.Get(ctx, string(args.ID)))
	if err != nil {
		return nil, r.fail("contact", err)
	}
	if contact == nil {
		return nil, nil
	}
	return &contactResolver{root: r, c: contact}, nil
}

func (r *Resolver) Assets(ctx context.Context, args pageArgs) ([]*assetResolver, error) {
	assets, err := r.svc.Assets.List(ctx, args.params())
	if err != nil {
		return nil, r.fail("assets", err)
	}
	out := make([]*assetResolver, 0, len(assets))
	for i := range assets {
		out = append(out, &assetResolver{a: &assets[i]})
	}
	return out, nil
}

func (r *Resolver) Asset(ctx context.Context, args idArgs) (*assetResolver, error) {
	asset, err := optional(r.svc.Assets.Get(ctx, string(args.ID)))
	if err != nil {
		return nil, r.fail("asset", err)
	}
	if asset == nil {
		return nil, nil
	}
	return &assetResolver{a: asset}, nil
}

func (r *Resolver) Contracts(ctx context.Context, args pageArgs) ([]*contractResolver, error) {
	contracts, err := r.svc.Contracts.List(ctx, args.params())
	if err != nil {
		return nil, r.fail("contracts", err)
	}
	out := make([]*contractResolver, 0, len(contracts))
	for i := range contracts {
		out = append(out, &contractResolver{root: r, c: &contracts[i]})
	}
	return out, nil
}

func (r *Resolver) Contract(ctx context.Context, args idArgs) (*contractResolver, error) {
	return r.contractByID(ctx, "contract", string(args.ID))
}

func (r *Resolver) Invoices(ctx context.Context, args pageArgs) ([]*invoiceResolver, error) {
	invoices, err := r.svc.Invoices.List(ctx, args.params())
	if err != nil {
		return nil, r.fail("invoices", err)
	}
	out := make([]*invoiceResolver, 0, len(invoices))
	for i := range invoices {
		out = append(out, &invoiceResolver{root: r, i: &invoices[i]})
	}
	return out, nil
}

func (r *Resolver) Invoice(ctx context.Context, args idArgs) (*invoiceResolver, error) {
	invoice, err := optional(r.svc.Invoices.Get(ctx, string(args.ID)))
	if err != nil {
		return nil, r.fail("invoice", err)
	}
	if invoice == nil {
		return nil, nil
	}
	return &invoiceResolver{root: r, i: invoice}, nil
}

func (r *Resolver) DashboardStats(ctx context.Context) (*dashboardStatsResolver, error) {
	stats, err := r.svc.Statistics.GetDashboardStats(ctx)
	if err != nil {
		return nil, r.fail("dashboardStats", err)
	}
	return &dashboardStatsResolver{s: stats}, nil
}

// AuditLogs exposes who changed what; it is limited to signed-in users.
func (r *Resolver) AuditLogs(ctx context.Context, args auditArgs) (*auditLogPageResolver, error) {
	if _, err := requireCaller(ctx); err != nil {
		return nil, err
	}
	var filter repository.AuditFilter
	if args.Action != nil {
		filter.Action = *args.Action
	}
	if args.EntityID != nil {
		filter.EntityID = *args.EntityID
	}
	logs, total, err := r.svc.Audit.List(ctx, filter, pagination.FromArgs(args.Page, args.Limit))
	if err != nil {
		return nil, r.fail("auditLogs", err)
	}
	items := make([]*auditLogResolver, 0, len(logs))
	for i := range logs {
		items = append(items, &auditLogResolver{l: &logs[i]})
	}
	return &auditLogPageResolver{items: items, total: total}, nil
}
