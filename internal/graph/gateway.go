package graph

import (
	"context"

	"rentals/internal/service"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/shopspring/decimal"
)

// Every mutation below except Register and Login starts with requireCaller,
// so an anonymous request is rejected before any service runs.

func optionalID(id *graphql.ID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

func optionalInt(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func optionalMoney(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}

// --- Auth ---

type registerArgs struct {
	Input struct {
		Email    string
		Password string
		Name     string
		Role     *string
	}
}

func (r *Resolver) Register(ctx context.Context, args registerArgs) (*authPayloadResolver, error) {
	payload, err := r.svc.Auth.Register(ctx, service.RegisterInput{
		Email:    args.Input.Email,
		Password: args.Input.Password,
		Name:     args.Input.Name,
		Role:     args.Input.Role,
	})
	if err != nil {
		return nil, r.fail("register", err)
	}
	return &authPayloadResolver{p: payload}, nil
}

// --- Entity ---

type entityInput struct {
	Name           string
	Kind           string
	DocumentType   string
	DocumentNumber string
	Email          string
	Phone          string
	Address        string
	City           string
}

type entityUpdateInput struct {
	Name           *string
	Kind           *string
	DocumentType   *string
	DocumentNumber *string
	Email          *string
	Phone          *string
	Address        *string
	City           *string
}

func (r *Resolver) CreateEntity(ctx context.Context, args struct{ Input entityInput }) (*entityResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	entity, err := r.svc.Entities.Create(ctx, caller.UserID, service.CreateEntityInput(in))
	if err != nil {
		return nil, r.fail("createEntity", err)
	}
	return &entityResolver{root: r, e: entity}, nil
}

func (r *Resolver) UpdateEntity(ctx context.Context, args struct {
	ID    graphql.ID
	Input entityUpdateInput
}) (*entityResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	entity, err := r.svc.Entities.Update(ctx, caller.UserID, string(args.ID), service.UpdateEntityInput(args.Input))
	if err != nil {
		return nil, r.fail("updateEntity", err)
	}
	return &entityResolver{root: r, e: entity}, nil
}

func (r *Resolver) DeleteEntity(ctx context.Context, args idArgs) (bool, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return false, err
	}
	deleted, err := r.svc.Entities.Delete(ctx, caller.UserID, string(args.ID))
	if err != nil {
		return false, r.fail("deleteEntity", err)
	}
	return deleted, nil
}

// --- Contact ---

type contactInput struct {
	EntityID graphql.ID
	Name     string
	Email    string
	Phone    string
	Title    string
}

type contactUpdateInput struct {
	EntityID *graphql.ID
	Name     *string
	Email    *string
	Phone    *string
	Title    *string
}

func (r *Resolver) CreateContact(ctx context.Context, args struct{ Input contactInput }) (*contactResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	contact, err := r.svc.Contacts.Create(ctx, caller.UserID, service.CreateContactInput{
		EntityID: string(in.EntityID),
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Title:    in.Title,
	})
	if err != nil {
		return nil, r.fail("createContact", err)
	}
	return &contactResolver{root: r, c: contact}, nil
}

func (r *Resolver) UpdateContact(ctx context.Context, args struct {
	ID    graphql.ID
	Input contactUpdateInput
}) (*contactResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	contact, err := r.svc.Contacts.Update(ctx, caller.UserID, string(args.ID), service.UpdateContactInput{
		EntityID: optionalID(in.EntityID),
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Title:    in.Title,
	})
	if err != nil {
		return nil, r.fail("updateContact", err)
	}
	return &contactResolver{root: r, c: contact}, nil
}

func (r *Resolver) DeleteContact(ctx context.Context, args idArgs) (bool, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return false, err
	}
	deleted, err := r.svc.Contacts.Delete(ctx, caller.UserID, string(args.ID))
	if err != nil {
		return false, r.fail("deleteContact", err)
	}
	return deleted, nil
}

// --- Asset ---

type assetInput struct {
	Code        string
	Category    string
	Name        string
	Description string
	Brand       string
	Model       string
	Year        int32
	DailyRate   float64
	State       *string
}

type assetUpdateInput struct {
	Code        *string
	Category    *string
	Name        *string
	Description *string
	Brand       *string
	Model       *string
	Year        *int32
	DailyRate   *float64
	State       *string
}

func (r *Resolver) CreateAsset(ctx context.Context, args struct{ Input assetInput }) (*assetResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	asset, err := r.svc.Assets.Create(ctx, caller.UserID, service.CreateAssetInput{
		Code:        in.Code,
		Category:    in.Category,
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		Model:       in.Model,
		Year:        int(in.Year),
		DailyRate:   decimal.NewFromFloat(in.DailyRate),
		State:       in.State,
	})
	if err != nil {
		return nil, r.fail("createAsset", err)
	}
	return &assetResolver{a: asset}, nil
}

func (r *Resolver) UpdateAsset(ctx context.Context, args struct {
	ID    graphql.ID
	Input assetUpdateInput
}) (*assetResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	asset, err := r.svc.Assets.Update(ctx, caller.UserID, string(args.ID), service.UpdateAssetInput{
		Code:        in.Code,
		Category:    in.Category,
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		Model:       in.Model,
		Year:        optionalInt(in.Year),
		DailyRate:   optionalMoney(in.DailyRate),
		State:       in.State,
	})
	if err != nil {
		return nil, r.fail("updateAsset", err)
	}
	return &assetResolver{a: asset}, nil
}

func (r *Resolver) DeleteAsset(ctx context.Context, args idArgs) (bool, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return false, err
	}
	deleted, err := r.svc.Assets.Delete(ctx, caller.UserID, string(args.ID))
	if err != nil {
		return false, r.fail("deleteAsset", err)
	}
	return deleted, nil
}

// --- Contract ---

type contractInput struct {
	Number     string
	EntityID   graphql.ID
	AssetID    graphql.ID
	StartDate  string
	EndDate    string
	TotalPrice float64
	State      *string
	Notes      *string
}

type contractUpdateInput struct {
	Number     *string
	EntityID   *graphql.ID
	AssetID    *graphql.ID
	StartDate  *string
	EndDate    *string
	TotalPrice *float64
	State      *string
	Notes      *string
}

func (r *Resolver) CreateContract(ctx context.Context, args struct{ Input contractInput }) (*contractResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	contract, err := r.svc.Contracts.Create(ctx, caller.UserID, service.CreateContractInput{
		Number:     in.Number,
		EntityID:   string(in.EntityID),
		AssetID:    string(in.AssetID),
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		TotalPrice: decimal.NewFromFloat(in.TotalPrice),
		State:      in.State,
		Notes:      in.Notes,
	})
	if err != nil {
		return nil, r.fail("createContract", err)
	}
	return &contractResolver{root: r, c: contract}, nil
}

func (r *Resolver) UpdateContract(ctx context.Context, args struct {
	ID    graphql.ID
	Input contractUpdateInput
}) (*contractResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	contract, err := r.svc.Contracts.Update(ctx, caller.UserID, string(args.ID), service.UpdateContractInput{
		Number:     in.Number,
		EntityID:   optionalID(in.EntityID),
		AssetID:    optionalID(in.AssetID),
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		TotalPrice: optionalMoney(in.TotalPrice),
		State:      in.State,
		Notes:      in.Notes,
	})
	if err != nil {
		return nil, r.fail("updateContract", err)
	}
	return &contractResolver{root: r, c: contract}, nil
}

func (r *Resolver) DeleteContract(ctx context.Context, args idArgs) (bool, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return false, err
	}
	deleted, err := r.svc.Contracts.Delete(ctx, caller.UserID, string(args.ID))
	if err != nil {
		return false, r.fail("deleteContract", err)
	}
	return deleted, nil
}

// --- Invoice ---

type invoiceInput struct {
	Number     string
	ContractID graphql.ID
	EntityID   graphql.ID
	IssueDate  string
	Subtotal   float64
	Tax        float64
	Total      float64
	State      *string
}

type invoiceUpdateInput struct {
	Number     *string
	ContractID *graphql.ID
	EntityID   *graphql.ID
	IssueDate  *string
	Subtotal   *float64
	Tax        *float64
	Total      *float64
	State      *string
}

func (r *Resolver) CreateInvoice(ctx context.Context, args struct{ Input invoiceInput }) (*invoiceResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	invoice, err := r.svc.Invoices.Create(ctx, caller.UserID, service.CreateInvoiceInput{
		Number:     in.Number,
		ContractID: string(in.ContractID),
		EntityID:   string(in.EntityID),
		IssueDate:  in.IssueDate,
		Subtotal:   decimal.NewFromFloat(in.Subtotal),
		Tax:        decimal.NewFromFloat(in.Tax),
		Total:      decimal.NewFromFloat(in.Total),
		State:      in.State,
	})
	if err != nil {
		return nil, r.fail("createInvoice", err)
	}
	return &invoiceResolver{root: r, i: invoice}, nil
}

func (r *Resolver) UpdateInvoice(ctx context.Context, args struct {
	ID    graphql.ID
	Input invoiceUpdateInput
}) (*invoiceResolver, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	in := args.Input
	invoice, err := r.svc.Invoices.Update(ctx, caller.UserID, string(args.ID), service.UpdateInvoiceInput{
		Number:     in.Number,
		ContractID: optionalID(in.ContractID),
		EntityID:   optionalID(in.EntityID),
		IssueDate:  in.IssueDate,
		Subtotal:   optionalMoney(in.Subtotal),
		Tax:        optionalMoney(in.Tax),
		Total:      optionalMoney(in.Total),
		State:      in.State,
	})
	if err != nil {
		return nil, r.fail("updateInvoice", err)
	}
	return &invoiceResolver{root: r, i: invoice}, nil
}

func (r *Resolver) DeleteInvoice(ctx context.Context, args idArgs) (bool, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return false, err
	}
	deleted, err := r.svc.Invoices.Delete(ctx, caller.UserID, string(args.ID))
	if err != nil {
		return false, r.fail("deleteInvoice", err)
	}
	return deleted, nil
}
