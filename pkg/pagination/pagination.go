package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters. A zero Limit means "no paging":
// list queries called without page/limit return every record.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Paged reports whether the params restrict the result window
func (p Params) Paged() bool {
	return p.Limit > 0
}

// FromArgs validates optional page/limit arguments. When both are nil the
// result is unpaged; otherwise missing or out-of-range values get defaults.
func FromArgs(page, limit *int32) Params {
	if page == nil && limit == nil {
		return Params{}
	}

	p := DefaultPage
	if page != nil && *page >= 1 {
		p = int(*page)
	}

	l := DefaultLimit
	if limit != nil {
		l = int(*limit)
		if l < MinLimit {
			l = DefaultLimit
		}
		if l > MaxLimit {
			l = MaxLimit
		}
	}

	return Params{
		Page:   p,
		Limit:  l,
		Offset: (p - 1) * l,
	}
}
