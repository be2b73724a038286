package model

// StateCount is the number of records sharing one state value
type StateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

// DashboardStats feeds the overview cards and charts of the dashboard
type DashboardStats struct {
	Entities         int64        `json:"entities"`
	Contacts         int64        `json:"contacts"`
	Assets           int64        `json:"assets"`
	Contracts        int64        `json:"contracts"`
	Invoices         int64        `json:"invoices"`
	AssetsByState    []StateCount `json:"assets_by_state"`
	ContractsByState []StateCount `json:"contracts_by_state"`
	InvoicesByState  []StateCount `json:"invoices_by_state"`
}
