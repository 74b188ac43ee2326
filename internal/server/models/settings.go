package models

// Settings is the flat per-account configuration record. It spans two
// logical groups that are persisted as separate JSON columns: the company
// profile (name, address, phone, email, logo) and the pricing parameters
// (yields, costs, labor rate, tax rate). The schema is closed: fields
// outside these two groups are dropped on save.
type Settings struct {
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyPhone   string `json:"companyPhone"`
	CompanyEmail   string `json:"companyEmail"`
	LogoURL        string `json:"logoUrl"`

	OpenCellYield   float64 `json:"openCellYield"`
	ClosedCellYield float64 `json:"closedCellYield"`
	OpenCellCost    float64 `json:"openCellCost"`
	ClosedCellCost  float64 `json:"closedCellCost"`
	LaborRate       float64 `json:"laborRate"`
	TaxRate         float64 `json:"taxRate"`
}

// DefaultSettings returns the built-in configuration used until an account
// saves its own. Yields are board feet per set.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:     "My Spray Foam Co.",
		CompanyAddress:  "",
		CompanyPhone:    "",
		CompanyEmail:    "",
		LogoURL:         "",
		OpenCellYield:   16000,
		ClosedCellYield: 4000,
		OpenCellCost:    1850,
		ClosedCellCost:  2400,
		LaborRate:       85,
		TaxRate:         7,
	}
}
