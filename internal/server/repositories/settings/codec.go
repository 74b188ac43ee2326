package settings

import (
	"encoding/json"
	"fmt"

	"github.com/sprayworks/foamdesk/internal/server/models"
)

// companyDetails is the fixed company-profile field set. Anything outside
// it or pricingConfig is dropped on save: the schema is closed.
type companyDetails struct {
	CompanyName    string `json:"companyName"`
	CompanyAddress string `json:"companyAddress"`
	CompanyPhone   string `json:"companyPhone"`
	CompanyEmail   string `json:"companyEmail"`
	LogoURL        string `json:"logoUrl"`
}

// pricingConfig is the fixed pricing-parameter field set.
type pricingConfig struct {
	OpenCellYield   float64 `json:"openCellYield"`
	ClosedCellYield float64 `json:"closedCellYield"`
	OpenCellCost    float64 `json:"openCellCost"`
	ClosedCellCost  float64 `json:"closedCellCost"`
	LaborRate       float64 `json:"laborRate"`
	TaxRate         float64 `json:"taxRate"`
}

// Split deterministically partitions a flat settings record into the two
// persisted JSON groups.
func Split(s models.Settings) (company, pricing json.RawMessage, err error) {
	company, err = json.Marshal(companyDetails{
		CompanyName:    s.CompanyName,
		CompanyAddress: s.CompanyAddress,
		CompanyPhone:   s.CompanyPhone,
		CompanyEmail:   s.CompanyEmail,
		LogoURL:        s.LogoURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal company details: %w", err)
	}
	pricing, err = json.Marshal(pricingConfig{
		OpenCellYield:   s.OpenCellYield,
		ClosedCellYield: s.ClosedCellYield,
		OpenCellCost:    s.OpenCellCost,
		ClosedCellCost:  s.ClosedCellCost,
		LaborRate:       s.LaborRate,
		TaxRate:         s.TaxRate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal pricing config: %w", err)
	}
	return company, pricing, nil
}

// Merge overlays the persisted groups onto base, shallow and field by field.
// Keys present in the pricing group win over the profile group, and both win
// over base. Unknown keys in either group are ignored.
func Merge(base models.Settings, company, pricing json.RawMessage) (models.Settings, error) {
	merged := base
	if len(company) > 0 {
		if err := json.Unmarshal(company, &merged); err != nil {
			return base, fmt.Errorf("unmarshal company details: %w", err)
		}
	}
	if len(pricing) > 0 {
		if err := json.Unmarshal(pricing, &merged); err != nil {
			return base, fmt.Errorf("unmarshal pricing config: %w", err)
		}
	}
	return merged, nil
}
