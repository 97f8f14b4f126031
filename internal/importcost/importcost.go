// Package importcost computes the landed cost in BRL of an instrument
// bought abroad, under the "Remessa Conforme" import rules in force for
// 2024/2025 shipments.
package importcost

import "math"

const (
	// usdRate is the conversion rate applied to every USD amount.
	usdRate = 6.00
	// icmsRate is the national average ICMS for e-commerce.
	icmsRate = 0.17
	// certifiedThresholdUSD separates the 20% and 60% federal brackets
	// for certified stores.
	certifiedThresholdUSD = 50.00
	// certifiedRebateUSD is the flat federal-duty rebate for certified
	// purchases above the threshold.
	certifiedRebateUSD = 20.00
)

// Result itemizes a landed-cost calculation. All monetary fields are BRL
// except where named otherwise.
type Result struct {
	ProductBRL       float64 `json:"product_brl"`
	FreightBRL       float64 `json:"freight_brl"`
	TaxesBRL         float64 `json:"taxes_brl"`
	TotalBRL         float64 `json:"total_brl"`
	EffectiveTaxRate float64 `json:"effective_tax_rate"` // percentage over product+freight
	Regime           string  `json:"regime"`
	FederalRate      float64 `json:"federal_rate"` // fraction, 0.20 or 0.60
}

// Calculate returns the door price of a product bought abroad. Certified
// stores ("Remessa Conforme" partners) pay 20% federal duty up to $50 and
// 60% with a $20 rebate above; everything else pays a flat 60%. ICMS is
// charged "por dentro": the rate applies to its own gross-up base.
func Calculate(priceUSD, freightUSD float64, certifiedStore bool) Result {
	customsValueUSD := priceUSD + freightUSD

	var federalRate, rebateUSD float64
	regime := "Importação Comum"
	if certifiedStore {
		regime = "Remessa Conforme"
		if customsValueUSD <= certifiedThresholdUSD {
			federalRate = 0.20
		} else {
			federalRate = 0.60
			rebateUSD = certifiedRebateUSD
		}
	} else {
		federalRate = 0.60
	}

	federalTaxUSD := customsValueUSD*federalRate - rebateUSD
	if federalTaxUSD < 0 {
		federalTaxUSD = 0
	}

	// ICMS base is the taxed value grossed up by the ICMS rate itself.
	icmsBaseUSD := (customsValueUSD + federalTaxUSD) / (1 - icmsRate)
	icmsUSD := icmsBaseUSD * icmsRate

	productBRL := priceUSD * usdRate
	freightBRL := freightUSD * usdRate
	taxesBRL := (federalTaxUSD + icmsUSD) * usdRate

	var effective float64
	if productBRL+freightBRL > 0 {
		effective = taxesBRL / (productBRL + freightBRL) * 100
	}

	return Result{
		ProductBRL:       round2(productBRL),
		FreightBRL:       round2(freightBRL),
		TaxesBRL:         round2(taxesBRL),
		TotalBRL:         round2(productBRL + freightBRL + taxesBRL),
		EffectiveTaxRate: math.Round(effective*10) / 10,
		Regime:           regime,
		FederalRate:      federalRate,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
