package importcost

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestCalculateCertifiedSmallOrder(t *testing.T) {
	// $40 pedal, free freight, certified store: 20% federal bracket.
	r := Calculate(40, 0, true)

	if r.Regime != "Remessa Conforme" {
		t.Errorf("regime = %q", r.Regime)
	}
	if r.FederalRate != 0.20 {
		t.Errorf("federal rate = %v, want 0.20", r.FederalRate)
	}
	if !approx(r.ProductBRL, 240) {
		t.Errorf("product = %v, want 240", r.ProductBRL)
	}

	// federal: 40*0.20 = 8 USD; ICMS: (40+8)/0.83*0.17 ≈ 9.8313 USD
	wantTaxes := (8 + (48/0.83)*0.17) * 6
	if !approx(r.TaxesBRL, math.Round(wantTaxes*100)/100) {
		t.Errorf("taxes = %v, want %v", r.TaxesBRL, wantTaxes)
	}
	if !approx(r.TotalBRL, r.ProductBRL+r.FreightBRL+r.TaxesBRL) {
		t.Errorf("total %v is not the sum of its parts", r.TotalBRL)
	}
}

func TestCalculateUncertifiedLargeOrder(t *testing.T) {
	// $500 piano + $100 freight from a regular seller: flat 60%, no rebate.
	r := Calculate(500, 100, false)

	if r.Regime != "Importação Comum" {
		t.Errorf("regime = %q", r.Regime)
	}
	if r.FederalRate != 0.60 {
		t.Errorf("federal rate = %v, want 0.60", r.FederalRate)
	}
	if !approx(r.ProductBRL, 3000) || !approx(r.FreightBRL, 600) {
		t.Errorf("product/freight = %v/%v, want 3000/600", r.ProductBRL, r.FreightBRL)
	}

	// federal: 600*0.60 = 360 USD; ICMS: (600+360)/0.83*0.17
	wantTaxes := (360 + (960/0.83)*0.17) * 6
	if math.Abs(r.TaxesBRL-wantTaxes) > 0.01 {
		t.Errorf("taxes = %v, want %.2f", r.TaxesBRL, wantTaxes)
	}
}

func TestCalculateCertifiedAboveThresholdGetsRebate(t *testing.T) {
	certified := Calculate(100, 0, true)
	regular := Calculate(100, 0, false)

	// Same 60% bracket, but the certified purchase is $20 * rate cheaper.
	diffUSD := (regular.TaxesBRL - certified.TaxesBRL) / 6
	wantDiff := 20 / (1 - 0.17) // rebate also shrinks the ICMS base
	if math.Abs(diffUSD-wantDiff) > 0.01 {
		t.Errorf("rebate effect = %.4f USD, want %.4f", diffUSD, wantDiff)
	}
}

func TestCalculateRebateNeverNegative(t *testing.T) {
	// Rebate larger than the computed duty must clamp to zero, not go
	// negative.
	r := Calculate(0, 0, true)
	if r.TaxesBRL < 0 || r.TotalBRL < 0 {
		t.Errorf("negative cost: %+v", r)
	}
}

func TestCalculateZeroOrder(t *testing.T) {
	r := Calculate(0, 0, false)
	if r.TotalBRL != 0 || r.EffectiveTaxRate != 0 {
		t.Errorf("zero order should cost zero: %+v", r)
	}
}
