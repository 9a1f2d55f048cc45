package report

import (
	"strings"
	"testing"
)

func TestReconcileTotals_PairAfterLabel(t *testing.T) {
	cfg := configByKey(t, "plant_stress")
	v := makeViews("Total area PLANT STRESS: 22.04 ha = 69% field")

	ha, pct := ReconcileTotals(v, cfg, nil)
	if ha == nil || *ha != 22.04 {
		t.Fatalf("hectares = %v, want 22.04", ha)
	}
	if pct == nil || *pct != 69 {
		t.Fatalf("percent = %v, want 69", pct)
	}
}

func TestReconcileTotals_PercentOnlyAfterLabel(t *testing.T) {
	cfg := configByKey(t, "weed_stress")
	v := makeViews("Total area WEED STRESS: 55% field")

	ha, pct := ReconcileTotals(v, cfg, nil)
	if ha != nil {
		t.Fatalf("hectares = %v, want unset", *ha)
	}
	if pct == nil || *pct != 55 {
		t.Fatalf("percent = %v, want 55", pct)
	}
}

func TestReconcileTotals_PercentBeforeLabel(t *testing.T) {
	cfg := configByKey(t, "flowering")
	v := makeViews("42% field", "Total area FLOWERING")

	ha, pct := ReconcileTotals(v, cfg, nil)
	if ha != nil {
		t.Fatalf("hectares = %v, want unset", *ha)
	}
	if pct == nil || *pct != 42 {
		t.Fatalf("percent = %v, want 42", pct)
	}
}

func TestReconcileTotals_WholeTextFallback(t *testing.T) {
	cfg := configByKey(t, "weed_stress")
	v := makeViews("affected zone of 8.20 ha = 31% field measured")

	ha, pct := ReconcileTotals(v, cfg, nil)
	if ha == nil || *ha != 8.2 {
		t.Fatalf("hectares = %v, want 8.2", ha)
	}
	if pct == nil || *pct != 31 {
		t.Fatalf("percent = %v, want 31", pct)
	}
}

func TestReconcileTotals_PercentOnlyStopsCascade(t *testing.T) {
	cfg := configByKey(t, "weed_stress")
	// The pair sits beyond the 200-character label window, so the
	// percent-only match must win and stop the whole-text fallback.
	filler := strings.Repeat("padding ", 30)
	v := makeViews("Total area WEED STRESS: 55% field", filler, "9.99 ha = 55% field")

	ha, pct := ReconcileTotals(v, cfg, nil)
	if ha != nil {
		t.Fatalf("hectares = %v, want unset", *ha)
	}
	if pct == nil || *pct != 55 {
		t.Fatalf("percent = %v, want 55", pct)
	}
}

func TestReconcileTotals_DerivedFromLevels(t *testing.T) {
	cfg := configByKey(t, "plant_stress")
	v := makeViews("no totals stated here")
	levels := []LevelEntry{
		{Level: "Fine", Severity: SeverityHealthy, Percentage: 31, AreaHectares: 14.05},
		{Level: "Potential Plant Stress", Severity: SeverityModerate, Percentage: 10, AreaHectares: 2.00},
		{Level: "Plant Stress", Severity: SeverityHigh, Percentage: 59, AreaHectares: 22.04},
	}

	ha, pct := ReconcileTotals(v, cfg, levels)
	if ha == nil || *ha != 24.04 {
		t.Fatalf("hectares = %v, want 24.04", ha)
	}
	if pct != nil {
		t.Fatalf("percent = %v, want unset (derivation never sets percent)", *pct)
	}
}

func TestReconcileTotals_DerivationSkipsInsignificant(t *testing.T) {
	cfg := configByKey(t, "weed_stress")
	v := makeViews("no totals stated here")
	levels := []LevelEntry{
		{Level: "Fine", Severity: SeverityHealthy, Percentage: 80, AreaHectares: 16.0},
		{Level: "Low Weed Pressure", Severity: SeverityLow, Percentage: 15, AreaHectares: 3.0},
		{Level: "High Weed Pressure", Severity: SeverityHigh, Percentage: 5, AreaHectares: 2.5},
	}

	ha, pct := ReconcileTotals(v, cfg, levels)
	if ha == nil || *ha != 2.5 {
		t.Fatalf("hectares = %v, want 2.5", ha)
	}
	if pct != nil {
		t.Fatalf("percent = %v, want unset", *pct)
	}
}

func TestReconcileTotals_DerivationFillsOnlyHectares(t *testing.T) {
	cfg := configByKey(t, "weed_stress")
	v := makeViews("Total area WEED STRESS: 55% field")
	levels := []LevelEntry{
		{Level: "High Weed Pressure", Severity: SeverityHigh, Percentage: 55, AreaHectares: 9.9},
	}

	ha, pct := ReconcileTotals(v, cfg, levels)
	if ha == nil || *ha != 9.9 {
		t.Fatalf("hectares = %v, want 9.9 from derivation", ha)
	}
	if pct == nil || *pct != 55 {
		t.Fatalf("percent = %v, want 55 from text", pct)
	}
}

func TestReconcileTotals_ZeroSumLeavesUnset(t *testing.T) {
	cfg := configByKey(t, "flowering")
	v := makeViews("nothing useful")
	levels := []LevelEntry{
		{Level: "No Flowering", Severity: SeverityHealthy, Percentage: 100, AreaHectares: 20.0},
		{Level: "Flowering", Severity: SeverityModerate, Percentage: 0, AreaHectares: 0},
	}

	ha, pct := ReconcileTotals(v, cfg, levels)
	if ha != nil {
		t.Fatalf("hectares = %v, want unset for zero sum", *ha)
	}
	if pct != nil {
		t.Fatalf("percent = %v, want unset", *pct)
	}
}

func TestReconcileTotals_UndetectedType(t *testing.T) {
	v := makeViews("Total area PLANT STRESS: 22.04 ha = 69% field")

	ha, pct := ReconcileTotals(v, nil, nil)
	if ha != nil || pct != nil {
		t.Fatalf("got %v/%v, want unset totals without a detected type", ha, pct)
	}
}

func TestReconcileTotals_RejectsShareOver100(t *testing.T) {
	cfg := configByKey(t, "plant_stress")
	v := makeViews("Total area PLANT STRESS: 22.04 ha = 150% field")

	ha, pct := ReconcileTotals(v, cfg, nil)
	if ha != nil {
		t.Fatalf("hectares = %v, want unset for a share over 100%%", *ha)
	}
	if pct != nil {
		t.Fatalf("percent = %v, want unset for a share over 100%%", *pct)
	}
}

func TestReconcileTotals_RejectedShareStillDerives(t *testing.T) {
	cfg := configByKey(t, "plant_stress")
	v := makeViews("Total area PLANT STRESS: 22.04 ha = 150% field")
	levels := []LevelEntry{
		{Level: "Plant Stress", Severity: SeverityHigh, Percentage: 69, AreaHectares: 22.04},
	}

	ha, pct := ReconcileTotals(v, cfg, levels)
	if ha == nil || *ha != 22.04 {
		t.Fatalf("hectares = %v, want 22.04 derived from levels", ha)
	}
	if pct != nil {
		t.Fatalf("percent = %v, want unset", *pct)
	}
}

func TestReconcileTotals_FullFieldShareAccepted(t *testing.T) {
	cfg := configByKey(t, "weed_stress")
	v := makeViews("Total area WEED STRESS: 45.30 ha = 100% field")

	ha, pct := ReconcileTotals(v, cfg, nil)
	if ha == nil || *ha != 45.3 {
		t.Fatalf("hectares = %v, want 45.3", ha)
	}
	if pct == nil || *pct != 100 {
		t.Fatalf("percent = %v, want 100", pct)
	}
}
