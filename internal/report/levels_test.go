package report

import "testing"

func configByKey(t *testing.T, key string) *AnalysisTypeConfig {
	t.Helper()
	for i := range analysisTypes {
		if analysisTypes[i].Key == key {
			return &analysisTypes[i]
		}
	}
	t.Fatalf("no config registered for %q", key)
	return nil
}

func TestExtractLevels_PlantStress(t *testing.T) {
	cfg := configByKey(t, "plant_stress")
	v := makeViews(
		"Fine 31% 14.05",
		"Potential Plant Stress 10% 2.00",
		"Plant Stress 69% 22.04",
	)

	entries := ExtractLevels(v, cfg)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}

	want := []LevelEntry{
		{Level: "Fine", Severity: SeverityHealthy, Percentage: 31, AreaHectares: 14.05},
		{Level: "Potential Plant Stress", Severity: SeverityModerate, Percentage: 10, AreaHectares: 2},
		{Level: "Plant Stress", Severity: SeverityHigh, Percentage: 69, AreaHectares: 22.04},
	}
	for i, entry := range entries {
		if entry != want[i] {
			t.Errorf("entry[%d] = %+v, want %+v", i, entry, want[i])
		}
	}
}

func TestExtractLevels_ExclusionGuard(t *testing.T) {
	cfg := configByKey(t, "plant_stress")
	v := makeViews("Potential Plant Stress 10% 2.0")

	entries := ExtractLevels(v, cfg)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(entries), entries)
	}
	if entries[0].Level != "Potential Plant Stress" || entries[0].Severity != SeverityModerate {
		t.Errorf("entry = %+v, want moderate Potential Plant Stress", entries[0])
	}
}

func TestExtractLevels_FloweringGuard(t *testing.T) {
	cfg := configByKey(t, "flowering")
	v := makeViews(
		"No Flowering 12% 2.40",
		"Full Flowering 55% 11.00",
		"Flowering 33% 6.60",
	)

	entries := ExtractLevels(v, cfg)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}
	for _, entry := range entries {
		switch entry.Level {
		case "No Flowering":
			if entry.Severity != SeverityHealthy {
				t.Errorf("No Flowering severity = %q", entry.Severity)
			}
		case "Full Flowering":
			if entry.Severity != SeverityHigh {
				t.Errorf("Full Flowering severity = %q", entry.Severity)
			}
		case "Flowering":
			if entry.Severity != SeverityModerate || entry.Percentage != 33 {
				t.Errorf("Flowering entry = %+v", entry)
			}
		default:
			t.Errorf("unexpected level %q", entry.Level)
		}
	}
}

func TestExtractLevels_Dedup(t *testing.T) {
	cfg := configByKey(t, "plant_stress")
	v := makeViews("Fine 12.0% 3.0 Fine 12.0% 3.0")

	entries := ExtractLevels(v, cfg)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(entries), entries)
	}
}

func TestExtractLevels_DistinctRowsSameLevel(t *testing.T) {
	cfg := configByKey(t, "plant_stress")
	v := makeViews("Fine 12% 3.0 Fine 14% 3.5")

	entries := ExtractLevels(v, cfg)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
}

func TestExtractLevels_ZeroRowKept(t *testing.T) {
	cfg := configByKey(t, "flowering")
	v := makeViews("No Flowering 0% 0")

	entries := ExtractLevels(v, cfg)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(entries), entries)
	}
	if entries[0].Percentage != 0 || entries[0].AreaHectares != 0 {
		t.Errorf("zero row = %+v, want 0/0 values", entries[0])
	}
}

func TestExtractLevels_RuleOrderNotTextOrder(t *testing.T) {
	cfg := configByKey(t, "weed_stress")
	v := makeViews("High Weed Pressure 40% 8.00 Fine 50% 10.00")

	entries := ExtractLevels(v, cfg)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Level != "Fine" || entries[1].Level != "High Weed Pressure" {
		t.Errorf("order = [%s, %s], want rule order [Fine, High Weed Pressure]",
			entries[0].Level, entries[1].Level)
	}
}

func TestExtractLevels_NilConfig(t *testing.T) {
	entries := ExtractLevels(makeViews("Fine 31% 14.05"), nil)
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
	if entries == nil {
		t.Fatal("entries should be empty, not nil")
	}
}

func TestExtractLevels_RejectsShareOver100(t *testing.T) {
	cfg := configByKey(t, "plant_stress")
	v := makeViews("Fine 31% 14.05", "Plant Stress 150% 22.04")

	entries := ExtractLevels(v, cfg)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(entries), entries)
	}
	if entries[0].Level != "Fine" {
		t.Errorf("entry = %+v, want only the Fine row", entries[0])
	}
}
