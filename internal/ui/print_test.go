package ui

import "testing"

func TestIconConstants(t *testing.T) {
	// Verify icons are non-empty strings
	icons := []string{
		IconHobbit, IconDone, IconFire, IconChart, IconCal, IconSeed,
		IconStar, IconWarn, IconError, IconOk, IconArrow, IconDot,
		IconPartial, IconEmpty, IconFull,
	}
	for i, icon := range icons {
		if icon == "" {
			t.Errorf("Icon at index %d is empty", i)
		}
	}
}

func TestHeatLevelsCoverAllBuckets(t *testing.T) {
	// One style per heatmap bucket, no-data through full.
	if len(HeatLevels) != 6 {
		t.Fatalf("HeatLevels has %d styles, want 6", len(HeatLevels))
	}
}
