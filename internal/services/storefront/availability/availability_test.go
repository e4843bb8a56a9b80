package availability

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
)

func managed(id string, color string, size string, qty int) backend.Variant {
	return backend.Variant{
		ID:                id,
		Options:           map[string]string{"Color": color, "Size": size},
		InventoryQuantity: qty,
		ManageInventory:   true,
	}
}

func TestClassifyThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		qty  int
		want Level
	}{
		{qty: -2, want: LevelUnavailable},
		{qty: 0, want: LevelUnavailable},
		{qty: 1, want: LevelLow},
		{qty: 5, want: LevelLow},
		{qty: 6, want: LevelMedium},
		{qty: 20, want: LevelMedium},
		{qty: 21, want: LevelHigh},
	}
	for _, tc := range tests {
		if got := Classify(managed("v", "Rosso", "S", tc.qty), DefaultThresholds); got != tc.want {
			t.Fatalf("Classify(qty=%d) = %s, want %s", tc.qty, got, tc.want)
		}
	}
}

func TestClassifyUnmanagedOrBackorderIsHigh(t *testing.T) {
	t.Parallel()

	unmanaged := backend.Variant{InventoryQuantity: 0}
	if got := Classify(unmanaged, DefaultThresholds); got != LevelHigh {
		t.Fatalf("unmanaged = %s, want high", got)
	}
	backorder := managed("v", "Rosso", "S", 0)
	backorder.AllowBackorder = true
	if got := Classify(backorder, DefaultThresholds); got != LevelHigh {
		t.Fatalf("backorder = %s, want high", got)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	product := backend.Product{
		Options: []backend.ProductOption{
			{Title: "Color", Values: []string{"Rosso", "Blu"}},
			{Title: "Size", Values: []string{"S", "M", "L"}},
		},
		Variants: []backend.Variant{
			managed("v1", "Rosso", "S", 0),
			managed("v2", "Rosso", "M", 3),
			managed("v3", "Blu", "S", 12),
			managed("v4", "Blu", "L", 40),
			managed("v5", "Verde", "M", 2),
		},
	}

	matrix, ok := Build(product, DefaultThresholds)
	if !ok {
		t.Fatal("expected matrix")
	}
	if diff := cmp.Diff([]string{"Rosso", "Blu", "Verde"}, matrix.Colors); diff != "" {
		t.Fatalf("colors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"S", "M", "L"}, matrix.Sizes); diff != "" {
		t.Fatalf("sizes mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		color string
		size  string
		want  Cell
	}{
		{color: "Rosso", size: "S", want: Cell{VariantID: "v1", Quantity: 0, Level: LevelUnavailable, Disabled: true}},
		{color: "Rosso", size: "M", want: Cell{VariantID: "v2", Quantity: 3, Level: LevelLow}},
		{color: "Rosso", size: "L", want: Cell{Level: LevelMissing, Disabled: true}},
		{color: "Blu", size: "S", want: Cell{VariantID: "v3", Quantity: 12, Level: LevelMedium}},
		{color: "Blu", size: "L", want: Cell{VariantID: "v4", Quantity: 40, Level: LevelHigh}},
		{color: "Verde", size: "M", want: Cell{VariantID: "v5", Quantity: 2, Level: LevelLow}},
		{color: "Verde", size: "S", want: Cell{Level: LevelMissing, Disabled: true}},
	}
	for _, tc := range tests {
		got, ok := matrix.Cell(tc.color, tc.size)
		if !ok {
			t.Fatalf("Cell(%s, %s) missing", tc.color, tc.size)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Cell(%s, %s) mismatch (-want +got):\n%s", tc.color, tc.size, diff)
		}
	}
}

func TestBuildRecognizesItalianOptionTitles(t *testing.T) {
	t.Parallel()

	product := backend.Product{
		Options: []backend.ProductOption{{Title: "Colore"}, {Title: "Taglia"}},
		Variants: []backend.Variant{{
			ID:      "v1",
			Options: map[string]string{"colore": "Nero", "taglia": "42"},
		}},
	}
	matrix, ok := Build(product, DefaultThresholds)
	if !ok {
		t.Fatal("expected matrix")
	}
	cell, ok := matrix.Cell("Nero", "42")
	if !ok || cell.Level != LevelHigh {
		t.Fatalf("Cell() = %+v, %v", cell, ok)
	}
}

func TestBuildWithoutGridOptions(t *testing.T) {
	t.Parallel()

	product := backend.Product{Options: []backend.ProductOption{{Title: "Material", Values: []string{"Lana"}}}}
	if _, ok := Build(product, DefaultThresholds); ok {
		t.Fatal("expected no matrix without colour and size")
	}
	if _, ok := (Matrix{}).Cell("Rosso", "S"); ok {
		t.Fatal("empty matrix should have no cells")
	}
}
