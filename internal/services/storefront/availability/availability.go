// Package availability builds the colour × size stock grid shown on product pages.
package availability

import (
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
)

// Level classifies a grid cell.
type Level string

const (
	LevelHigh        Level = "high"
	LevelMedium      Level = "medium"
	LevelLow         Level = "low"
	LevelUnavailable Level = "unavailable"
	LevelMissing     Level = "missing"
)

// Thresholds bound the low and medium stock bands (inclusive upper bounds).
type Thresholds struct {
	Low    int
	Medium int
}

// DefaultThresholds: 1..5 low, 6..20 medium, above 20 high.
var DefaultThresholds = Thresholds{Low: 5, Medium: 20}

var (
	colorTitles = []string{"color", "colour", "colore"}
	sizeTitles  = []string{"size", "taglia"}
)

// Cell is one colour/size combination.
type Cell struct {
	VariantID string
	Quantity  int
	Level     Level
	Disabled  bool
}

// Matrix is the availability grid; Cells[i][j] is Colors[i] × Sizes[j].
type Matrix struct {
	Colors []string
	Sizes  []string
	Cells  [][]Cell
}

// Classify returns the level for a variant.
func Classify(variant backend.Variant, th Thresholds) Level {
	if !variant.ManageInventory || variant.AllowBackorder {
		return LevelHigh
	}
	switch qty := variant.InventoryQuantity; {
	case qty <= 0:
		return LevelUnavailable
	case qty <= th.Low:
		return LevelLow
	case qty <= th.Medium:
		return LevelMedium
	default:
		return LevelHigh
	}
}

// Build returns the grid for product, or false when the product lacks a
// colour or size option.
func Build(product backend.Product, th Thresholds) (Matrix, bool) {
	colorTitle, ok := optionTitle(product, colorTitles)
	if !ok {
		return Matrix{}, false
	}
	sizeTitle, ok := optionTitle(product, sizeTitles)
	if !ok {
		return Matrix{}, false
	}

	m := Matrix{
		Colors: optionValues(product, colorTitle),
		Sizes:  optionValues(product, sizeTitle),
	}
	byPair := make(map[[2]string]backend.Variant, len(product.Variants))
	for _, variant := range product.Variants {
		color, hasColor := variant.OptionValue(colorTitle)
		size, hasSize := variant.OptionValue(sizeTitle)
		if !hasColor || !hasSize {
			continue
		}
		m.Colors = appendMissing(m.Colors, color)
		m.Sizes = appendMissing(m.Sizes, size)
		if _, seen := byPair[[2]string{color, size}]; !seen {
			byPair[[2]string{color, size}] = variant
		}
	}

	m.Cells = make([][]Cell, len(m.Colors))
	for i, color := range m.Colors {
		row := make([]Cell, len(m.Sizes))
		for j, size := range m.Sizes {
			variant, found := byPair[[2]string{color, size}]
			if !found {
				row[j] = Cell{Level: LevelMissing, Disabled: true}
				continue
			}
			level := Classify(variant, th)
			row[j] = Cell{
				VariantID: variant.ID,
				Quantity:  variant.InventoryQuantity,
				Level:     level,
				Disabled:  level == LevelUnavailable,
			}
		}
		m.Cells[i] = row
	}
	return m, true
}

// Cell returns the cell for color and size.
func (m Matrix) Cell(color string, size string) (Cell, bool) {
	for i, c := range m.Colors {
		if c != color {
			continue
		}
		for j, s := range m.Sizes {
			if s == size {
				return m.Cells[i][j], true
			}
		}
	}
	return Cell{}, false
}

func optionTitle(product backend.Product, candidates []string) (string, bool) {
	for _, option := range product.Options {
		for _, candidate := range candidates {
			if strings.EqualFold(strings.TrimSpace(option.Title), candidate) {
				return option.Title, true
			}
		}
	}
	return "", false
}

func optionValues(product backend.Product, title string) []string {
	for _, option := range product.Options {
		if option.Title == title {
			values := make([]string, 0, len(option.Values))
			for _, value := range option.Values {
				values = appendMissing(values, value)
			}
			return values
		}
	}
	return nil
}

func appendMissing(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
