package templates

import "github.com/louisbranch/storefront/internal/services/storefront/routepath"

// ProductCard is a product tile in listings.
type ProductCard struct {
	Title     string
	Href      string
	Thumbnail string
	// Price is the formatted cheapest price, empty when unpriced.
	Price string
}

// HomeView is the storefront landing page.
type HomeView struct {
	Segments routepath.Segments
	Featured []ProductCard
}

// ProductListView is one page of the catalog.
type ProductListView struct {
	Segments   routepath.Segments
	Products   []ProductCard
	Page       int
	TotalPages int
}

// MatrixCell is one rendered availability cell.
type MatrixCell struct {
	Level    string
	Quantity int
	Disabled bool
}

// MatrixView is the colour × size availability grid.
type MatrixView struct {
	Colors []string
	Sizes  []string
	Cells  [][]MatrixCell
}

// ProductView is the product detail page.
type ProductView struct {
	Title       string
	Description string
	Thumbnail   string
	Price       string
	Matrix      *MatrixView
}
