package backend

import (
	"strings"
	"time"
)

// Region is a backend sales region with its currency and member countries.
type Region struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	CurrencyCode string   `json:"currency_code"`
	Countries    []string `json:"countries"`
}

// HasCountry reports whether the region serves country (ISO 3166-1 alpha-2).
func (r Region) HasCountry(country string) bool {
	country = strings.ToLower(strings.TrimSpace(country))
	for _, code := range r.Countries {
		if code == country {
			return true
		}
	}
	return false
}

// ProductOption is a product option such as colour or size with its values in display order.
type ProductOption struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Values []string `json:"values"`
}

// Price is a calculated region price.
type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

// Variant is a purchasable product variant.
type Variant struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	SKU               string            `json:"sku"`
	Options           map[string]string `json:"options"`
	Price             *Price            `json:"price,omitempty"`
	InventoryQuantity int               `json:"inventory_quantity"`
	ManageInventory   bool              `json:"manage_inventory"`
	AllowBackorder    bool              `json:"allow_backorder"`
}

// OptionValue returns the variant value for the option titled title, ignoring case.
func (v Variant) OptionValue(title string) (string, bool) {
	for key, value := range v.Options {
		if strings.EqualFold(key, title) {
			return value, true
		}
	}
	return "", false
}

// Product is a catalog product with its variants.
type Product struct {
	ID          string          `json:"id"`
	Handle      string          `json:"handle"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	Options     []ProductOption `json:"options"`
	Variants    []Variant       `json:"variants"`
}

// CheapestPrice returns the lowest variant price, if any variant is priced.
func (p Product) CheapestPrice() (Price, bool) {
	var best Price
	found := false
	for _, variant := range p.Variants {
		if variant.Price == nil {
			continue
		}
		if !found || variant.Price.Amount < best.Amount {
			best = *variant.Price
			found = true
		}
	}
	return best, found
}

// ProductQuery selects a page of products for a region.
type ProductQuery struct {
	RegionID string
	Limit    int
	Offset   int
}

// ProductPage is one page of products plus the total count.
type ProductPage struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Offset   int       `json:"offset"`
	Limit    int       `json:"limit"`
}

// Customer is the signed-in customer profile.
type Customer struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

// DisplayName returns the customer's full name, or the email when unnamed.
func (c Customer) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return c.Email
	}
	return name
}

// LineItem is one order line.
type LineItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Thumbnail string  `json:"thumbnail"`
}

// Order is a placed customer order.
type Order struct {
	ID                string     `json:"id"`
	DisplayID         int        `json:"display_id"`
	Status            string     `json:"status"`
	FulfillmentStatus string     `json:"fulfillment_status"`
	PaymentStatus     string     `json:"payment_status"`
	Total             float64    `json:"total"`
	CurrencyCode      string     `json:"currency_code"`
	CreatedAt         time.Time  `json:"created_at"`
	Items             []LineItem `json:"items"`
}

// OrderPage is one page of orders plus the total count.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Count  int     `json:"count"`
}

// Quote is a B2B quote request backed by a draft order.
type Quote struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	DraftOrderID string     `json:"draft_order_id"`
	DisplayID    int        `json:"display_id"`
	CreatedAt    time.Time  `json:"created_at"`
	Total        float64    `json:"total"`
	CurrencyCode string     `json:"currency_code"`
	Items        []LineItem `json:"items"`
}

// QuotePage is one page of quotes plus the total count.
type QuotePage struct {
	Quotes []Quote `json:"quotes"`
	Count  int     `json:"count"`
}

// CacheVersion is the backend stamp used to invalidate storefront caches.
type CacheVersion struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
