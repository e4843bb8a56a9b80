package templates

import "github.com/louisbranch/storefront/internal/services/storefront/routepath"

// Account navigation sections.
const (
	AccountSectionOverview = "overview"
	AccountSectionOrders   = "orders"
	AccountSectionQuotes   = "quotes"
	AccountSectionProfile  = "profile"
)

// OrderRow is an order summary with display-ready values.
type OrderRow struct {
	ID                string
	DisplayID         int
	Href              string
	Placed            string
	Status            string
	FulfillmentStatus string
	PaymentStatus     string
	Total             string
}

// LineRow is an order or quote line.
type LineRow struct {
	Title     string
	Quantity  int
	UnitPrice string
}

// QuoteRow is a quote summary with display-ready values.
type QuoteRow struct {
	ID     string
	Label  string
	Href   string
	Placed string
	Status string
	Total  string
}

// AccountView carries the account chrome shared by every account page.
type AccountView struct {
	Segments     routepath.Segments
	CustomerName string
	Active       string
}

// DashboardView is the account overview.
type DashboardView struct {
	Account AccountView
	Orders  []OrderRow
	Quotes  []QuoteRow
}

// ProfileView is the customer profile page.
type ProfileView struct {
	Account AccountView
	Email   string
	Name    string
	Phone   string
	Company string
}

// LoginView is the unauthenticated branch of the account gate.
type LoginView struct {
	Action   string
	ReturnTo string
	Email    string
	// Error is an already localized failure message.
	Error string
}
