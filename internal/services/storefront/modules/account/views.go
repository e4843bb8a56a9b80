package account

import (
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	"github.com/louisbranch/storefront/internal/services/storefront/layoutgate"
	"github.com/louisbranch/storefront/internal/services/storefront/pricing"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

func accountView(seg routepath.Segments, session layoutgate.Session, active string) templates.AccountView {
	return templates.AccountView{
		Segments:     seg,
		CustomerName: session.Customer.DisplayName(),
		Active:       active,
	}
}

func orderRows(seg routepath.Segments, orders []backend.Order, tag language.Tag) []templates.OrderRow {
	rows := make([]templates.OrderRow, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, orderRow(seg, order, tag))
	}
	return rows
}

func orderRow(seg routepath.Segments, order backend.Order, tag language.Tag) templates.OrderRow {
	return templates.OrderRow{
		ID:                order.ID,
		DisplayID:         order.DisplayID,
		Href:              routepath.OrderPath(seg, order.ID),
		Placed:            formatDate(order.CreatedAt, tag),
		Status:            order.Status,
		FulfillmentStatus: order.FulfillmentStatus,
		PaymentStatus:     order.PaymentStatus,
		Total:             pricing.Format(order.Total, order.CurrencyCode, tag),
	}
}

func quoteRows(seg routepath.Segments, quotes []backend.Quote, tag language.Tag) []templates.QuoteRow {
	rows := make([]templates.QuoteRow, 0, len(quotes))
	for _, quote := range quotes {
		rows = append(rows, quoteRow(seg, quote, tag))
	}
	return rows
}

func quoteRow(seg routepath.Segments, quote backend.Quote, tag language.Tag) templates.QuoteRow {
	label := quote.ID
	if quote.DisplayID > 0 {
		label = "#" + strconv.Itoa(quote.DisplayID)
	}
	return templates.QuoteRow{
		ID:     quote.ID,
		Label:  label,
		Href:   routepath.QuotePath(seg, quote.ID),
		Placed: formatDate(quote.CreatedAt, tag),
		Status: quote.Status,
		Total:  pricing.Format(quote.Total, quote.CurrencyCode, tag),
	}
}

func lineRows(items []backend.LineItem, currencyCode string, tag language.Tag) []templates.LineRow {
	rows := make([]templates.LineRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, templates.LineRow{
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: pricing.Format(item.UnitPrice, currencyCode, tag),
		})
	}
	return rows
}

func formatDate(t time.Time, tag language.Tag) string {
	if t.IsZero() {
		return ""
	}
	if base, _ := tag.Base(); base.String() == "it" {
		return t.Format("02/01/2006")
	}
	return t.Format("Jan 2, 2006")
}
