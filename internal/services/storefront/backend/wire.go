package backend

import "time"

// Wire shapes of the Medusa store API; converted to package types on decode.

type wireRegion struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currency_code"`
	Countries    []struct {
		ISO2 string `json:"iso_2"`
	} `json:"countries"`
}

type wireOptionValue struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	OptionID string `json:"option_id"`
	Option   *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"option"`
}

type wireProductOption struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Values []wireOptionValue `json:"values"`
}

type wireVariant struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	SKU               string            `json:"sku"`
	ManageInventory   bool              `json:"manage_inventory"`
	AllowBackorder    bool              `json:"allow_backorder"`
	InventoryQuantity *int              `json:"inventory_quantity"`
	Options           []wireOptionValue `json:"options"`
	CalculatedPrice   *struct {
		CalculatedAmount *float64 `json:"calculated_amount"`
		CurrencyCode     string   `json:"currency_code"`
	} `json:"calculated_price"`
}

type wireProduct struct {
	ID          string              `json:"id"`
	Handle      string              `json:"handle"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Thumbnail   string              `json:"thumbnail"`
	Options     []wireProductOption `json:"options"`
	Variants    []wireVariant       `json:"variants"`
}

type wireLineItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Thumbnail string  `json:"thumbnail"`
}

type wireOrder struct {
	ID                string         `json:"id"`
	DisplayID         int            `json:"display_id"`
	Status            string         `json:"status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	PaymentStatus     string         `json:"payment_status"`
	Total             float64        `json:"total"`
	CurrencyCode      string         `json:"currency_code"`
	CreatedAt         time.Time      `json:"created_at"`
	Items             []wireLineItem `json:"items"`
}

type wireQuote struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	DraftOrderID string     `json:"draft_order_id"`
	CreatedAt    time.Time  `json:"created_at"`
	DraftOrder   *wireOrder `json:"draft_order"`
}

func (w wireRegion) toRegion() Region {
	region := Region{ID: w.ID, Name: w.Name, CurrencyCode: w.CurrencyCode, Countries: make([]string, 0, len(w.Countries))}
	for _, country := range w.Countries {
		region.Countries = append(region.Countries, country.ISO2)
	}
	return region
}

func (w wireProduct) toProduct() Product {
	optionTitles := make(map[string]string, len(w.Options))
	product := Product{
		ID:          w.ID,
		Handle:      w.Handle,
		Title:       w.Title,
		Description: w.Description,
		Thumbnail:   w.Thumbnail,
		Options:     make([]ProductOption, 0, len(w.Options)),
		Variants:    make([]Variant, 0, len(w.Variants)),
	}
	for _, option := range w.Options {
		optionTitles[option.ID] = option.Title
		values := make([]string, 0, len(option.Values))
		for _, value := range option.Values {
			values = append(values, value.Value)
		}
		product.Options = append(product.Options, ProductOption{ID: option.ID, Title: option.Title, Values: values})
	}
	for _, variant := range w.Variants {
		product.Variants = append(product.Variants, variant.toVariant(optionTitles))
	}
	return product
}

func (w wireVariant) toVariant(optionTitles map[string]string) Variant {
	variant := Variant{
		ID:              w.ID,
		Title:           w.Title,
		SKU:             w.SKU,
		Options:         make(map[string]string, len(w.Options)),
		ManageInventory: w.ManageInventory,
		AllowBackorder:  w.AllowBackorder,
	}
	if w.InventoryQuantity != nil {
		variant.InventoryQuantity = *w.InventoryQuantity
	}
	for _, value := range w.Options {
		title := optionTitles[value.OptionID]
		if value.Option != nil && value.Option.Title != "" {
			title = value.Option.Title
		}
		if title == "" {
			continue
		}
		variant.Options[title] = value.Value
	}
	if w.CalculatedPrice != nil && w.CalculatedPrice.CalculatedAmount != nil {
		variant.Price = &Price{Amount: *w.CalculatedPrice.CalculatedAmount, CurrencyCode: w.CalculatedPrice.CurrencyCode}
	}
	return variant
}

func toLineItems(items []wireLineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, LineItem(item))
	}
	return out
}

func (w wireOrder) toOrder() Order {
	return Order{
		ID:                w.ID,
		DisplayID:         w.DisplayID,
		Status:            w.Status,
		FulfillmentStatus: w.FulfillmentStatus,
		PaymentStatus:     w.PaymentStatus,
		Total:             w.Total,
		CurrencyCode:      w.CurrencyCode,
		CreatedAt:         w.CreatedAt,
		Items:             toLineItems(w.Items),
	}
}

func (w wireQuote) toQuote() Quote {
	quote := Quote{ID: w.ID, Status: w.Status, DraftOrderID: w.DraftOrderID, CreatedAt: w.CreatedAt, Items: []LineItem{}}
	if w.DraftOrder != nil {
		quote.DisplayID = w.DraftOrder.DisplayID
		quote.Total = w.DraftOrder.Total
		quote.CurrencyCode = w.DraftOrder.CurrencyCode
		quote.Items = toLineItems(w.DraftOrder.Items)
	}
	return quote
}
