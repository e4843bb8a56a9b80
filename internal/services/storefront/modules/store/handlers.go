package store

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/louisbranch/storefront/internal/services/storefront/availability"
	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	webi18n "github.com/louisbranch/storefront/internal/services/storefront/platform/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/pagerender"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/weberror"
	"github.com/louisbranch/storefront/internal/services/storefront/pricing"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/segments"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

type handlers struct {
	service service
}

func newHandlers(s service) handlers {
	return handlers{service: s}
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	seg, ok := segments.FromRequest(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	loc, tag := webi18n.ResolveLocalizer(r)
	products, region := h.service.featured(httpx.RequestContext(r), seg.CountryCode)
	h.writePage(w, r, templates.T(loc, "store.home.title"), templates.HomePage(templates.HomeView{
		Segments: seg,
		Featured: productCards(seg, products, region, tag),
	}, loc))
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	seg, ok := segments.FromRequest(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	page := 1
	if raw := strings.TrimSpace(r.URL.Query().Get(routepath.PageQueryKey)); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.handleNotFound(w, r)
			return
		}
		page = parsed
	}
	loc, tag := webi18n.ResolveLocalizer(r)
	result := h.service.list(httpx.RequestContext(r), seg.CountryCode, page)
	if result.page > result.totalPages {
		h.handleNotFound(w, r)
		return
	}
	h.writePage(w, r, templates.T(loc, "store.list.title"), templates.ProductListPage(templates.ProductListView{
		Segments:   seg,
		Products:   productCards(seg, result.products, result.region, tag),
		Page:       result.page,
		TotalPages: result.totalPages,
	}, loc))
}

func (h handlers) handleProduct(w http.ResponseWriter, r *http.Request) {
	seg, ok := segments.FromRequest(r)
	handle := strings.TrimSpace(r.PathValue("handle"))
	if !ok || handle == "" {
		h.handleNotFound(w, r)
		return
	}
	product, region, err := h.service.product(httpx.RequestContext(r), seg.CountryCode, handle)
	if err != nil {
		if !apperrors.Is(err, apperrors.KindNotFound) {
			log.Printf("store: product lookup failed handle=%s: %v", handle, err)
		}
		h.handleNotFound(w, r)
		return
	}
	loc, tag := webi18n.ResolveLocalizer(r)
	h.writePage(w, r, product.Title, templates.ProductPage(productView(product, region, tag, h.service.thresholds), loc))
}

func (handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteNotFound(w, r)
}

func (handlers) writePage(w http.ResponseWriter, r *http.Request, title string, fragment templ.Component) {
	if err := pagerender.Write(w, r, pagerender.Page{Title: title, Fragment: fragment}); err != nil {
		weberror.WriteModuleError(w, r, err)
	}
}

func productCards(seg routepath.Segments, products []backend.Product, region backend.Region, tag language.Tag) []templates.ProductCard {
	cards := make([]templates.ProductCard, 0, len(products))
	for _, product := range products {
		cards = append(cards, templates.ProductCard{
			Title:     product.Title,
			Href:      routepath.ProductPath(seg, product.Handle),
			Thumbnail: product.Thumbnail,
			Price:     cheapestPrice(product, region, tag),
		})
	}
	return cards
}

func productView(product backend.Product, region backend.Region, tag language.Tag, th availability.Thresholds) templates.ProductView {
	view := templates.ProductView{
		Title:       product.Title,
		Description: product.Description,
		Thumbnail:   product.Thumbnail,
		Price:       cheapestPrice(product, region, tag),
	}
	if matrix, ok := availability.Build(product, th); ok {
		view.Matrix = matrixView(matrix)
	}
	return view
}

func matrixView(matrix availability.Matrix) *templates.MatrixView {
	cells := make([][]templates.MatrixCell, len(matrix.Cells))
	for i, row := range matrix.Cells {
		cells[i] = make([]templates.MatrixCell, len(row))
		for j, cell := range row {
			cells[i][j] = templates.MatrixCell{
				Level:    string(cell.Level),
				Quantity: cell.Quantity,
				Disabled: cell.Disabled,
			}
		}
	}
	return &templates.MatrixView{Colors: matrix.Colors, Sizes: matrix.Sizes, Cells: cells}
}

func cheapestPrice(product backend.Product, region backend.Region, tag language.Tag) string {
	price, ok := product.CheapestPrice()
	if !ok {
		return ""
	}
	code := price.CurrencyCode
	if code == "" {
		code = region.CurrencyCode
	}
	return pricing.Format(price.Amount, code, tag)
}
