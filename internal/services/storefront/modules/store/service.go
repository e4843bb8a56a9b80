package store

import (
	"context"
	"log"

	"github.com/louisbranch/storefront/internal/services/storefront/availability"
	"github.com/louisbranch/storefront/internal/services/storefront/backend"
	module "github.com/louisbranch/storefront/internal/services/storefront/module"
	apperrors "github.com/louisbranch/storefront/internal/services/storefront/platform/errors"
)

const (
	listPageSize  = 12
	featuredLimit = 4
)

type service struct {
	catalog    module.CatalogClient
	thresholds availability.Thresholds
}

type listing struct {
	products   []backend.Product
	region     backend.Region
	page       int
	totalPages int
}

func newService(deps module.Dependencies) service {
	thresholds := deps.Thresholds
	if thresholds == (availability.Thresholds{}) {
		thresholds = availability.DefaultThresholds
	}
	return service{catalog: deps.Catalog, thresholds: thresholds}
}

func (s service) region(ctx context.Context, country string) (backend.Region, error) {
	regions, err := s.catalog.ListRegions(ctx)
	if err != nil {
		return backend.Region{}, err
	}
	for _, region := range regions {
		if region.HasCountry(country) {
			return region, nil
		}
	}
	return backend.Region{}, apperrors.EK(apperrors.KindNotFound, "error.not_found.title", "no region serves country "+country)
}

// featured returns the first products of the region; failures yield none.
func (s service) featured(ctx context.Context, country string) ([]backend.Product, backend.Region) {
	region, err := s.region(ctx, country)
	if err != nil {
		log.Printf("store: featured region lookup failed country=%s: %v", country, err)
		return nil, backend.Region{}
	}
	page, err := s.catalog.ListProducts(ctx, backend.ProductQuery{RegionID: region.ID, Limit: featuredLimit})
	if err != nil {
		log.Printf("store: featured products failed region=%s: %v", region.ID, err)
		return nil, region
	}
	return page.Products, region
}

// list returns one catalog page; failures yield an empty page.
func (s service) list(ctx context.Context, country string, page int) listing {
	if page < 1 {
		page = 1
	}
	out := listing{page: page, totalPages: 1}
	region, err := s.region(ctx, country)
	if err != nil {
		log.Printf("store: listing region lookup failed country=%s: %v", country, err)
		return out
	}
	out.region = region
	result, err := s.catalog.ListProducts(ctx, backend.ProductQuery{
		RegionID: region.ID,
		Limit:    listPageSize,
		Offset:   (page - 1) * listPageSize,
	})
	if err != nil {
		log.Printf("store: listing failed region=%s page=%d: %v", region.ID, page, err)
		return out
	}
	out.products = result.Products
	if pages := (result.Count + listPageSize - 1) / listPageSize; pages > 1 {
		out.totalPages = pages
	}
	return out
}

func (s service) product(ctx context.Context, country string, handle string) (backend.Product, backend.Region, error) {
	region, err := s.region(ctx, country)
	if err != nil {
		return backend.Product{}, backend.Region{}, err
	}
	product, err := s.catalog.GetProductByHandle(ctx, handle, region.ID)
	if err != nil {
		return backend.Product{}, region, err
	}
	return product, region, nil
}
