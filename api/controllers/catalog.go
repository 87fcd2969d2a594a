package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	productsvc "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

const (
	maxSearchLength = 100
	maxSlugLength   = 120
	maxCursorLength = 64
)

// CatalogHome returns featured products and visible categories.
func CatalogHome(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		home, err := svc.Home(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, home)
	}
}

// CatalogShop lists active products filtered by the shop query parameters.
func CatalogShop(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := parseShopInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Shop(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CatalogProduct returns one product with its related products.
func CatalogProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		key := validators.SanitizeString(chi.URLParam(r, "slug"), maxSlugLength)
		detail, err := svc.Detail(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func parseShopInput(r *http.Request) (productsvc.ShopInput, error) {
	var input productsvc.ShopInput

	input.Filter.CategorySlug = validators.ParseQueryString(r, "category", maxSlugLength)
	input.Filter.Search = validators.ParseQueryString(r, "search", maxSearchLength)

	priceMin, err := validators.ParseQueryDecimal(r, "price_min")
	if err != nil {
		return input, err
	}
	if priceMin != nil {
		input.Filter.PriceMin = *priceMin
	} else {
		input.Filter.PriceMin = decimal.Zero
	}
	priceMax, err := validators.ParseQueryDecimal(r, "price_max")
	if err != nil {
		return input, err
	}
	input.Filter.PriceMax = priceMax

	input.Filter.Sort = enums.ProductSortName
	if raw := strings.ToLower(validators.ParseQueryString(r, "sort", 20)); raw != "" {
		sort, err := enums.ParseProductSort(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort").WithDetails(map[string]any{"field": "sort"})
		}
		input.Filter.Sort = sort
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return input, err
	}
	input.Pagination = pagination.Params{
		Limit:  limit,
		Cursor: validators.ParseQueryString(r, "cursor", maxCursorLength),
	}
	return input, nil
}
