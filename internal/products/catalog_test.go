package products

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

var (
	bagsID     = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	cleanersID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	baseTime   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func testCategories() []models.Category {
	return []models.Category{
		{ID: bagsID, Slug: "trash-bags", Name: "Trash Bags", Visible: true},
		{ID: cleanersID, Slug: "cleaners", Name: "Cleaners", Visible: false},
	}
}

func testProduct(title, price string, stock int, status enums.ProductStatus, category uuid.UUID, age int) models.Product {
	cat := category
	return models.Product{
		ID:               uuid.New(),
		Slug:             title,
		Title:            title,
		ShortDescription: title + " short",
		Price:            decimal.RequireFromString(price),
		Stock:            stock,
		Status:           status,
		CategoryID:       &cat,
		CreatedAt:        baseTime.Add(time.Duration(age) * time.Hour),
	}
}

func testCatalog() []models.Product {
	return []models.Product{
		testProduct("heavy duty bags", "24.99", 30, enums.ProductStatusActive, bagsID, 1),
		testProduct("Kitchen bags", "12.50", 5, enums.ProductStatusActive, bagsID, 3),
		testProduct("apple cleaner", "8.00", 0, enums.ProductStatusActive, cleanersID, 2),
		testProduct("draft bags", "1.00", 10, enums.ProductStatusDraft, bagsID, 4),
		testProduct("Lavender cleaner", "1200.00", 10, enums.ProductStatusActive, cleanersID, 5),
		testProduct("soon bags", "9.00", 0, enums.ProductStatusComingSoon, bagsID, 6),
	}
}

func titles(items []models.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.Title)
	}
	return out
}

func equalTitles(t *testing.T, got []models.Product, want ...string) {
	t.Helper()
	gotTitles := titles(got)
	if len(gotTitles) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotTitles)
	}
	for i := range want {
		if gotTitles[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotTitles)
		}
	}
}

func TestFilterShopDefaultsToActiveByNameWithinPriceCeiling(t *testing.T) {
	got := FilterShop(testCatalog(), testCategories(), ShopFilter{}, decimal.NewFromInt(1000))
	equalTitles(t, got, "apple cleaner", "heavy duty bags", "Kitchen bags")
}

func TestFilterShopByCategorySearchAndPrice(t *testing.T) {
	catalog := testCatalog()
	cats := testCategories()
	ceiling := decimal.NewFromInt(1000)

	equalTitles(t, FilterShop(catalog, cats, ShopFilter{CategorySlug: "trash-bags"}, ceiling), "heavy duty bags", "Kitchen bags")
	equalTitles(t, FilterShop(catalog, cats, ShopFilter{CategorySlug: "missing"}, ceiling))
	equalTitles(t, FilterShop(catalog, cats, ShopFilter{Search: "SHORT"}, ceiling), "apple cleaner", "heavy duty bags", "Kitchen bags")
	equalTitles(t, FilterShop(catalog, cats, ShopFilter{Search: "kitchen"}, ceiling), "Kitchen bags")

	upper := decimal.RequireFromString("20")
	equalTitles(t, FilterShop(catalog, cats, ShopFilter{PriceMin: decimal.RequireFromString("10"), PriceMax: &upper}, ceiling), "Kitchen bags")

	high := decimal.NewFromInt(5000)
	equalTitles(t, FilterShop(catalog, cats, ShopFilter{CategorySlug: "cleaners", PriceMax: &high}, ceiling), "apple cleaner", "Lavender cleaner")
}

func TestSortProducts(t *testing.T) {
	cats := testCategories()
	high := decimal.NewFromInt(5000)
	base := ShopFilter{PriceMax: &high}

	base.Sort = enums.ProductSortPriceLow
	equalTitles(t, FilterShop(testCatalog(), cats, base, high), "apple cleaner", "Kitchen bags", "heavy duty bags", "Lavender cleaner")

	base.Sort = enums.ProductSortPriceHigh
	equalTitles(t, FilterShop(testCatalog(), cats, base, high), "Lavender cleaner", "heavy duty bags", "Kitchen bags", "apple cleaner")

	base.Sort = enums.ProductSortNewest
	equalTitles(t, FilterShop(testCatalog(), cats, base, high), "Lavender cleaner", "Kitchen bags", "apple cleaner", "heavy duty bags")

	base.Sort = enums.ProductSortName
	equalTitles(t, FilterShop(testCatalog(), cats, base, high), "apple cleaner", "heavy duty bags", "Kitchen bags", "Lavender cleaner")
}

func TestFeaturedPrefersFlaggedAndCaps(t *testing.T) {
	catalog := testCatalog()
	catalog[1].IsFeatured = true
	catalog[3].IsFeatured = true // draft, never shown

	got := Featured(catalog, 2)
	equalTitles(t, got, "Kitchen bags", "heavy duty bags")

	if len(Featured(nil, 6)) != 0 {
		t.Fatal("expected empty featured list")
	}
}

func TestVisibleCategories(t *testing.T) {
	got := VisibleCategories(testCategories())
	if len(got) != 1 || got[0].Slug != "trash-bags" {
		t.Fatalf("unexpected categories %+v", got)
	}
}

func TestRelatedSameCategoryActiveOnly(t *testing.T) {
	catalog := testCatalog()
	got := Related(catalog[0], catalog, 4)
	equalTitles(t, got, "Kitchen bags")

	var orphan models.Product
	if len(Related(orphan, catalog, 4)) != 0 {
		t.Fatal("expected no related products without a category")
	}

	many := append([]models.Product{}, catalog...)
	for i := 0; i < 6; i++ {
		many = append(many, testProduct("extra", "1.00", 1, enums.ProductStatusActive, bagsID, 10+i))
	}
	if got := Related(catalog[0], many, 4); len(got) != 4 {
		t.Fatalf("expected related capped at 4, got %d", len(got))
	}
}

func TestStockBadgeFor(t *testing.T) {
	cases := []struct {
		stock  int
		status enums.ProductStatus
		want   enums.StockBadge
	}{
		{stock: 0, status: enums.ProductStatusActive, want: enums.StockBadgeOutOfStock},
		{stock: 1, status: enums.ProductStatusActive, want: enums.StockBadgeLowStock},
		{stock: 10, status: enums.ProductStatusActive, want: enums.StockBadgeLowStock},
		{stock: 11, status: enums.ProductStatusActive, want: enums.StockBadgeNone},
		{stock: 0, status: enums.ProductStatusComingSoon, want: enums.StockBadgeComingSoon},
	}
	for _, tc := range cases {
		got := StockBadgeFor(models.Product{Stock: tc.stock, Status: tc.status}, 10)
		if got != tc.want {
			t.Fatalf("stock %d status %s: expected %q, got %q", tc.stock, tc.status, tc.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	good := testProduct("ok", "1.00", 1, enums.ProductStatusActive, bagsID, 0)
	if err := Validate(good); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}

	negative := good
	negative.Price = decimal.RequireFromString("-1")
	if err := Validate(negative); err == nil {
		t.Fatal("expected negative price to fail")
	}

	stock := good
	stock.Stock = -2
	if err := Validate(stock); err == nil {
		t.Fatal("expected negative stock to fail")
	}

	status := good
	status.Status = "sold"
	if err := Validate(status); err == nil {
		t.Fatal("expected invalid status to fail")
	}

	if err := ValidateCategory(models.Category{Slug: "x"}); err == nil {
		t.Fatal("expected missing category name to fail")
	}
}
