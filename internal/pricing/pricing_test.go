package pricing

import (
	"math"
	"testing"

	"smashcost-backend/internal/models"
	"smashcost-backend/internal/supply"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func approx(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %v, want ~%v", name, got, want)
	}
}

func testCatalog() supply.Catalog {
	return supply.Catalog{
		{ID: "steak-vrac", Name: "Steak", PackagePrice: 11.50, PackageQuantity: 22.22, UnitLabel: "boule"},
		{ID: "cheddar-tranche", Name: "Cheddar", PackagePrice: 6.49, PackageQuantity: 88, UnitLabel: "tranche"},
		{ID: "pain-martins", Name: "Pain", PackagePrice: 31.99, PackageQuantity: 60, UnitLabel: "unité"},
		{ID: "frites-portion", Name: "Frites", PackagePrice: 22.39, PackageQuantity: 36.36, UnitLabel: "portion"},
		{ID: "coca-33cl", Name: "Coca", PackagePrice: 15.99, PackageQuantity: 24, UnitLabel: "unité"},
		{ID: "vide", Name: "Vide", PackagePrice: 5, PackageQuantity: 0, UnitLabel: "g"},
	}
}

// smashManual is the SMASH sheet with every line costed by hand.
func smashManual() models.Product {
	costs := []float64{0.53, 0.068, 1.035, 0.15, 0.053, 0.04, 0, 0, 0}
	p := models.Product{
		ID:            "smash",
		Name:          "SMASH",
		SellingPrices: models.SellingPrices{Single: 8.90, Menu: 12.90, Student: 9.90},
		MenuSideID:    "frites-portion",
		MenuDrinkID:   "coca-33cl",
	}
	for i, c := range costs {
		p.Ingredients = append(p.Ingredients, models.Ingredient{
			ID:   string(rune('a' + i)),
			Name: "ligne",
			Cost: c,
		})
	}
	return p
}

func TestIngredientCost(t *testing.T) {
	catalog := testCatalog()

	linked := models.Ingredient{ID: "1", SupplyID: "steak-vrac", QuantityValue: models.Float(2), Cost: 99}
	nearlyEqual(t, "linked", IngredientCost(linked, catalog), 2*11.50/22.22)
	approx(t, "linked rounded", IngredientCost(linked, catalog), 1.0351, 1e-4)

	manual := models.Ingredient{ID: "2", Cost: 0.03}
	nearlyEqual(t, "manual", IngredientCost(manual, catalog), 0.03)
	nearlyEqual(t, "manual, empty catalog", IngredientCost(manual, supply.Catalog{}), 0.03)

	noQty := models.Ingredient{ID: "3", SupplyID: "steak-vrac", Cost: 5}
	nearlyEqual(t, "linked without quantity", IngredientCost(noQty, catalog), 0)

	dangling := models.Ingredient{ID: "4", SupplyID: "gone", QuantityValue: models.Float(3), Cost: 1.2}
	nearlyEqual(t, "dangling link", IngredientCost(dangling, catalog), 0)

	zeroPack := models.Ingredient{ID: "5", SupplyID: "vide", QuantityValue: models.Float(10)}
	nearlyEqual(t, "zero package quantity", IngredientCost(zeroPack, catalog), 0)

	nearlyEqual(t, "free without cost", IngredientCost(models.Ingredient{ID: "6"}, catalog), 0)
}

func TestBaseCostIsOrderIndependent(t *testing.T) {
	catalog := testCatalog()
	p := models.Product{Ingredients: []models.Ingredient{
		{ID: "1", SupplyID: "pain-martins", QuantityValue: models.Float(1)},
		{ID: "2", SupplyID: "steak-vrac", QuantityValue: models.Float(2)},
		{ID: "3", SupplyID: "cheddar-tranche", QuantityValue: models.Float(2)},
		{ID: "4", Cost: 0.04},
	}}
	reversed := p.Clone()
	for i, j := 0, len(reversed.Ingredients)-1; i < j; i, j = i+1, j-1 {
		reversed.Ingredients[i], reversed.Ingredients[j] = reversed.Ingredients[j], reversed.Ingredients[i]
	}

	if got, want := BaseCostHT(reversed, catalog), BaseCostHT(p, catalog); got != want {
		t.Fatalf("reversed base cost = %v, want exactly %v", got, want)
	}
}

func TestSingleTotalEqualsBaseCost(t *testing.T) {
	catalog := testCatalog()
	p := smashManual()

	if got, want := TotalCostHT(p, catalog, models.PriceSingle), BaseCostHT(p, catalog); got != want {
		t.Fatalf("single total = %v, base = %v", got, want)
	}
	nearlyEqual(t, "single addons", MenuAddonsCostHT(p, catalog, models.PriceSingle), 0)
}

func TestMenuAddons(t *testing.T) {
	catalog := testCatalog()
	p := smashManual()
	want := 22.39/36.36 + 15.99/24

	nearlyEqual(t, "menu addons", MenuAddonsCostHT(p, catalog, models.PriceMenu), want)
	nearlyEqual(t, "student addons", MenuAddonsCostHT(p, catalog, models.PriceStudent), want)

	p.MenuDrinkID = "missing"
	nearlyEqual(t, "unresolvable drink", MenuAddonsCostHT(p, catalog, models.PriceMenu), 22.39/36.36)

	p.MenuSideID = ""
	p.MenuDrinkID = ""
	nearlyEqual(t, "no addons", MenuAddonsCostHT(p, catalog, models.PriceMenu), 0)
}

func TestSmashScenario(t *testing.T) {
	pol := DefaultPolicy()
	catalog := testCatalog()
	p := smashManual()

	approx(t, "base cost", BaseCostHT(p, catalog), 1.876, 1e-9)
	approx(t, "selling price HT", pol.SellingPriceHT(p, models.PriceSingle), 8.0909, 1e-4)
	approx(t, "margin HT", pol.MarginHT(p, catalog, models.PriceSingle), 6.2149, 1e-4)
	approx(t, "margin percent", pol.MarginPercent(p, catalog, models.PriceSingle), 76.8, 0.05)

	b := pol.Compute(p, catalog, models.PriceSingle)
	if b.MarginAlert {
		t.Fatalf("76.8%% margin must not raise the alert")
	}
	if len(b.Lines) != 9 {
		t.Fatalf("lines = %d, want 9", len(b.Lines))
	}
	if b.MenuSide != nil || b.MenuDrink != nil {
		t.Fatalf("single configuration must not carry menu add-ons")
	}
}

func TestZeroPriceMarginGuard(t *testing.T) {
	pol := DefaultPolicy()
	catalog := testCatalog()
	p := smashManual()
	p.SellingPrices = models.SellingPrices{}

	for _, cfg := range models.PriceConfigs {
		got := pol.MarginPercent(p, catalog, cfg)
		if got != 0 {
			t.Fatalf("%s margin percent = %v, want 0", cfg, got)
		}
		if fc := pol.FoodCostPercent(p, catalog, cfg); fc != 0 {
			t.Fatalf("%s food cost percent = %v, want 0", cfg, fc)
		}
	}

	b := pol.Compute(p, catalog, models.PriceMenu)
	if math.IsNaN(b.MarginPercent) || math.IsInf(b.MarginPercent, 0) {
		t.Fatalf("margin percent not finite: %v", b.MarginPercent)
	}
	if !b.MarginAlert {
		t.Fatalf("zero price must raise the margin alert")
	}
}

func TestRecommendedPrice(t *testing.T) {
	pol := DefaultPolicy()
	catalog := testCatalog()
	p := smashManual()

	for _, cfg := range models.PriceConfigs {
		total := TotalCostHT(p, catalog, cfg)
		nearlyEqual(t, string(cfg)+" HT", pol.RecommendedPriceHT(p, catalog, cfg), total/0.30)
		nearlyEqual(t, string(cfg)+" TTC", pol.RecommendedPriceTTC(p, catalog, cfg), pol.RecommendedPriceHT(p, catalog, cfg)*1.10)
	}

	empty := models.Product{ID: "x"}
	nearlyEqual(t, "no cost", pol.RecommendedPriceHT(empty, catalog, models.PriceSingle), 0)
	nearlyEqual(t, "no cost TTC", pol.RecommendedPriceTTC(empty, catalog, models.PriceSingle), 0)
}

func TestMarginAlertThresholdIsConfigurable(t *testing.T) {
	catalog := testCatalog()
	p := smashManual()

	strict := DefaultPolicy()
	strict.MarginAlertPercent = 80
	if !strict.Compute(p, catalog, models.PriceSingle).MarginAlert {
		t.Fatalf("76.8%% margin must alert with an 80%% threshold")
	}
}

func TestComputeFlagsDanglingLinks(t *testing.T) {
	pol := DefaultPolicy()
	catalog := testCatalog()
	p := models.Product{
		ID: "p",
		Ingredients: []models.Ingredient{
			{ID: "1", Name: "Steak", SupplyID: "steak-vrac", QuantityValue: models.Float(2)},
			{ID: "2", Name: "Bacon", SupplyID: "bacon", QuantityValue: models.Float(1), Cost: 0.4},
		},
		SellingPrices: models.SellingPrices{Menu: 12},
		MenuSideID:    "frites-portion",
	}

	b := pol.Compute(p, catalog, models.PriceMenu)
	if b.Lines[0].Dangling || b.Lines[0].UnitLabel != "boule" {
		t.Fatalf("unexpected first line: %+v", b.Lines[0])
	}
	if !b.Lines[1].Dangling || b.Lines[1].Cost != 0 {
		t.Fatalf("unexpected dangling line: %+v", b.Lines[1])
	}
	if b.MenuSide == nil || b.MenuSide.Name != "Frites" {
		t.Fatalf("menu side not resolved: %+v", b.MenuSide)
	}
	nearlyEqual(t, "total", b.TotalCostHT, 2*11.50/22.22+22.39/36.36)
}

func TestSummarizeResolvesCostsAndDropsLinks(t *testing.T) {
	catalog := testCatalog()
	p := models.Product{
		ID:   "smash",
		Name: "SMASH",
		Ingredients: []models.Ingredient{
			{ID: "1", Name: "Steak", SupplyID: "steak-vrac", QuantityValue: models.Float(2), Cost: 42},
			{ID: "2", Name: "Sel", Cost: 0.01},
		},
		SellingPrices: models.SellingPrices{Single: 8.9},
	}

	req := Summarize(p, catalog)
	if req.ProductID != "smash" || len(req.Ingredients) != 2 {
		t.Fatalf("unexpected request: %+v", req)
	}
	nearlyEqual(t, "linked cost", req.Ingredients[0].Cost, 2*11.50/22.22)
	nearlyEqual(t, "manual cost", req.Ingredients[1].Cost, 0.01)
}
