package supply

import (
	"math"
	"strings"

	"smashcost-backend/internal/models"
)

const (
	DefaultUnitLabel = "unité"
	DefaultSupplier  = "Inconnu"
)

// Catalog - the stock catalog of a user. Every transform returns a new slice,
// the receiver is never modified.
type Catalog []models.SupplyItem

// Find returns the item with the given id.
func (c Catalog) Find(id string) (models.SupplyItem, bool) {
	if id == "" {
		return models.SupplyItem{}, false
	}
	for _, item := range c {
		if item.ID == id {
			return item, true
		}
	}
	return models.SupplyItem{}, false
}

// UnitCost returns the HT cost of one unit of the item, 0 when the id is
// unknown or the package quantity is 0. It never fails.
func (c Catalog) UnitCost(id string) float64 {
	item, ok := c.Find(id)
	if !ok {
		return 0
	}
	return item.UnitCost()
}

func (c Catalog) Add(item models.SupplyItem) Catalog {
	out := make(Catalog, 0, len(c)+1)
	out = append(out, c...)
	return append(out, item)
}

// Update replaces the item with the same id. Unknown ids leave the catalog unchanged.
func (c Catalog) Update(item models.SupplyItem) Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	for i := range out {
		if out[i].ID == item.ID {
			out[i] = item
			break
		}
	}
	return out
}

// Remove drops the item. Ingredients still pointing at it keep their link and cost 0.
func (c Catalog) Remove(id string) Catalog {
	out := make(Catalog, 0, len(c))
	for _, item := range c {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// Normalize applies the defaults used when an item is entered by hand.
func Normalize(item models.SupplyItem) models.SupplyItem {
	item.Name = strings.TrimSpace(item.Name)
	item.Supplier = strings.TrimSpace(item.Supplier)
	if item.Supplier == "" {
		item.Supplier = DefaultSupplier
	}
	item.UnitLabel = strings.ToLower(strings.TrimSpace(item.UnitLabel))
	if item.UnitLabel == "" {
		item.UnitLabel = DefaultUnitLabel
	}
	return item
}

// Violations maps a json field name to an error code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func Validate(item models.SupplyItem) Violations {
	v := Violations{}
	if strings.TrimSpace(item.Name) == "" {
		v["name"] = "required"
	}
	switch {
	case !finite(item.PackagePrice):
		v["packagePrice"] = "must_be_a_number"
	case item.PackagePrice < 0:
		v["packagePrice"] = "must_not_be_negative"
	}
	switch {
	case !finite(item.PackageQuantity):
		v["packageQuantity"] = "must_be_a_number"
	case item.PackageQuantity < 0:
		v["packageQuantity"] = "must_not_be_negative"
	}
	return v
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

var countUnits = []string{"unité", "boule", "tranche", "feuille"}

// FormatUnitLabel renders countable units with a plural mark: "tranche" -> "tranche(s)".
func FormatUnitLabel(label string) string {
	if strings.Contains(label, "(s)") {
		return label
	}
	lower := strings.ToLower(label)
	for _, u := range countUnits {
		if strings.Contains(lower, u) {
			return label + "(s)"
		}
	}
	return label
}
