// Package export renders a product cost sheet as a PDF document.
package export

import (
	"regexp"
	"strings"

	"smashcost-backend/internal/format"
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/pricing"
	"smashcost-backend/internal/supply"
)

// SheetRow - one printed line of the cost table.
type SheetRow struct {
	Label    string
	Quantity string
	Cost     string
	Note     string
}

// SheetView holds every value of a sheet already formatted for print.
type SheetView struct {
	Title       string
	Composition string
	ConfigLabel string
	Rows        []SheetRow

	TotalCostHT         string
	SellingPriceTTC     string
	SellingPriceHT      string
	MarginHT            string
	MarginPercent       string
	FoodCostPercent     string
	RecommendedPriceTTC string
	MarginAlert         bool
}

func quantity(l pricing.Line) string {
	if !l.Linked {
		return supply.FormatUnitLabel(l.QuantityLabel)
	}
	unit := l.UnitLabel
	if unit == "" {
		unit = "un."
	}
	return format.Quantity(l.Quantity) + " " + supply.FormatUnitLabel(unit)
}

func addonRow(label string, a *pricing.Addon) SheetRow {
	row := SheetRow{Label: label, Quantity: "1", Cost: format.Amount(a.Cost)}
	if a.Name == "" {
		row.Note = "article supprimé du stock"
	} else {
		row.Label += " : " + a.Name
	}
	return row
}

// NewSheetView formats a breakdown of p.
func NewSheetView(p models.Product, b pricing.Breakdown) SheetView {
	v := SheetView{
		Title:               p.Name,
		Composition:         p.Composition,
		ConfigLabel:         b.Config.Label(),
		Rows:                make([]SheetRow, 0, len(b.Lines)+2),
		TotalCostHT:         format.Euro(b.TotalCostHT),
		SellingPriceTTC:     format.Euro(b.SellingPriceTTC),
		SellingPriceHT:      format.Euro(b.SellingPriceHT),
		MarginHT:            format.Euro(b.MarginHT),
		MarginPercent:       format.Percent(b.MarginPercent),
		FoodCostPercent:     format.Percent(b.FoodCostPercent),
		RecommendedPriceTTC: format.Euro(b.RecommendedPriceTTC),
		MarginAlert:         b.MarginAlert,
	}

	for _, l := range b.Lines {
		row := SheetRow{Label: l.Name, Quantity: quantity(l), Cost: format.Amount(l.Cost)}
		switch {
		case l.Dangling:
			row.Note = "article supprimé du stock"
		case l.Linked:
			row.Note = "stock"
		}
		v.Rows = append(v.Rows, row)
	}
	if b.MenuSide != nil {
		v.Rows = append(v.Rows, addonRow("Accompagnement", b.MenuSide))
	}
	if b.MenuDrink != nil {
		v.Rows = append(v.Rows, addonRow("Boisson", b.MenuDrink))
	}
	return v
}

var spaces = regexp.MustCompile(`\s+`)

// FileName is the download name of the sheet: "Fiche_Cout_DOUBLE_CHEESE.pdf".
func FileName(productName string) string {
	return "Fiche_Cout_" + spaces.ReplaceAllString(strings.TrimSpace(productName), "_") + ".pdf"
}
