package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	headerBackground = &props.Color{Red: 241, Green: 245, Blue: 249}
	alertColor       = &props.Color{Red: 220, Green: 38, Blue: 38}
	mutedColor       = &props.Color{Red: 100, Green: 116, Blue: 139}
)

func tableHeader() core.Row {
	bold := props.Text{Size: 10, Style: fontstyle.Bold, Top: 1.5}
	right := bold
	right.Align = align.Right
	return row.New(8).Add(
		text.NewCol(6, "Ingrédient", bold),
		text.NewCol(2, "Quantité", bold),
		text.NewCol(2, "Remarque", bold),
		text.NewCol(2, "Coût HT (€)", right),
	).WithStyle(&props.Cell{BackgroundColor: headerBackground})
}

func tableRow(r SheetRow) core.Row {
	plain := props.Text{Size: 10, Top: 1.5}
	muted := props.Text{Size: 8, Top: 2, Color: mutedColor}
	right := plain
	right.Align = align.Right
	return row.New(7).Add(
		text.NewCol(6, r.Label, plain),
		text.NewCol(2, r.Quantity, plain),
		text.NewCol(2, r.Note, muted),
		text.NewCol(2, r.Cost, right),
	)
}

func figure(label, value string, highlight *props.Color) core.Row {
	valueProps := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Top: 1}
	if highlight != nil {
		valueProps.Color = highlight
	}
	return row.New(7).Add(
		col.New(6),
		text.NewCol(4, label, props.Text{Size: 10, Top: 1.5}),
		text.NewCol(2, value, valueProps),
	)
}

// RenderPDF lays the sheet out on one A4 landscape page.
func RenderPDF(v SheetView) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRows(
		text.NewRow(12, v.Title, props.Text{Size: 20, Style: fontstyle.Bold}),
		text.NewRow(8, v.Composition, props.Text{Size: 10, Color: mutedColor}),
		text.NewRow(8, "Fiche de coût · "+v.ConfigLabel, props.Text{Size: 11, Style: fontstyle.Italic}),
		line.NewRow(4),
		tableHeader(),
	)
	for _, r := range v.Rows {
		m.AddRows(tableRow(r))
	}

	var marginColor *props.Color
	if v.MarginAlert {
		marginColor = alertColor
	}
	m.AddRows(
		line.NewRow(4),
		figure("Coût de revient HT", v.TotalCostHT, nil),
		figure("Prix de vente TTC", v.SellingPriceTTC, nil),
		figure("Prix de vente HT", v.SellingPriceHT, nil),
		figure("Marge brute HT", v.MarginHT, marginColor),
		figure("Taux de marge", v.MarginPercent, marginColor),
		figure("Food cost", v.FoodCostPercent, nil),
		figure("Prix conseillé TTC", v.RecommendedPriceTTC, nil),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
