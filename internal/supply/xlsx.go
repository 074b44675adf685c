package supply

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"smashcost-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Stock"

var exportHeader = []interface{}{"Nom", "Fournisseur", "Prix colis HT", "Quantité", "Unité", "Coût unitaire HT"}

// ImportResult - outcome of a spreadsheet import
type ImportResult struct {
	Catalog Catalog  `json:"-"`
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}

// normalizeName folds accents and case so that "Pain Brioché" matches "PAIN BRIOCHE".
func normalizeName(s string) string {
	replacements := map[rune]string{
		'à': "a", 'â': "a", 'ä': "a",
		'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
		'î': "i", 'ï': "i",
		'ô': "o", 'ö': "o",
		'ù': "u", 'û': "u", 'ü': "u",
		'ç': "c", 'œ': "oe",
	}

	var result strings.Builder
	for _, r := range strings.ToLower(s) {
		if replacement, ok := replacements[r]; ok {
			result.WriteString(replacement)
		} else {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// parseAmount accepts both "11.50" and "11,50". NaN and infinities are refused.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "€")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not a finite number", s)
	}
	return v, nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimSpace(row[0]))
	return strings.Contains(first, "NOM") || strings.Contains(first, "NAME") || strings.Contains(first, "PRODUIT")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// ImportXLSX reads the first sheet (name, supplier, package price, quantity, unit)
// and merges it into current. Rows whose name matches an existing item update it
// in place, keeping its id; the others are added with an id from newID.
func ImportXLSX(r io.Reader, current Catalog, newID func() string) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, fmt.Errorf("no sheet in workbook")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	res := ImportResult{Catalog: current, Skipped: []string{}}

	start := 0
	if len(rows) > 0 && isHeaderRow(rows[0]) {
		start = 1
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		name := cell(row, 0)
		if name == "" {
			continue
		}

		price, errPrice := parseAmount(cell(row, 2))
		qty, errQty := parseAmount(cell(row, 3))
		if errPrice != nil || errQty != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("ligne %d: %s", i+1, name))
			continue
		}

		item := Normalize(models.SupplyItem{
			Name:            name,
			Supplier:        cell(row, 1),
			PackagePrice:    price,
			PackageQuantity: qty,
			UnitLabel:       cell(row, 4),
		})
		if !Validate(item).Empty() {
			res.Skipped = append(res.Skipped, fmt.Sprintf("ligne %d: %s", i+1, name))
			continue
		}

		if existing, ok := res.Catalog.findByName(name); ok {
			item.ID = existing.ID
			res.Catalog = res.Catalog.Update(item)
			res.Updated++
			continue
		}

		item.ID = newID()
		res.Catalog = res.Catalog.Add(item)
		res.Added++
	}

	return res, nil
}

func (c Catalog) findByName(name string) (models.SupplyItem, bool) {
	key := normalizeName(name)
	for _, item := range c {
		if normalizeName(item.Name) == key {
			return item, true
		}
	}
	return models.SupplyItem{}, false
}

// ExportXLSX writes the catalog as a single-sheet workbook, in the column
// order ImportXLSX reads back.
func ExportXLSX(c Catalog) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, item := range c {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			item.Name,
			item.Supplier,
			item.PackagePrice,
			item.PackageQuantity,
			item.UnitLabel,
			item.UnitCost(),
		}
		if err := f.SetSheetRow(exportSheet, cellName, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "A", 32); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
