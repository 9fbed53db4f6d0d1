package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerRowCount is the number of leading rows in the costing sheet that
// carry headings rather than model data.
const headerRowCount = 4

// MaterialLine is one extracted bill-of-materials entry for a model.
// Total is computed once at extraction time and never recomputed, so stored
// snapshots stay stable even if the catalog changes meaning later.
type MaterialLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Rate     float64 `json:"rate"`
	Unit     string  `json:"unit"`
	Total    float64 `json:"total"`
}

// ModelRecord is the structured costing for one tank model row.
type ModelRecord struct {
	Product   string         `json:"product"`
	Model     string         `json:"model"`
	Materials []MaterialLine `json:"materials"`
	FinalCost float64        `json:"final_cost"`
}

// ParseCostingSheet reads an xlsx costing sheet and returns the extracted
// models keyed by product type and model name.
//
// Only file-level problems are errors. Rows without a model name are
// skipped, materials with a missing or unparseable quantity or rate are
// omitted from their row, and a duplicate (product, model) key is resolved
// last-write-wins.
func ParseCostingSheet(r io.Reader) (map[string]map[string]ModelRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open costing sheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("costing sheet has no worksheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	parsed := make(map[string]map[string]ModelRecord)

	for i, row := range rows {
		if i < headerRowCount {
			continue
		}
		if rowIsEmpty(row) {
			continue
		}

		modelName := strings.TrimSpace(cellAt(row, 0))
		if modelName == "" {
			// Not a model row; spacer and section rows are normal.
			continue
		}

		productType := productTypeFor(row)

		record := ModelRecord{
			Product: productType,
			Model:   modelName,
		}

		for _, spec := range AllMaterials() {
			line, ok := materialLineAt(row, spec)
			if !ok {
				continue
			}
			record.Materials = append(record.Materials, line)
			record.FinalCost += line.Total
		}

		if parsed[productType] == nil {
			parsed[productType] = make(map[string]ModelRecord)
		}
		parsed[productType][modelName] = record
	}

	return parsed, nil
}

// productTypeFor derives the product type for a data row. The current sheet
// layout carries a single product, but keeping the derivation per-row lets
// a multi-product layout slot in without touching the extraction loop.
func productTypeFor(_ []string) string {
	return ProductTypeRCT
}

// materialLineAt extracts one material from a row using its column spec.
// The second return value is false when either the quantity or the rate
// cell is absent or not a number, which simply means the model does not use
// that material.
func materialLineAt(row []string, spec MaterialFieldSpec) (MaterialLine, bool) {
	qty, ok := numericCellAt(row, spec.QtyCol)
	if !ok {
		return MaterialLine{}, false
	}
	rate, ok := numericCellAt(row, spec.RateCol)
	if !ok {
		return MaterialLine{}, false
	}

	return MaterialLine{
		Name:     spec.Name,
		Quantity: qty,
		Rate:     rate,
		Unit:     spec.Unit,
		Total:    qty * rate,
	}, true
}

// cellAt returns the cell value at idx, or "" when the row is shorter than
// idx. excelize trims trailing empty cells per row, so out-of-range access
// is routine rather than exceptional.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// numericCellAt reads a cell as a float. Absent or non-numeric cells report
// ok=false rather than an error.
func numericCellAt(row []string, idx int) (float64, bool) {
	raw := strings.TrimSpace(cellAt(row, idx))
	if raw == "" {
		return 0, false
	}
	// The sheet sometimes carries thousands separators in rate columns.
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// CountModels sums the model records across all product types of a parse
// result.
func CountModels(parsed map[string]map[string]ModelRecord) int {
	n := 0
	for _, models := range parsed {
		n += len(models)
	}
	return n
}
