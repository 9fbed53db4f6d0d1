package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// ModelCSV renders one snapshot as a line-item cost sheet: a small header
// block, one row per material, and a FINAL TOTAL row.
func ModelCSV(snapshot *Snapshot) ([]byte, error) {
	rows := [][]string{
		{"TankTuner Cost Export"},
		{"Product Type:", snapshot.ProductType},
		{"Model:", snapshot.ModelName},
		{},
		{"Material Name", "Quantity", "Unit", "Rate (₹)", "Total Cost (₹)"},
	}

	for _, line := range snapshot.Materials {
		rows = append(rows, []string{
			line.Name,
			formatNumber(line.Quantity),
			line.Unit,
			formatNumber(line.Rate),
			formatNumber(line.Total),
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"FINAL TOTAL COST", "", "", "", FormatINR(snapshot.FinalCost)},
	)

	return writeCSV(rows)
}

// ComparisonCSV renders a before/after report between a baseline snapshot
// and an adjusted one. The summary savings line keeps the raw sign of the
// difference: negative means the adjustment is cheaper. Materials missing
// from the adjusted snapshot fall back to their original line, so their
// difference reads as zero.
func ComparisonCSV(original, current *Snapshot) ([]byte, error) {
	cmp := Compare(current.FinalCost, original.FinalCost)

	rows := [][]string{
		{"TankTuner Cost Comparison Report"},
		{},
		{"SUMMARY"},
		{"Original Cost:", FormatINR(cmp.OriginalCost)},
		{"Optimized Cost:", FormatINR(cmp.CurrentCost)},
		{"Savings:", fmt.Sprintf("%s (%.2f%%)", FormatINR(cmp.Difference), cmp.Percentage)},
		{},
		{
			"Material Name",
			"Original Qty", "Original Rate", "Original Total",
			"New Qty", "New Rate", "New Total",
			"Difference",
		},
	}

	currentByName := make(map[string]MaterialLine, len(current.Materials))
	for _, line := range current.Materials {
		currentByName[line.Name] = line
	}

	for _, orig := range original.Materials {
		curr, ok := currentByName[orig.Name]
		if !ok {
			curr = orig
		}
		rows = append(rows, []string{
			orig.Name,
			formatNumber(orig.Quantity), formatNumber(orig.Rate), formatNumber(orig.Total),
			formatNumber(curr.Quantity), formatNumber(curr.Rate), formatNumber(curr.Total),
			formatNumber(curr.Total - orig.Total),
		})
	}

	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
