package services

import (
	"fmt"
	"math"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
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

// ComparisonPDF renders a before/after cost report between a baseline
// snapshot and an adjusted one using maroto/v2. It returns the raw PDF
// bytes or an error.
func ComparisonPDF(original, current *Snapshot) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	cmp := Compare(current.FinalCost, original.FinalCost)

	addComparisonHeader(m, current)
	addComparisonSummary(m, cmp)
	addComparisonTableHeader(m)

	currentByName := make(map[string]MaterialLine, len(current.Materials))
	for _, line := range current.Materials {
		currentByName[line.Name] = line
	}
	for _, orig := range original.Materials {
		curr, ok := currentByName[orig.Name]
		if !ok {
			curr = orig
		}
		addComparisonRow(m, orig, curr)
	}

	addComparisonFooter(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addComparisonHeader adds the title and model identity rows.
func addComparisonHeader(m core.Maroto, current *Snapshot) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(current.ModelName+" - Cost Comparison", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Product Type: %s", current.ProductType), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Saved: %s", current.SavedAt), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	// Spacer
	m.AddRows(row.New(4))
}

// addComparisonSummary adds the cost totals block above the material table.
// The savings line goes green when the adjustment is cheaper, red otherwise.
func addComparisonSummary(m core.Maroto, cmp Comparison) {
	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New("Original Cost", labelStyle),
			).WithStyle(summaryCell),
			col.New(4).Add(
				text.New(FormatINR(cmp.OriginalCost), valueStyle),
			).WithStyle(summaryCell),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New("Optimized Cost", labelStyle),
			).WithStyle(summaryCell),
			col.New(4).Add(
				text.New(FormatINR(cmp.CurrentCost), valueStyle),
			).WithStyle(summaryCell),
		),
	)

	savingsColor := &props.Color{Red: 180, Green: 40, Blue: 40}
	savingsLabel := "Cost Increase"
	savingsValue := cmp.Difference
	if cmp.IsSavings {
		savingsColor = &props.Color{Red: 30, Green: 120, Blue: 60}
		savingsLabel = "Savings"
		savingsValue = -cmp.Difference
	}
	savingsStyle := valueStyle
	savingsStyle.Color = savingsColor

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New(fmt.Sprintf("%s (%.2f%%)", savingsLabel, math.Abs(cmp.Percentage)), labelStyle),
			).WithStyle(summaryCell),
			col.New(4).Add(
				text.New(FormatINR(savingsValue), savingsStyle),
			).WithStyle(summaryCell),
		),
	)

	// Spacer
	m.AddRows(row.New(4))
}

// addComparisonTableHeader adds the column header row for the material table.
func addComparisonTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(2).Add(
				text.New("Material", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Orig Qty", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Orig Rate", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Orig Total", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("New Qty", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("New Rate", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("New Total", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Difference", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addComparisonRow adds one material's before/after line. Changed lines get
// a light highlight so differences stand out when scanning.
func addComparisonRow(m core.Maroto, orig, curr MaterialLine) {
	diff := curr.Total - orig.Total

	var cellStyle *props.Cell
	if diff != 0 {
		bg := &props.Color{Red: 245, Green: 245, Blue: 235}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{
		Size:  7,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	diffText := rightText
	if diff < 0 {
		diffText.Color = &props.Color{Red: 30, Green: 120, Blue: 60}
	} else if diff > 0 {
		diffText.Color = &props.Color{Red: 180, Green: 40, Blue: 40}
	}

	colName := col.New(2).Add(text.New(orig.Name, leftText))
	colOrigQty := col.New(1).Add(text.New(formatQty(orig.Quantity), rightText))
	colOrigRate := col.New(1).Add(text.New(formatQty(orig.Rate), rightText))
	colOrigTotal := col.New(2).Add(text.New(FormatINR(orig.Total), rightText))
	colNewQty := col.New(1).Add(text.New(formatQty(curr.Quantity), rightText))
	colNewRate := col.New(1).Add(text.New(formatQty(curr.Rate), rightText))
	colNewTotal := col.New(2).Add(text.New(FormatINR(curr.Total), rightText))
	colDiff := col.New(2).Add(text.New(FormatINR(diff), diffText))

	if cellStyle != nil {
		colName = colName.WithStyle(cellStyle)
		colOrigQty = colOrigQty.WithStyle(cellStyle)
		colOrigRate = colOrigRate.WithStyle(cellStyle)
		colOrigTotal = colOrigTotal.WithStyle(cellStyle)
		colNewQty = colNewQty.WithStyle(cellStyle)
		colNewRate = colNewRate.WithStyle(cellStyle)
		colNewTotal = colNewTotal.WithStyle(cellStyle)
		colDiff = colDiff.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colName,
			colOrigQty,
			colOrigRate,
			colOrigTotal,
			colNewQty,
			colNewRate,
			colNewTotal,
			colDiff,
		),
	)
}

// addComparisonFooter adds the generated-date line at the bottom.
func addComparisonFooter(m core.Maroto) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", time.Now().Format("Jan 02, 2006 15:04")),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}
