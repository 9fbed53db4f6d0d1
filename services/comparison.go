package services

import "github.com/pocketbase/pocketbase/core"

// Comparison quantifies an adjusted snapshot against its baseline.
// Difference keeps its raw sign: positive means the adjustment costs more
// than the original. Callers that want a positive "savings amount" negate
// it themselves.
type Comparison struct {
	OriginalCost float64 `json:"original_cost"`
	CurrentCost  float64 `json:"current_cost"`
	Difference   float64 `json:"difference"`
	Percentage   float64 `json:"percentage"`
	IsSavings    bool    `json:"is_savings"`
}

// Compare computes the cost delta between a candidate cost and its
// baseline. A zero baseline yields a zero percentage rather than a division
// error.
func Compare(currentCost, originalCost float64) Comparison {
	difference := currentCost - originalCost

	var percentage float64
	if originalCost != 0 {
		percentage = difference / originalCost * 100
	}

	return Comparison{
		OriginalCost: originalCost,
		CurrentCost:  currentCost,
		Difference:   difference,
		Percentage:   percentage,
		IsSavings:    difference < 0,
	}
}

// CompareWithOriginal resolves the baseline for an adjusted snapshot record
// and compares against it. Returns nil for original snapshots (nothing to
// compare against) and when no baseline exists for the model key; neither
// case is an error.
func CompareWithOriginal(app core.App, snapshot *core.Record) *Comparison {
	if snapshot.GetBool("is_original") {
		return nil
	}

	original := FindOriginal(app,
		snapshot.GetString("project"),
		snapshot.GetString("product_type"),
		snapshot.GetString("model_name"),
	)
	if original == nil {
		return nil
	}

	cmp := Compare(snapshot.GetFloat("final_cost"), original.GetFloat("final_cost"))
	return &cmp
}
