package services

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase/core"
)

// Optimization is one adjusted snapshot that came in under its baseline.
// Savings and Percentage are reported as positive magnitudes.
type Optimization struct {
	Model      string  `json:"model"`
	Savings    float64 `json:"savings"`
	Percentage float64 `json:"percentage"`
	SavedAt    string  `json:"saved_at"`
}

// Stats summarizes the optimization work across adjusted snapshots.
type Stats struct {
	TotalModelsOptimized     int            `json:"total_models_optimized"`
	TotalSnapshots           int            `json:"total_snapshots"`
	TotalSavings             float64        `json:"total_savings"`
	AverageSavingsPercentage float64        `json:"average_savings_percentage"`
	BestOptimization         *Optimization  `json:"best_optimization"`
	RecentOptimizations      []Optimization `json:"recent_optimizations"`
}

// Trend holds parallel series for one model's adjusted snapshots over time.
// Savings entries are zero for adjustments that cost more than the baseline.
type Trend struct {
	Dates   []string  `json:"dates"`
	Savings []float64 `json:"savings"`
	Costs   []float64 `json:"costs"`
}

// ModelSavings compares a model's baseline against its latest adjustment.
type ModelSavings struct {
	Model         string  `json:"model"`
	OriginalCost  float64 `json:"original_cost"`
	OptimizedCost float64 `json:"optimized_cost"`
	Savings       float64 `json:"savings"`
	Percentage    float64 `json:"percentage"`
}

// MaterialAggregate accumulates one material's cost across snapshots.
type MaterialAggregate struct {
	Name        string  `json:"name"`
	TotalCost   float64 `json:"total_cost"`
	AverageCost float64 `json:"average_cost"`
	Frequency   int     `json:"frequency"`
}

// Breakdown is the per-material cost split of a single snapshot, largest
// lines first, capped at the top 10.
type Breakdown struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Total  float64   `json:"total"`
}

const (
	recentOptimizationsLimit = 5
	breakdownLimit           = 10
	topMaterialsLimit        = 15
)

// scopedFilter narrows a snapshot filter to one project when projectID is
// set; an empty projectID means all projects.
func scopedFilter(base string, projectID string, params map[string]any) (string, map[string]any) {
	if projectID == "" {
		return base, params
	}
	params["scopeProject"] = projectID
	if base == "" {
		return "project = {:scopeProject}", params
	}
	return base + " && project = {:scopeProject}", params
}

// StatsSummary computes overall optimization statistics from adjusted
// snapshots. Only adjustments that actually saved money contribute to the
// savings figures; the snapshot and model counts include every adjustment.
func StatsSummary(app core.App, projectID string) (*Stats, error) {
	filter, params := scopedFilter("is_original = false", projectID, map[string]any{})

	adjusted, err := app.FindRecordsByFilter("model_snapshots", filter, "-saved", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("load adjusted snapshots: %w", err)
	}

	stats := &Stats{
		TotalSnapshots:      len(adjusted),
		RecentOptimizations: []Optimization{},
	}

	modelNames := map[string]bool{}
	var savings []Optimization

	for _, snapshot := range adjusted {
		modelNames[snapshot.GetString("model_name")] = true

		cmp := CompareWithOriginal(app, snapshot)
		if cmp == nil || !cmp.IsSavings {
			continue
		}
		savings = append(savings, Optimization{
			Model:      snapshot.GetString("model_name"),
			Savings:    -cmp.Difference,
			Percentage: -cmp.Percentage,
			SavedAt:    snapshot.GetDateTime("saved").Time().Format("2006-01-02 15:04"),
		})
	}
	stats.TotalModelsOptimized = len(modelNames)

	if len(savings) == 0 {
		return stats, nil
	}

	var totalPct float64
	best := 0
	for i, s := range savings {
		stats.TotalSavings += s.Savings
		totalPct += s.Percentage
		if s.Savings > savings[best].Savings {
			best = i
		}
	}
	stats.AverageSavingsPercentage = totalPct / float64(len(savings))
	stats.BestOptimization = &savings[best]

	// adjusted came back saved-descending, so savings is already in
	// recency order
	if len(savings) > recentOptimizationsLimit {
		savings = savings[:recentOptimizationsLimit]
	}
	stats.RecentOptimizations = savings

	return stats, nil
}

// SavingsTrend returns the chronological cost series for one model's
// adjustments. Snapshots with no baseline to compare against are skipped.
func SavingsTrend(app core.App, projectID, modelName string) (*Trend, error) {
	filter, params := scopedFilter(
		"model_name = {:model} && is_original = false",
		projectID,
		map[string]any{"model": modelName},
	)

	snapshots, err := app.FindRecordsByFilter("model_snapshots", filter, "saved", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("load trend snapshots for %s: %w", modelName, err)
	}

	trend := &Trend{
		Dates:   []string{},
		Savings: []float64{},
		Costs:   []float64{},
	}

	for _, snapshot := range snapshots {
		cmp := CompareWithOriginal(app, snapshot)
		if cmp == nil {
			continue
		}

		saved := float64(0)
		if cmp.IsSavings {
			saved = -cmp.Difference
		}

		trend.Dates = append(trend.Dates, snapshot.GetDateTime("saved").Time().Format("Jan 02, 15:04"))
		trend.Savings = append(trend.Savings, saved)
		trend.Costs = append(trend.Costs, snapshot.GetFloat("final_cost"))
	}

	return trend, nil
}

// ModelComparison lines up each model's baseline against its most recent
// adjustment and reports the ones that saved money, biggest savings first.
// Models with only originals, or whose latest adjustment costs more, are
// left out.
func ModelComparison(app core.App, projectID string) ([]ModelSavings, error) {
	filter, params := scopedFilter("", projectID, map[string]any{})

	snapshots, err := app.FindRecordsByFilter("model_snapshots", filter, "-saved", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}

	type modelKey struct {
		project string
		product string
		model   string
	}

	// snapshots are saved-descending, so the first adjusted record seen
	// per key is that key's latest adjustment
	latestAdjusted := map[modelKey]*core.Record{}
	var keys []modelKey
	for _, snapshot := range snapshots {
		if snapshot.GetBool("is_original") {
			continue
		}
		key := modelKey{
			project: snapshot.GetString("project"),
			product: snapshot.GetString("product_type"),
			model:   snapshot.GetString("model_name"),
		}
		if _, seen := latestAdjusted[key]; seen {
			continue
		}
		latestAdjusted[key] = snapshot
		keys = append(keys, key)
	}

	var results []ModelSavings
	for _, key := range keys {
		adjusted := latestAdjusted[key]
		original := FindOriginal(app, key.project, key.product, key.model)
		if original == nil {
			continue
		}

		cmp := Compare(adjusted.GetFloat("final_cost"), original.GetFloat("final_cost"))
		if !cmp.IsSavings {
			continue
		}

		results = append(results, ModelSavings{
			Model:         key.model,
			OriginalCost:  cmp.OriginalCost,
			OptimizedCost: cmp.CurrentCost,
			Savings:       -cmp.Difference,
			Percentage:    -cmp.Percentage,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Savings > results[j].Savings
	})

	return results, nil
}

// TopMaterials aggregates material line totals across every snapshot in
// scope and returns the heaviest cost contributors, capped at 15. Ties
// break alphabetically so the ordering is stable.
func TopMaterials(app core.App, projectID string) ([]MaterialAggregate, error) {
	filter, params := scopedFilter("", projectID, map[string]any{})

	snapshots, err := app.FindRecordsByFilter("model_snapshots", filter, "-saved", 0, 0, params)
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}

	totals := map[string]*MaterialAggregate{}
	for _, snapshot := range snapshots {
		materials, err := materialsFromRecord(snapshot)
		if err != nil {
			return nil, err
		}
		for _, line := range materials {
			agg, ok := totals[line.Name]
			if !ok {
				agg = &MaterialAggregate{Name: line.Name}
				totals[line.Name] = agg
			}
			agg.TotalCost += line.Total
			agg.Frequency++
		}
	}

	results := make([]MaterialAggregate, 0, len(totals))
	for _, agg := range totals {
		agg.AverageCost = agg.TotalCost / float64(agg.Frequency)
		results = append(results, *agg)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalCost != results[j].TotalCost {
			return results[i].TotalCost > results[j].TotalCost
		}
		return results[i].Name < results[j].Name
	})

	if len(results) > topMaterialsLimit {
		results = results[:topMaterialsLimit]
	}
	return results, nil
}

// MaterialBreakdown splits one snapshot's cost by material, largest lines
// first, capped at the top 10.
func MaterialBreakdown(app core.App, snapshotID string) (*Breakdown, error) {
	snapshot, err := app.FindRecordById("model_snapshots", snapshotID)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snapshotID, err)
	}

	materials, err := materialsFromRecord(snapshot)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(materials, func(i, j int) bool {
		return materials[i].Total > materials[j].Total
	})
	if len(materials) > breakdownLimit {
		materials = materials[:breakdownLimit]
	}

	breakdown := &Breakdown{
		Labels: make([]string, 0, len(materials)),
		Values: make([]float64, 0, len(materials)),
		Total:  snapshot.GetFloat("final_cost"),
	}
	for _, line := range materials {
		breakdown.Labels = append(breakdown.Labels, line.Name)
		breakdown.Values = append(breakdown.Values, line.Total)
	}

	return breakdown, nil
}
