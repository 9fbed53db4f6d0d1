package services

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pocketbase/pocketbase/core"
)

// Snapshot is the typed view of a model_snapshots record. Materials keep
// their extraction order; FinalCost is the 2-decimal value at rest.
type Snapshot struct {
	ID           string         `json:"id"`
	ProjectID    string         `json:"project"`
	SheetID      string         `json:"costing_sheet,omitempty"`
	ProductType  string         `json:"product"`
	ModelName    string         `json:"model"`
	Materials    []MaterialLine `json:"materials"`
	FinalCost    float64        `json:"final_cost"`
	IsOriginal   bool           `json:"is_original"`
	SavedAt      string         `json:"saved_at"`
	Notes        string         `json:"notes,omitempty"`
}

// Round2 rounds a cost to 2 decimal places, the precision snapshots are
// persisted with.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SumTotals returns the sum of the material line totals.
func SumTotals(materials []MaterialLine) float64 {
	var sum float64
	for _, m := range materials {
		sum += m.Total
	}
	return sum
}

// SnapshotFromRecord converts a model_snapshots record into its typed form.
func SnapshotFromRecord(record *core.Record) (*Snapshot, error) {
	materials, err := materialsFromRecord(record)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		ID:          record.Id,
		ProjectID:   record.GetString("project"),
		SheetID:     record.GetString("costing_sheet"),
		ProductType: record.GetString("product_type"),
		ModelName:   record.GetString("model_name"),
		Materials:   materials,
		FinalCost:   record.GetFloat("final_cost"),
		IsOriginal:  record.GetBool("is_original"),
		SavedAt:     record.GetDateTime("saved").String(),
		Notes:       record.GetString("notes"),
	}, nil
}

// SetSnapshotFields writes the costing payload of a snapshot onto a record.
// The final cost is always recomputed-free: the caller's value is rounded,
// never re-derived from the materials.
func SetSnapshotFields(record *core.Record, projectID, sheetID, productType, modelName string,
	materials []MaterialLine, finalCost float64, isOriginal bool, notes string) error {

	payload, err := json.Marshal(materials)
	if err != nil {
		return fmt.Errorf("marshal materials: %w", err)
	}

	record.Set("project", projectID)
	record.Set("costing_sheet", sheetID)
	record.Set("product_type", productType)
	record.Set("model_name", modelName)
	record.Set("materials", string(payload))
	record.Set("final_cost", Round2(finalCost))
	record.Set("is_original", isOriginal)
	record.Set("notes", notes)
	return nil
}

// materialsFromRecord decodes the materials JSON column. A snapshot with no
// materials decodes to an empty list, not an error.
func materialsFromRecord(record *core.Record) ([]MaterialLine, error) {
	raw := record.GetString("materials")
	if raw == "" {
		return nil, nil
	}

	var materials []MaterialLine
	if err := json.Unmarshal([]byte(raw), &materials); err != nil {
		return nil, fmt.Errorf("decode materials for snapshot %s: %w", record.Id, err)
	}
	return materials, nil
}

// FindOriginal resolves the baseline snapshot for a logical model key:
// the most recently saved record with is_original=true for the same
// (project, product_type, model_name). With multiple originals after a
// re-upload, the newest wins; this is the single tie-break rule used
// everywhere. Returns nil when no original exists.
func FindOriginal(app core.App, projectID, productType, modelName string) *core.Record {
	records, err := app.FindRecordsByFilter(
		"model_snapshots",
		"project = {:project} && product_type = {:product} && model_name = {:model} && is_original = true",
		"-saved", 1, 0,
		map[string]any{"project": projectID, "product": productType, "model": modelName},
	)
	if err != nil || len(records) == 0 {
		return nil
	}
	return records[0]
}

// FindLatest returns the most recently saved snapshot of either kind for a
// logical model key, or nil when the model is unknown. This is what the
// tuner loads: the user continues from their last saved state.
func FindLatest(app core.App, projectID, productType, modelName string) *core.Record {
	records, err := app.FindRecordsByFilter(
		"model_snapshots",
		"project = {:project} && product_type = {:product} && model_name = {:model}",
		"-saved", 1, 0,
		map[string]any{"project": projectID, "product": productType, "model": modelName},
	)
	if err != nil || len(records) == 0 {
		return nil
	}
	return records[0]
}
