// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"encoding/json"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"tanktuner/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates an active project record with the given name.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("client_name", "Test Client")
	record.Set("is_active", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestCostingSheet creates a costing sheet record linked to a project.
func CreateTestCostingSheet(t *testing.T, app *pocketbase.PocketBase, projectID, filename string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("costing_sheets")
	if err != nil {
		t.Fatalf("failed to find costing_sheets collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("original_filename", filename)
	record.Set("total_models", 0)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test costing sheet: %v", err)
	}

	return record
}

// SnapshotParams describes a model snapshot for test creation. Zero-value
// fields fall back to sensible defaults; SavedAt defaults to now.
type SnapshotParams struct {
	ProjectID   string
	SheetID     string
	ProductType string
	ModelName   string
	Materials   []map[string]any
	FinalCost   float64
	IsOriginal  bool
	Notes       string
	SavedAt     string
}

// CreateTestSnapshot creates a model snapshot record.
func CreateTestSnapshot(t *testing.T, app *pocketbase.PocketBase, params SnapshotParams) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("model_snapshots")
	if err != nil {
		t.Fatalf("failed to find model_snapshots collection: %v", err)
	}

	materials := params.Materials
	if materials == nil {
		materials = []map[string]any{}
	}
	payload, err := json.Marshal(materials)
	if err != nil {
		t.Fatalf("failed to marshal test materials: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", params.ProjectID)
	record.Set("costing_sheet", params.SheetID)
	record.Set("product_type", params.ProductType)
	record.Set("model_name", params.ModelName)
	record.Set("materials", string(payload))
	record.Set("final_cost", params.FinalCost)
	record.Set("is_original", params.IsOriginal)
	record.Set("notes", params.Notes)

	if params.SavedAt != "" {
		record.Set("saved", params.SavedAt)
	} else {
		record.Set("saved", types.NowDateTime())
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test snapshot: %v", err)
	}

	return record
}

// MaterialLineMap builds one material entry in the JSON shape snapshots
// store.
func MaterialLineMap(name string, quantity, rate float64, unit string) map[string]any {
	return map[string]any{
		"name":     name,
		"quantity": quantity,
		"rate":     rate,
		"unit":     unit,
		"total":    quantity * rate,
	}
}
