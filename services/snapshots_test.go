package services

import (
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"tanktuner/testhelpers"
)

func TestSnapshotFromRecord(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Snapshot Project")
	sheet := testhelpers.CreateTestCostingSheet(t, app, project.Id, "costing.xlsx")

	record := testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID:   project.Id,
		SheetID:     sheet.Id,
		ProductType: "RCT",
		ModelName:   "Tank-500L",
		FinalCost:   1560.5,
		IsOriginal:  true,
		Notes:       "from upload",
		SavedAt:     "2024-07-01 10:00:00.000Z",
		Materials: []map[string]any{
			testhelpers.MaterialLineMap("Resin", 10.5, 100, "Kgs"),
			testhelpers.MaterialLineMap("Gelcoat", 2, 255.25, "Kg"),
		},
	})

	snapshot, err := SnapshotFromRecord(record)
	if err != nil {
		t.Fatalf("SnapshotFromRecord() error = %v", err)
	}

	if snapshot.ID != record.Id {
		t.Errorf("ID = %q, want %q", snapshot.ID, record.Id)
	}
	if snapshot.ProjectID != project.Id || snapshot.SheetID != sheet.Id {
		t.Errorf("relations = %q/%q, want %q/%q", snapshot.ProjectID, snapshot.SheetID, project.Id, sheet.Id)
	}
	if snapshot.ProductType != "RCT" || snapshot.ModelName != "Tank-500L" {
		t.Errorf("identity = %q/%q", snapshot.ProductType, snapshot.ModelName)
	}
	if !snapshot.IsOriginal {
		t.Error("IsOriginal = false, want true")
	}
	if snapshot.FinalCost != 1560.5 {
		t.Errorf("FinalCost = %v, want 1560.5", snapshot.FinalCost)
	}
	if snapshot.Notes != "from upload" {
		t.Errorf("Notes = %q", snapshot.Notes)
	}

	if len(snapshot.Materials) != 2 {
		t.Fatalf("len(Materials) = %d, want 2", len(snapshot.Materials))
	}
	resin := snapshot.Materials[0]
	if resin.Name != "Resin" || resin.Quantity != 10.5 || resin.Rate != 100 || resin.Unit != "Kgs" || resin.Total != 1050 {
		t.Errorf("Materials[0] = %+v", resin)
	}
}

func TestSnapshotFromRecordEmptyMaterials(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Empty Materials")

	record := testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID:   project.Id,
		ProductType: "RCT",
		ModelName:   "Tank-Bare",
	})

	snapshot, err := SnapshotFromRecord(record)
	if err != nil {
		t.Fatalf("SnapshotFromRecord() error = %v", err)
	}
	if len(snapshot.Materials) != 0 {
		t.Errorf("Materials = %v, want empty", snapshot.Materials)
	}
}

func TestSetSnapshotFieldsRoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Round Trip")
	sheet := testhelpers.CreateTestCostingSheet(t, app, project.Id, "costing.xlsx")

	col, err := app.FindCollectionByNameOrId("model_snapshots")
	if err != nil {
		t.Fatalf("failed to find model_snapshots: %v", err)
	}

	materials := []MaterialLine{
		{Name: "Resin", Quantity: 3, Rate: 33.333, Unit: "Kgs", Total: 99.999},
	}

	record := core.NewRecord(col)
	if err := SetSnapshotFields(record, project.Id, sheet.Id, "RCT", "Tank-RT", materials, 99.999, false, "tuned"); err != nil {
		t.Fatalf("SetSnapshotFields() error = %v", err)
	}
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}

	loaded, err := app.FindRecordById("model_snapshots", record.Id)
	if err != nil {
		t.Fatalf("failed to reload snapshot: %v", err)
	}

	snapshot, err := SnapshotFromRecord(loaded)
	if err != nil {
		t.Fatalf("SnapshotFromRecord() error = %v", err)
	}

	// cost persists rounded to 2 decimals, material lines keep raw precision
	if snapshot.FinalCost != 100 {
		t.Errorf("FinalCost = %v, want 100", snapshot.FinalCost)
	}
	if len(snapshot.Materials) != 1 || snapshot.Materials[0].Rate != 33.333 {
		t.Errorf("Materials = %+v", snapshot.Materials)
	}
	if snapshot.IsOriginal {
		t.Error("IsOriginal = true, want false")
	}
	if snapshot.Notes != "tuned" {
		t.Errorf("Notes = %q, want \"tuned\"", snapshot.Notes)
	}
}

func TestFindOriginal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Find Original")

	testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID: project.Id, ProductType: "RCT", ModelName: "Tank-F",
		FinalCost: 1000, IsOriginal: true, SavedAt: "2024-07-01 10:00:00.000Z",
	})
	// an adjusted snapshot never counts as baseline
	testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID: project.Id, ProductType: "RCT", ModelName: "Tank-F",
		FinalCost: 900, SavedAt: "2024-07-02 10:00:00.000Z",
	})
	// the re-uploaded original supersedes the first one
	newest := testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID: project.Id, ProductType: "RCT", ModelName: "Tank-F",
		FinalCost: 1200, IsOriginal: true, SavedAt: "2024-07-03 10:00:00.000Z",
	})

	got := FindOriginal(app, project.Id, "RCT", "Tank-F")
	if got == nil {
		t.Fatal("FindOriginal() = nil, want the newest original")
	}
	if got.Id != newest.Id {
		t.Errorf("FindOriginal() id = %q, want %q", got.Id, newest.Id)
	}

	if got := FindOriginal(app, project.Id, "RCT", "Tank-Unknown"); got != nil {
		t.Errorf("FindOriginal(unknown model) = %v, want nil", got)
	}
	if got := FindOriginal(app, project.Id, "PVC", "Tank-F"); got != nil {
		t.Errorf("FindOriginal(other product) = %v, want nil", got)
	}
}

func TestFindLatest(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Find Latest")

	testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID: project.Id, ProductType: "RCT", ModelName: "Tank-L",
		FinalCost: 1000, IsOriginal: true, SavedAt: "2024-07-01 10:00:00.000Z",
	})
	adjusted := testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID: project.Id, ProductType: "RCT", ModelName: "Tank-L",
		FinalCost: 900, SavedAt: "2024-07-02 10:00:00.000Z",
	})

	got := FindLatest(app, project.Id, "RCT", "Tank-L")
	if got == nil {
		t.Fatal("FindLatest() = nil, want the adjusted snapshot")
	}
	if got.Id != adjusted.Id {
		t.Errorf("FindLatest() id = %q, want %q", got.Id, adjusted.Id)
	}

	if got := FindLatest(app, project.Id, "RCT", "Tank-Unknown"); got != nil {
		t.Errorf("FindLatest(unknown model) = %v, want nil", got)
	}
}
