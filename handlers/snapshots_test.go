package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tanktuner/testhelpers"
)

func TestHandleSnapshotLoad(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Snapshot Load")

	testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID: proj.Id, ProductType: "RCT", ModelName: "Tank-A",
		FinalCost: 1000, IsOriginal: true, SavedAt: "2024-05-01 10:00:00.000Z",
	})
	adjusted := testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID: proj.Id, ProductType: "RCT", ModelName: "Tank-A",
		FinalCost: 850, SavedAt: "2024-05-02 10:00:00.000Z", Notes: "cheaper resin",
		Materials: []map[string]any{
			testhelpers.MaterialLineMap("Resin", 8.5, 100, "Kgs"),
		},
	})

	handler := HandleSnapshotLoad(app)

	req := httptest.NewRequest(http.MethodGet, "/api/snapshots/"+adjusted.Id, nil)
	req.SetPathValue("snapshotId", adjusted.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeJSON(t, rec)
	if body["model"] != "Tank-A" || body["product"] != "RCT" {
		t.Errorf("identity = %v/%v", body["product"], body["model"])
	}
	if body["final_cost"].(float64) != 850 {
		t.Errorf("final_cost = %v, want 850", body["final_cost"])
	}
	if body["notes"] != "cheaper resin" {
		t.Errorf("notes = %v", body["notes"])
	}

	comparison, ok := body["comparison"].(map[string]any)
	if !ok {
		t.Fatalf("comparison = %v, want an object", body["comparison"])
	}
	if comparison["difference"].(float64) != -150 {
		t.Errorf("comparison difference = %v, want -150", comparison["difference"])
	}
	if comparison["is_savings"] != true {
		t.Errorf("is_savings = %v, want true", comparison["is_savings"])
	}
}

func TestHandleSnapshotLoad_OriginalHasNoComparison(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Original Load")

	original := testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID: proj.Id, ProductType: "RCT", ModelName: "Tank-A",
		FinalCost: 1000, IsOriginal: true,
	})

	handler := HandleSnapshotLoad(app)

	req := httptest.NewRequest(http.MethodGet, "/api/snapshots/"+original.Id, nil)
	req.SetPathValue("snapshotId", original.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := decodeJSON(t, rec)
	if body["comparison"] != nil {
		t.Errorf("comparison = %v, want null for an original", body["comparison"])
	}
	if body["is_original"] != true {
		t.Errorf("is_original = %v, want true", body["is_original"])
	}
}

func TestHandleSnapshotLoad_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleSnapshotLoad(app)

	req := httptest.NewRequest(http.MethodGet, "/api/snapshots/nonexistent", nil)
	req.SetPathValue("snapshotId", "nonexistent")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleSnapshotDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Snapshot Delete")

	snapshot := testhelpers.CreateTestSnapshot(t, app, testhelpers.SnapshotParams{
		ProjectID: proj.Id, ProductType: "RCT", ModelName: "Tank-A",
		FinalCost: 850,
	})

	handler := HandleSnapshotDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/api/snapshots/"+snapshot.Id, nil)
	req.SetPathValue("snapshotId", snapshot.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if _, err := app.FindRecordById("model_snapshots", snapshot.Id); err == nil {
		t.Error("snapshot should be deleted")
	}
}

func TestHandleSnapshotDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	handler := HandleSnapshotDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/api/snapshots/nonexistent", nil)
	req.SetPathValue("snapshotId", "nonexistent")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
