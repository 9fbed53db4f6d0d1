package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"tanktuner/collections"
	"tanktuner/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and run data migrations on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.DetachOrphanAdjustedSnapshots(app); err != nil {
			log.Printf("Warning: snapshot migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.RequestLogger())

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/api/projects", handlers.HandleProjectList(app))
		se.Router.POST("/api/projects", handlers.HandleProjectCreate(app))
		se.Router.GET("/api/projects/{id}", handlers.HandleProjectDetail(app))
		se.Router.DELETE("/api/projects/{id}", handlers.HandleProjectDelete(app))

		// ── Upload and sheets ────────────────────────────────────
		se.Router.POST("/api/projects/{id}/upload", handlers.HandleUpload(app))
		se.Router.DELETE("/api/projects/{id}/sheets/{sheetId}", handlers.HandleSheetDelete(app))

		// ── Tuner ────────────────────────────────────────────────
		se.Router.GET("/api/projects/{id}/products", handlers.HandleProducts(app))
		se.Router.GET("/api/projects/{id}/models", handlers.HandleModels(app))
		se.Router.GET("/api/projects/{id}/model-data", handlers.HandleModelData(app))
		se.Router.POST("/api/projects/{id}/save-snapshot", handlers.HandleSaveSnapshot(app))
		se.Router.GET("/api/projects/{id}/saved-models", handlers.HandleSavedModels(app))

		// ── Snapshots ────────────────────────────────────────────
		se.Router.GET("/api/snapshots/{snapshotId}", handlers.HandleSnapshotLoad(app))
		se.Router.DELETE("/api/snapshots/{snapshotId}", handlers.HandleSnapshotDelete(app))

		// ── Exports ──────────────────────────────────────────────
		se.Router.GET("/api/snapshots/{snapshotId}/export/csv", handlers.HandleExportModelCSV(app))
		se.Router.GET("/api/snapshots/{snapshotId}/export/xlsx", handlers.HandleExportSnapshotExcel(app))
		se.Router.GET("/api/snapshots/{snapshotId}/export/comparison-csv", handlers.HandleExportComparisonCSV(app))
		se.Router.GET("/api/snapshots/{snapshotId}/export/comparison-pdf", handlers.HandleExportComparisonPDF(app))

		// ── Analytics ────────────────────────────────────────────
		se.Router.GET("/api/analytics/stats", handlers.HandleAnalyticsStats(app))
		se.Router.GET("/api/analytics/savings-trend", handlers.HandleSavingsTrend(app))
		se.Router.GET("/api/analytics/model-comparison", handlers.HandleModelComparison(app))
		se.Router.GET("/api/analytics/top-materials", handlers.HandleTopMaterials(app))
		se.Router.GET("/api/analytics/material-breakdown", handlers.HandleMaterialBreakdown(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
