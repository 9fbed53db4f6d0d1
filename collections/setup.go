package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the projects, costing_sheets and
// model_snapshots collections exist.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "created_by", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_active"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	costingSheets := ensureCollection(app, "costing_sheets", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.FileField{Name: "file", MaxSelect: 1, MaxSize: 10 << 20})
		c.Fields.Add(&core.TextField{Name: "original_filename", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_models"})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "uploaded", OnCreate: true})
	})

	ensureCollection(app, "model_snapshots", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		// The sheet reference is a nullable back-reference: adjusted
		// snapshots must survive sheet deletion, so no cascade here.
		c.Fields.Add(&core.RelationField{
			Name:          "costing_sheet",
			Required:      false,
			CollectionId:  costingSheets.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "product_type", Required: true})
		c.Fields.Add(&core.TextField{Name: "model_name", Required: true})
		c.Fields.Add(&core.JSONField{Name: "materials", MaxSize: 1 << 20})
		c.Fields.Add(&core.NumberField{Name: "final_cost"})
		c.Fields.Add(&core.BoolField{Name: "is_original"})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		// Set explicitly at creation so re-upload ordering is under the
		// application's control. Snapshots are never updated in place.
		c.Fields.Add(&core.DateField{Name: "saved", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
