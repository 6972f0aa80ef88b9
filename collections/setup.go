package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// jsonMaxSize bounds the JSON fields holding options and quote items.
const jsonMaxSize = 5 << 20

// Setup programmatically creates/ensures the customers, materials,
// equipment_items, estimates and quotes collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "first_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "last_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "item", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  true,
			Values:    []string{"Bitumen", "Asphalt", "Roadbase", "Stone"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "formula", Required: false})
		c.Fields.Add(&core.TextField{Name: "measurement", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	equipment := ensureCollection(app, "equipment_items", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.BoolField{Name: "unit_price_set"})
		c.Fields.Add(&core.NumberField{Name: "price", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureField(app, equipment, &core.BoolField{Name: "unit_price_set"})

	estimates := ensureCollection(app, "estimates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "customer_id", Required: false})
		c.Fields.Add(&core.TextField{Name: "first_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "last_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "details", Required: false})
		c.Fields.Add(&core.TextField{Name: "job_notes", Required: false})
		c.Fields.Add(&core.JSONField{Name: "jobsite_address", Required: false})
		c.Fields.Add(&core.JSONField{Name: "additional_items", Required: false})
		c.Fields.Add(&core.JSONField{Name: "options", Required: false, MaxSize: jsonMaxSize})
		c.Fields.Add(&core.NumberField{Name: "total_sqm", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	quotes := ensureCollection(app, "quotes", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quote_number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:          "estimate",
			Required:      true,
			CollectionId:  estimates.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "customer_id", Required: false})
		c.Fields.Add(&core.TextField{Name: "customer_name", Required: false})
		c.Fields.Add(&core.JSONField{Name: "jobsite_address", Required: false})
		c.Fields.Add(&core.JSONField{Name: "items", Required: false, MaxSize: jsonMaxSize})
		c.Fields.Add(&core.JSONField{Name: "included_options", Required: false})
		c.Fields.Add(&core.NumberField{Name: "markup_percentage", Required: false})
		c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
		c.Fields.Add(&core.NumberField{Name: "markup", Required: false})
		c.Fields.Add(&core.NumberField{Name: "profit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "gst", Required: false})
		c.Fields.Add(&core.NumberField{Name: "grand_total", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"draft", "sent", "accepted", "rejected"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
	ensureUniqueIndex(app, quotes, "idx_quotes_quote_number", "quote_number")
}

// ensureField adds f to a collection created before the field existed.
func ensureField(app *pocketbase.PocketBase, c *core.Collection, f core.Field) {
	if c.Fields.GetByName(f.GetName()) != nil {
		return
	}
	c.Fields.Add(f)
	if err := app.Save(c); err != nil {
		log.Fatalf("Failed to add field %q to %q: %v", f.GetName(), c.Name, err)
	}
}

// ensureUniqueIndex adds a unique index on column to a collection that does
// not have one yet, including collections created before the index existed.
func ensureUniqueIndex(app *pocketbase.PocketBase, c *core.Collection, name, column string) {
	if c.GetIndex(name) != "" {
		return
	}
	c.AddIndex(name, true, column, "")
	if err := app.Save(c); err != nil {
		log.Fatalf("Failed to add index %q to %q: %v", name, c.Name, err)
	}
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
