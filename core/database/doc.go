// Package database handles database connections and schema preflight.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection to the metadata database
// holding the attachment inventory, with pooling and timeouts applied.
//
// # Schema Preflight
//
// MissingTables verifies that the attachment tables the inventory store
// reads from actually exist before an engine run starts, so a misconfigured
// database surfaces as a configuration error rather than an empty walk.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing := database.MissingTables(db, "attachments", "attachment_variants")
package database
