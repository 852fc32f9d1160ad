// Package database opens the relational database behind the document store
// and inspects its schema.
//
// # Connect
//
// Connect selects the GORM dialector from the configured driver (MySQL in
// production, SQLite for local runs and tests), applies an optional JSON
// credential file, and pings the database with a bounded exponential backoff
// so a database that is still starting does not fail the run outright.
// A missing credential is reported as ErrMissingCredential before any network
// traffic.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns back the doctor command, which checks that
// the documents table has the columns the store adapter expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if errors.Is(err, database.ErrMissingCredential) {
//	    // fatal: nothing can be imported
//	}
//
//	missing, err := database.MissingColumns(db, "documents", docstore.Columns)
package database
