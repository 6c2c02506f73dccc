package test

import (
	"log"

	"authapi/internal/adapter/database/sqlite"
)

// InitTestDB returns a migrated in-memory sqlite database. Each call gets a
// fresh, empty schema.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.NewDB(sqlite.Config{
		Path:        sqlite.MemoryPath,
		SQLLogLevel: "error",
	})

	if err != nil {
		log.Fatal(err)
	}

	return db
}
