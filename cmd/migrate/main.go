// Command migrate applies or inspects the database schema. Production
// deployments run it before starting the server, which skips migration there.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"devconnector/internal/config"
	"devconnector/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <auto|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "auto":
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("automigration failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		m := db.Migrator()
		for _, model := range database.PersistentModels() {
			stmt := db.Model(model).Statement
			if err := stmt.Parse(model); err != nil {
				return fmt.Errorf("parse %T: %w", model, err)
			}
			state := "missing"
			if m.HasTable(model) {
				state = "present"
			}
			log.Printf("%-10s %s", stmt.Schema.Table, state)
		}
	default:
		return usage()
	}
	return nil
}
