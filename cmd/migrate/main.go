// Command migrate applies the embedded goose migrations to the console database.
//
//	migrate up | down | status | version | create <name>
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/database"
	"github.com/bloomhouse/admin-console/migrations"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

type command struct {
	run  func(db *sql.DB, args []string) error
	done string
}

var commands = map[string]command{
	"up": {
		run:  func(db *sql.DB, _ []string) error { return goose.Up(db, ".") },
		done: "database is up to date",
	},
	"down": {
		run:  func(db *sql.DB, _ []string) error { return goose.Down(db, ".") },
		done: "rolled back one migration",
	},
	"status": {
		run: func(db *sql.DB, _ []string) error { return goose.Status(db, ".") },
	},
	"version": {
		run: func(db *sql.DB, _ []string) error { return goose.Version(db, ".") },
	},
	"create": {
		run: func(db *sql.DB, args []string) error {
			if len(args) == 0 {
				return errors.New("create needs a migration name")
			}
			// new files go to the source tree, not the embedded copy
			goose.SetBaseFS(nil)
			return goose.Create(db, "./migrations", args[0], "sql")
		},
		done: "migration file written",
	},
}

func main() {
	if err := migrate(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func migrate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate <%s>", strings.Join(slices.Sorted(maps.Keys(commands)), "|"))
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, dialect, err := open(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := cmd.run(db, args[1:]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if cmd.done != "" {
		fmt.Println(cmd.done)
	}
	return nil
}

// open returns a handle and the goose dialect for the configured driver
func open(cfg *config.DatabaseConfig) (*sql.DB, string, error) {
	if cfg.Driver != "sqlite" {
		db, err := sql.Open("postgres", cfg.ConnectionString())
		if err != nil {
			return nil, "", fmt.Errorf("open postgres: %w", err)
		}
		return db, "postgres", nil
	}

	gdb, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, "", err
	}
	db, err := gdb.DB()
	if err != nil {
		return nil, "", fmt.Errorf("sqlite handle: %w", err)
	}
	return db, "sqlite3", nil
}
