// migrate manages the schema of a SQLite configuration database.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/chrissnell/moonhike/internal/log"
	"github.com/chrissnell/moonhike/pkg/config"
	"github.com/chrissnell/moonhike/pkg/migrate"
)

func main() {
	var (
		dbPath        = flag.String("db", "", "Path to SQLite configuration database")
		command       = flag.String("command", "up", "Migration command: up, to, version, status")
		targetVersion = flag.String("target", "", "Target version for the to command")
		debug         = flag.Bool("debug", false, "Turn on debugging output")
		helpFlag      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *helpFlag {
		showHelp()
		return
	}
	if *dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: -db flag is required\n")
		showHelp()
		os.Exit(1)
	}

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	provider, err := config.NewSQLiteProvider(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer provider.Close()

	migrator := provider.Migrator(log.GetSugaredLogger())

	switch *command {
	case "up":
		err = migrator.MigrateUp()
	case "to":
		if *targetVersion == "" {
			fmt.Fprintf(os.Stderr, "Error: -target flag is required for to command\n")
			os.Exit(1)
		}
		target, convErr := strconv.Atoi(*targetVersion)
		if convErr != nil {
			log.Fatalf("Invalid target version: %v", convErr)
		}
		err = migrator.MigrateTo(target)
	case "version":
		var version int
		if version, err = migrator.GetCurrentVersion(); err == nil {
			fmt.Printf("Current version: %d\n", version)
		}
	case "status":
		err = showStatus(migrator)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", *command)
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

func showStatus(migrator *migrate.Migrator) error {
	version, err := migrator.GetCurrentVersion()
	if err != nil {
		return err
	}
	pending, err := migrator.GetPendingMigrations()
	if err != nil {
		return err
	}

	fmt.Printf("Current version: %d\n", version)
	if len(pending) == 0 {
		fmt.Println("No pending migrations")
		return nil
	}
	fmt.Printf("Pending migrations: %d\n", len(pending))
	for _, m := range pending {
		fmt.Printf("  - %d: %s\n", m.Version, m.Name)
	}
	return nil
}

func showHelp() {
	fmt.Println("Usage: migrate -db <config.db> [-command up|to|version|status] [-target N]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up       Apply all pending migrations")
	fmt.Println("  to       Migrate up or down to -target")
	fmt.Println("  version  Print the current schema version")
	fmt.Println("  status   Print the current version and pending migrations")
}
