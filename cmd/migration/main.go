package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/mattn/go-sqlite3"

	gamerepo "github.com/fadedpez/blondie/pkg/repositories/game"
	historyrepo "github.com/fadedpez/blondie/pkg/repositories/history"
)

// Repositories apply their own migrations on open, so "migrate" simply
// opens both against the target database. "status" lists what has been
// applied, which is handy before taking a backup.
func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	migratePath := migrateCmd.String("db", "data/blondie.db", "Path to SQLite database")

	statusCmd := flag.NewFlagSet("status", flag.ExitOnError)
	statusPath := statusCmd.String("db", "data/blondie.db", "Path to SQLite database")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		applyMigrations(*migratePath)

	case "status":
		statusCmd.Parse(os.Args[2:])
		printStatus(*statusPath)

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migration migrate [-db PATH]  - Apply pending schema migrations")
	fmt.Println("  migration status  [-db PATH]  - List applied migrations")
	fmt.Println("  migration help                - Show this help")
}

func applyMigrations(dbPath string) {
	games, err := gamerepo.NewSQLiteRepository(dbPath)
	if err != nil {
		log.Fatalf("Error migrating game schema: %v", err)
	}
	games.Close()

	history, err := historyrepo.NewSQLiteRepository(dbPath)
	if err != nil {
		log.Fatalf("Error migrating history schema: %v", err)
	}
	history.Close()

	fmt.Printf("Schema up to date at %s\n", dbPath)
}

func printStatus(dbPath string) {
	if _, err := os.Stat(dbPath); err != nil {
		log.Fatalf("Database not found at %s", dbPath)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT version, description, applied_at FROM migrations ORDER BY version")
	if err != nil {
		log.Fatalf("Error reading migrations table (run migrate first?): %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var version, description, appliedAt string
		if err := rows.Scan(&version, &description, &appliedAt); err != nil {
			log.Fatalf("Error scanning migration row: %v", err)
		}
		fmt.Printf("%s  %s  (applied %s)\n", version, description, appliedAt)
		count++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Error reading migration rows: %v", err)
	}
	fmt.Printf("%d migrations applied\n", count)
}
