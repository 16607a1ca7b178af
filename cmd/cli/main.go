package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/napatsiri/go-biolink/pkg/adapters/repository/sqlite"
	"github.com/napatsiri/go-biolink/pkg/config"
	"github.com/napatsiri/go-biolink/pkg/core/domain"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOwner := exportCmd.String("owner", "", "Owner id whose entries to export")
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importOwner := importCmd.String("owner", "", "Owner id to import entries into")
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if *exportOwner == "" {
			exportCmd.PrintDefaults()
			os.Exit(1)
		}
		doExport(repo, *exportOwner)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importOwner == "" || *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		doImport(repo, *importOwner, *importFile)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

func doExport(repo *sqlite.SQLiteRepository, ownerID string) {
	entries, err := repo.ListEntries(context.Background(), ownerID)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		log.Fatalf("Encode failed: %v", err)
	}
}

func doImport(repo *sqlite.SQLiteRepository, ownerID, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer file.Close()

	var entries []domain.Entry
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		log.Fatalf("Failed to decode file: %v", err)
	}

	// Imported rows are rehomed under the target owner; ids from the file
	// are kept so re-running the import is an update, not a duplicate.
	for i := range entries {
		entries[i].OwnerID = ownerID
	}

	if err := repo.UpsertEntries(context.Background(), entries); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Imported %d entries", len(entries))
}
