package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"statkit/adapters/sqlstore"
	"statkit/domain/stats"
	"statkit/internal/migration"
	"statkit/ports"

	"github.com/jmoiron/sqlx"
)

const usage = `Usage: migrate <database_url> <command> [dir]

Commands:
  up           apply the schema migrations
  reset        drop the results table
  import <dir> store every result JSON file found under dir
  export <dir> write every stored result to dir as <id>.json

The driver is postgres unless the URL is a sqlite file or ":memory:".`

func main() {
	if len(os.Args) < 3 {
		log.Fatal(usage)
	}
	databaseURL, command := os.Args[1], os.Args[2]
	ctx := context.Background()

	driver := driverFor(databaseURL)
	db, err := sqlx.ConnectContext(ctx, driver, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	switch command {
	case "up":
		if err := runner.Run(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Printf("Schema version %s applied", runner.Version())
	case "reset":
		if err := runner.Reset(ctx, db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		log.Println("Results table dropped")
	case "import", "export":
		if len(os.Args) < 4 {
			log.Fatal(usage)
		}
		if err := runner.Run(ctx, db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		repo := sqlstore.NewResultRepository(db)
		if command == "import" {
			migrated, skipped, err := importResults(ctx, repo, os.Args[3])
			if err != nil {
				log.Fatalf("Import failed: %v", err)
			}
			log.Printf("Import complete: %d migrated, %d skipped", migrated, skipped)
			return
		}
		written, err := exportResults(ctx, repo, os.Args[3])
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		log.Printf("Export complete: %d results written", written)
	default:
		log.Fatal(usage)
	}
}

func driverFor(url string) string {
	if url == ":memory:" || strings.HasPrefix(url, "file:") ||
		strings.HasSuffix(url, ".db") || strings.HasSuffix(url, ".sqlite") {
		return "sqlite3"
	}
	return "postgres"
}

// importResults saves every decodable result file under dir. Files that fail
// to decode or save are logged and skipped.
func importResults(ctx context.Context, repo ports.ResultRepository, dir string) (migrated, skipped int, err error) {
	files, err := findResultFiles(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to find result files: %w", err)
	}
	log.Printf("Found %d result files to migrate", len(files))

	for _, file := range files {
		res, err := loadResultFromFile(file)
		if err != nil {
			log.Printf("Failed to load result from %s: %v", file, err)
			skipped++
			continue
		}
		if err := repo.Save(ctx, res); err != nil {
			log.Printf("Failed to save result %s: %v", res.ID(), err)
			skipped++
			continue
		}
		migrated++
		log.Printf("Migrated result %s from %s", res.ID(), filepath.Base(file))
	}
	return migrated, skipped, nil
}

// exportResults writes every stored result to dir
func exportResults(ctx context.Context, repo ports.ResultRepository, dir string) (int, error) {
	results, err := repo.List(ctx, ports.ResultFilter{})
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	for i, res := range results {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return i, fmt.Errorf("encode result %s: %w", res.ID(), err)
		}
		if err := os.WriteFile(filepath.Join(dir, res.ID().String()+".json"), data, 0o644); err != nil {
			return i, err
		}
	}
	return len(results), nil
}

func findResultFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

func loadResultFromFile(filePath string) (*stats.Result, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var result stats.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	if result.ID().IsEmpty() {
		return nil, fmt.Errorf("%s holds no result id", filepath.Base(filePath))
	}

	return &result, nil
}
