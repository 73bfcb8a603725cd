// Command import seeds learning units from a spreadsheet export.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/example/lingofeed/internal/config"
	"github.com/example/lingofeed/internal/database"
	"github.com/example/lingofeed/internal/excel"
)

func main() {
	file := flag.String("file", "", "path to the xlsx or csv file")
	sheet := flag.String("sheet", "", "sheet name, xlsx only")
	startRow := flag.Int("start-row", 0, "first data row, 1-based")
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := database.Connect(cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	importCfg := excel.DefaultImportConfig()
	importCfg.FilePath = *file
	if *sheet != "" {
		importCfg.SheetName = *sheet
	}
	if *startRow > 0 {
		importCfg.StartRow = *startRow
	}

	result, err := excel.ImportUnits(context.Background(), importCfg)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Processed %d rows: %d units created, %d tags linked, %d skipped",
		result.TotalProcessed, result.Created, result.TagsLinked, result.Skipped)
	for _, e := range result.Errors {
		log.Printf("  %s", e)
	}
}
