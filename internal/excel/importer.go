// Package excel seeds learning content from spreadsheet exports. Both
// xlsx and csv files are accepted; rows become learning units with their
// category hashtags.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/lingofeed/internal/database"
	"github.com/example/lingofeed/pkg/models"
)

// ImportConfig defines the import configuration.
type ImportConfig struct {
	FilePath       string // path to the xlsx or csv file
	KindColumn     string // unit kind: statement, question, word, sentence
	TextColumn     string // the Korean text
	URLNormalCol   string // audio at normal speed
	URLSlowCol     string // audio at slow speed
	RemarkColumn   string // free-form note
	HashtagsColumn string // comma-separated category names
	SheetName      string
	StartRow       int // 1-based, rows above are skipped
}

// DefaultImportConfig returns the standard column layout.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		KindColumn:     "A",
		TextColumn:     "B",
		URLNormalCol:   "C",
		URLSlowCol:     "D",
		RemarkColumn:   "E",
		HashtagsColumn: "F",
		SheetName:      "Sheet1",
		StartRow:       2, // skip the header row
	}
}

// ImportResult holds the outcome of an import operation.
type ImportResult struct {
	TotalProcessed int
	Created        int
	TagsLinked     int
	Skipped        int
	Errors         []string
}

var validKinds = map[string]bool{
	models.UnitKindStatement: true,
	models.UnitKindQuestion:  true,
	models.UnitKindWord:      true,
	models.UnitKindSentence:  true,
	models.UnitKindSame:      true,
	models.UnitKindDifferent: true,
}

// ImportUnits imports learning units from an xlsx or csv file.
func ImportUnits(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(ctx, config)
	}
	return importFromExcel(ctx, config)
}

func importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	importer := newUnitImporter()

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		unit := rowUnit(row, config)
		if err := importer.process(ctx, unit, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}
	return result, nil
}

func importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &ImportResult{Errors: make([]string, 0)}
	importer := newUnitImporter()

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++

		unit := rowUnit(row, config)
		if err := importer.process(ctx, unit, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}
	return result, nil
}

// rowData is one parsed spreadsheet row before validation.
type rowData struct {
	kind     string
	text     string
	urlNorm  string
	urlSlow  string
	remark   string
	hashtags []string
}

func rowUnit(row []string, config ImportConfig) rowData {
	cell := func(column string) string {
		if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	data := rowData{
		kind:    strings.ToLower(cell(config.KindColumn)),
		text:    cell(config.TextColumn),
		urlNorm: cell(config.URLNormalCol),
		urlSlow: cell(config.URLSlowCol),
		remark:  cell(config.RemarkColumn),
	}
	for _, tag := range strings.Split(cell(config.HashtagsColumn), ",") {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag != "" {
			data.hashtags = append(data.hashtags, tag)
		}
	}
	return data
}

// unitImporter carries the repositories and the hashtag cache across rows.
type unitImporter struct {
	units    *database.UnitRepository
	hashtags *database.HashtagRepository
	tagIDs   map[string]int64
}

func newUnitImporter() *unitImporter {
	return &unitImporter{
		units:    database.NewUnitRepository(),
		hashtags: database.NewHashtagRepository(),
		tagIDs:   make(map[string]int64),
	}
}

func (imp *unitImporter) process(ctx context.Context, data rowData, result *ImportResult) error {
	if data.kind == "" && data.text == "" {
		result.Skipped++
		return nil
	}
	if !validKinds[data.kind] {
		return fmt.Errorf("unknown unit kind %q", data.kind)
	}
	if data.text == "" {
		return fmt.Errorf("text cannot be empty")
	}

	unit := &models.LearningUnit{
		Kind:      data.kind,
		Text:      data.text,
		URLNormal: data.urlNorm,
		URLSlow:   data.urlSlow,
		Remark:    data.remark,
	}
	if err := imp.units.Create(ctx, unit); err != nil {
		return fmt.Errorf("failed to create unit: %v", err)
	}
	result.Created++

	for _, name := range data.hashtags {
		tagID, err := imp.tagID(ctx, name)
		if err != nil {
			return err
		}
		if err := imp.units.LinkHashtag(ctx, unit.ID, tagID); err != nil {
			return fmt.Errorf("failed to link hashtag %q: %v", name, err)
		}
		result.TagsLinked++
	}
	return nil
}

func (imp *unitImporter) tagID(ctx context.Context, name string) (int64, error) {
	key := strings.ToLower(name)
	if id, ok := imp.tagIDs[key]; ok {
		return id, nil
	}
	tag, err := imp.hashtags.GetOrCreate(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to get hashtag %q: %v", name, err)
	}
	imp.tagIDs[key] = tag.ID
	return tag.ID, nil
}

// columnToIndex converts an Excel column letter to a zero-based index.
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
