package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/verdania/internal/database"
	"github.com/example/verdania/pkg/models"
)

// ImportConfig defines the tile catalog import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	IDColumn       string // Column with the tile id
	SectionColumn  string // Column with the section
	TitleColumn    string // Column with the tile title
	PositionColumn string // Column with the position within the section
	SheetName      string // Name of the sheet to import
	StartRow       int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		IDColumn:       "A",
		SectionColumn:  "B",
		TitleColumn:    "C",
		PositionColumn: "D",
		SheetName:      "Sheet1",
		StartRow:       2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// ImportTiles imports tiles from an Excel or CSV file
func ImportTiles(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(config)
	}

	return importFromExcel(config)
}

// importFromExcel imports tiles from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	tileRepo := database.NewTileRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	cols := columnIndexes(config)
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		if err := processRow(row, cols, tileRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports tiles from a CSV file
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	tileRepo := database.NewTileRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	cols := columnIndexes(config)
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rowNum++

		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++

		if err := processRow(row, cols, tileRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// columns holds the zero-based indexes of the catalog columns
type columns struct {
	id       int
	section  int
	title    int
	position int
}

func columnIndexes(config ImportConfig) columns {
	return columns{
		id:       columnIndex(config.IDColumn),
		section:  columnIndex(config.SectionColumn),
		title:    columnIndex(config.TitleColumn),
		position: columnIndex(config.PositionColumn),
	}
}

// columnIndex converts an Excel column letter (A, B, ... Z) to a zero-based index
func columnIndex(letter string) int {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return -1
	}
	idx := 0
	for _, c := range letter {
		idx = idx*26 + int(c-'A') + 1
	}
	return idx - 1
}

// processRow imports one catalog row
func processRow(row []string, cols columns, tileRepo *database.TileRepository, result *ImportResult) error {
	id := cellValue(row, cols.id)
	if id == "" {
		result.Skipped++
		return nil
	}
	section := cellValue(row, cols.section)
	title := cellValue(row, cols.title)
	if section == "" || title == "" {
		result.Skipped++
		return fmt.Errorf("tile %q is missing section or title", id)
	}

	position := 0
	if raw := cellValue(row, cols.position); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid position %q for tile %q", raw, id)
		}
		position = p
	}

	tile := &models.Tile{
		ID:       id,
		Section:  section,
		Title:    title,
		Position: position,
	}

	created, err := tileRepo.CreateOrUpdate(tile)
	if err != nil {
		return err
	}
	if created {
		result.Created++
	} else {
		result.Updated++
	}
	return nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
