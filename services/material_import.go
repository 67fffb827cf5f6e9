package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

const importBatchSize = 100

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows  int               `json:"total_rows"`
	ValidRows  int               `json:"valid_rows"`
	ErrorRows  int               `json:"error_rows"`
	Errors     []ValidationError `json:"errors"`
	ParsedRows []MaterialInput   `json:"-"`
	FileName   string            `json:"-"`
}

// ImportResult holds the outcome of a batch import.
type ImportResult struct {
	TotalRows  int               `json:"total_rows"`
	Created    int               `json:"created"`
	Updated    int               `json:"updated"`
	Failed     int               `json:"failed"`
	Errors     []ValidationError `json:"errors,omitempty"`
	RolledBack bool              `json:"rolled_back"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns one key per column ("" when unrecognized) and the unrecognized headers.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// the template marks required columns with " *"
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// parseAmount accepts plain numbers as well as "$1,234.50". Empty is zero.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// rowToMaterial converts a mapped row into MaterialInput and returns every
// problem found on it.
func rowToMaterial(rowNum int, data map[string]string) (MaterialInput, []ValidationError) {
	var errs []ValidationError
	in := MaterialInput{
		Name:     data["name"],
		Category: data["category"],
		Unit:     data["unit"],
	}

	numeric := map[string]*float64{
		"unit_price":  &in.UnitPrice,
		"labor_hours": &in.LaborHours,
	}
	badNumber := map[string]bool{}
	for _, key := range slices.Sorted(maps.Keys(numeric)) {
		v, err := parseAmount(data[key])
		if err != nil {
			badNumber[key] = true
			errs = append(errs, ValidationError{
				Row:     rowNum,
				Field:   fieldLabel(key),
				Message: fmt.Sprintf("%q is not a number", data[key]),
			})
			continue
		}
		*numeric[key] = v
	}

	fieldErrs := FieldErrors(in.Validate())
	for _, key := range slices.Sorted(maps.Keys(fieldErrs)) {
		if badNumber[key] {
			continue
		}
		errs = append(errs, ValidationError{
			Row:     rowNum,
			Field:   fieldLabel(key),
			Message: fmt.Sprintf("%s %s", fieldLabel(key), fieldErrs[key]),
		})
	}
	return in, errs
}

// ValidateMaterialFile parses and validates an uploaded .csv or .xlsx catalog file.
func ValidateMaterialFile(file io.Reader, fileName string) (*ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	fields := MaterialTemplateFields()
	columnKeys, _ := mapHeadersToFields(headers, fields)
	for _, f := range fields {
		if f.Required && !slices.Contains(columnKeys, f.Key) {
			return nil, fmt.Errorf("missing required column %q", f.Label)
		}
	}

	result := &ValidationResult{
		FileName:   fileName,
		ParsedRows: make([]MaterialInput, 0, len(dataRows)),
	}

	errorRows := make(map[int]bool)
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
		}
		if isBlankRow(rowData) {
			continue
		}

		in, rowErrors := rowToMaterial(rowNum, rowData)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			errorRows[rowNum] = true
		}
		result.ParsedRows = append(result.ParsedRows, in)
		result.TotalRows++
	}

	result.ErrorRows = len(errorRows)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

func isBlankRow(data map[string]string) bool {
	for _, v := range data {
		if v != "" {
			return false
		}
	}
	return true
}

// CommitMaterialImport writes parsed materials into the catalog. A material
// whose name already exists is updated in place. Rows are saved in chunks of
// importBatchSize, each inside one transaction.
func CommitMaterialImport(app core.App, rows []MaterialInput) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}

	// re-validate; nothing is written when any row is invalid
	for i, in := range rows {
		fieldErrs := FieldErrors(in.Validate())
		for _, key := range slices.Sorted(maps.Keys(fieldErrs)) {
			result.Errors = append(result.Errors, ValidationError{
				Row:     i + 2,
				Field:   fieldLabel(key),
				Message: fmt.Sprintf("%s %s", fieldLabel(key), fieldErrs[key]),
			})
		}
	}
	if len(result.Errors) > 0 {
		result.Failed = len(rows)
		result.RolledBack = true
		return result, nil
	}

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return nil, fmt.Errorf("materials collection not found: %w", err)
	}

	for chunkStart := 0; chunkStart < len(rows); chunkStart += importBatchSize {
		chunkEnd := min(chunkStart+importBatchSize, len(rows))
		chunk := rows[chunkStart:chunkEnd]

		created, updated, chunkErrors := insertChunk(app, col, chunk, chunkStart)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk)
			result.RolledBack = true
			continue
		}
		result.Created += created
		result.Updated += updated
	}
	return result, nil
}

// insertChunk saves a batch of materials within RunInTransaction. If any row
// fails, the whole chunk is rolled back.
func insertChunk(app core.App, col *core.Collection, rows []MaterialInput, startOffset int) (int, int, []ValidationError) {
	var chunkErrors []ValidationError
	created, updated := 0, 0

	err := app.RunInTransaction(func(txApp core.App) error {
		for i, in := range rows {
			rowNum := startOffset + i + 2

			record, err := txApp.FindFirstRecordByData(col, "name", in.Name)
			if err != nil {
				record = core.NewRecord(col)
				created++
			} else {
				updated++
			}
			record.Set("name", in.Name)
			record.Set("category", in.Category)
			record.Set("unit", in.Unit)
			record.Set("unit_price", in.UnitPrice)
			record.Set("labor_hours", in.LaborHours)

			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, ValidationError{
					Row:     rowNum,
					Message: fmt.Sprintf("Failed to save: %s", err.Error()),
				})
				return fmt.Errorf("save failed at row %d: %w", rowNum, err)
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("material_import: chunk insert rolled back: %v", err)
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, ValidationError{
				Row:     startOffset + 2,
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
		return 0, 0, chunkErrors
	}
	return created, updated, nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, sanitizeExcelCell(e.Field))
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
