package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateMaterialTemplate creates a downloadable .xlsx template for
// importing the materials catalog.
func GenerateMaterialTemplate() ([]byte, error) {
	fields := MaterialTemplateFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Materials"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := columns[i] + "1"
		headerText := field.Label
		style := optionalHeaderStyle
		if field.Required {
			headerText += " *"
			style = requiredHeaderStyle
		}
		f.SetCellValue(sheetName, cell, headerText)
		f.SetCellStyle(sheetName, cell, cell, style)
		f.SetColWidth(sheetName, columns[i], columns[i], max(float64(len(field.ExampleValue))*1.2, 15))

		rangeRef := fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])
		switch field.Key {
		case "category":
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			if err := dv.SetDropList(CategoryOptions()); err != nil {
				return nil, fmt.Errorf("category drop list: %w", err)
			}
			f.AddDataValidation(sheetName, dv)
		case "unit":
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			if err := dv.SetDropList(UnitOptions); err != nil {
				return nil, fmt.Errorf("unit drop list: %w", err)
			}
			f.AddDataValidation(sheetName, dv)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addInstructionsSheet creates a hidden sheet with field descriptions.
func addInstructionsSheet(f *excelize.File, fields []TemplateField) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Materials Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(5)
	for i, h := range []string{"Field Name", "Required?", "Format Rule", "Description", "Example"} {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range fields {
		row := fmt.Sprintf("%d", i+4)
		reqLabel := "Optional"
		if field.Required {
			reqLabel = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, reqLabel)
		f.SetCellValue(instSheet, cols[2]+row, field.FormatRule)
		f.SetCellValue(instSheet, cols[3]+row, field.Description)
		f.SetCellValue(instSheet, cols[4]+row, field.ExampleValue)
	}

	for i, w := range []float64{20, 12, 30, 45, 25} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := range n {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
