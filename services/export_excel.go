package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	estimateSheet = "Estimate"
	summarySheet  = "Summary"

	// First line item row on the Estimate sheet; the column header sits above it.
	firstItemRow = 8
)

// EstimateCells records where the totals block landed on the Estimate sheet.
// The Summary sheet and the tests address totals through it.
type EstimateCells struct {
	MaterialSubtotal     string
	LaborSubtotal        string
	DemolitionSubtotal   string
	DirectCost           string
	OverheadPct          string
	Overhead             string
	SubtotalWithOverhead string
	ProfitPct            string
	Profit               string
	GrandTotal           string
}

// estimateCellsFor returns the totals block cell references for n line items.
func estimateCellsFor(n int) EstimateCells {
	lastRow := firstItemRow + n - 1
	if n == 0 {
		lastRow = firstItemRow - 1
	}
	r := lastRow + 2
	ref := func(offset int) string { return fmt.Sprintf("K%d", r+offset) }
	return EstimateCells{
		MaterialSubtotal:     ref(0),
		LaborSubtotal:        ref(1),
		DemolitionSubtotal:   ref(2),
		DirectCost:           ref(3),
		OverheadPct:          ref(4),
		Overhead:             ref(5),
		SubtotalWithOverhead: ref(6),
		ProfitPct:            ref(7),
		Profit:               ref(8),
		GrandTotal:           ref(9),
	}
}

// GenerateExcel creates the estimate workbook and returns its bytes.
//
// The Estimate sheet lists line items with live formulas for material cost,
// labor cost and line total, followed by the rollup chain: SUMIF subtotals
// (Demolition carved out), direct cost, overhead, subtotal with overhead,
// profit and grand total. The Summary sheet references those cells. Every
// formula cell also carries the value computed by CalcEstimateTotals.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), estimateSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	st, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	cells, err := writeEstimateSheet(f, data, st)
	if err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, data, cells, st); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type excelStyles struct {
	title        int
	subtitle     int
	header       int
	item         int
	itemMoney    int
	summaryLabel int
	summaryMoney int
	summaryPct   int
	grandTotal   int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	currencyFmt := `"$"#,##0.00`
	var st excelStyles
	var err error

	defs := []struct {
		dst   *int
		name  string
		style *excelize.Style
	}{
		{&st.title, "title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&st.subtitle, "subtitle", &excelize.Style{Font: &excelize.Font{Size: 10, Color: "#555555"}}},
		{&st.header, "header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorders(),
		}},
		{&st.item, "item", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{&st.itemMoney, "item money", &excelize.Style{
			Font:         &excelize.Font{Size: 10},
			Border:       thinBorders(),
			CustomNumFmt: &currencyFmt,
		}},
		{&st.summaryLabel, "summary label", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&st.summaryMoney, "summary money", &excelize.Style{
			Font:         &excelize.Font{Bold: true, Size: 11},
			CustomNumFmt: &currencyFmt,
		}},
		{&st.summaryPct, "summary percent", &excelize.Style{
			Font:   &excelize.Font{Size: 11},
			NumFmt: 10, // 0.00%
		}},
		{&st.grandTotal, "grand total", &excelize.Style{
			Font:         &excelize.Font{Bold: true, Size: 13},
			Fill:         excelize.Fill{Type: "pattern", Color: []string{"#E8F0E8"}, Pattern: 1},
			Border:       thinBorders(),
			CustomNumFmt: &currencyFmt,
		}},
	}
	for _, d := range defs {
		if *d.dst, err = f.NewStyle(d.style); err != nil {
			return st, fmt.Errorf("create %s style: %w", d.name, err)
		}
	}
	return st, nil
}

// setFormula writes the cached value first, then attaches the formula.
func setFormula(f *excelize.File, sheet, cell, formula string, cached float64) error {
	if err := f.SetCellValue(sheet, cell, cached); err != nil {
		return fmt.Errorf("set cached value %s!%s: %w", sheet, cell, err)
	}
	if err := f.SetCellFormula(sheet, cell, formula); err != nil {
		return fmt.Errorf("set formula %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func writeEstimateSheet(f *excelize.File, data ExportData, st excelStyles) (EstimateCells, error) {
	sh := estimateSheet
	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}
	lastCol := columns[len(columns)-1]
	widths := []float64{5, 40, 18, 8, 8, 12, 10, 11, 14, 14, 15}
	for i, col := range columns {
		if err := f.SetColWidth(sh, col, col, widths[i]); err != nil {
			return EstimateCells{}, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Header Rows (1-5) ───────────────────────────────────────────────

	companyLine := strings.Join(nonEmpty(data.Company.Address, data.Company.Phone, licenseLabel(data.Company.LicenseNumber)), " | ")
	clientLine := strings.Join(nonEmpty(data.ClientName, data.ClientAddress), ", ")
	header := []struct {
		row   int
		text  string
		style int
	}{
		{1, data.Company.Name, st.title},
		{2, companyLine, st.subtitle},
		{3, estimateLabel(data), st.subtitle},
		{4, "Client: " + clientLine, st.subtitle},
		{5, "Date: " + data.CreatedDate, st.subtitle},
	}
	for _, h := range header {
		first, last := fmt.Sprintf("A%d", h.row), fmt.Sprintf("%s%d", lastCol, h.row)
		if err := f.MergeCell(sh, first, last); err != nil {
			return EstimateCells{}, fmt.Errorf("merge header row %d: %w", h.row, err)
		}
		f.SetCellValue(sh, first, sanitizeExcelCell(h.text))
		f.SetCellStyle(sh, first, last, h.style)
	}

	// ── Column Headers ──────────────────────────────────────────────────

	headerRow := firstItemRow - 1
	headers := []string{"#", "Description", "Category", "Qty", "Unit", "Unit Price",
		"Labor Hrs", "Labor Rate", "Material Cost", "Labor Cost", "Line Total"}
	for i, h := range headers {
		f.SetCellValue(sh, fmt.Sprintf("%s%d", columns[i], headerRow), h)
	}
	f.SetCellStyle(sh, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), st.header)

	// ── Line Items ──────────────────────────────────────────────────────

	row := firstItemRow
	for _, r := range data.Rows {
		n := fmt.Sprintf("%d", row)
		f.SetCellValue(sh, "A"+n, r.Index)
		f.SetCellValue(sh, "B"+n, sanitizeExcelCell(r.Description))
		f.SetCellValue(sh, "C"+n, excelCategory(r.Category))
		f.SetCellValue(sh, "D"+n, r.Qty)
		f.SetCellValue(sh, "E"+n, sanitizeExcelCell(r.Unit))
		f.SetCellValue(sh, "F"+n, r.UnitPrice)
		f.SetCellValue(sh, "G"+n, r.LaborHours)
		f.SetCellValue(sh, "H"+n, r.LaborRate)

		if err := setFormula(f, sh, "I"+n, fmt.Sprintf("D%s*F%s", n, n), r.MaterialCost); err != nil {
			return EstimateCells{}, err
		}
		if err := setFormula(f, sh, "J"+n, fmt.Sprintf("G%s*H%s", n, n), r.LaborCost); err != nil {
			return EstimateCells{}, err
		}
		if err := setFormula(f, sh, "K"+n, fmt.Sprintf("I%s+J%s", n, n), r.LineTotal); err != nil {
			return EstimateCells{}, err
		}

		f.SetCellStyle(sh, "A"+n, "E"+n, st.item)
		f.SetCellStyle(sh, "F"+n, "F"+n, st.itemMoney)
		f.SetCellStyle(sh, "G"+n, "G"+n, st.item)
		f.SetCellStyle(sh, "H"+n, "K"+n, st.itemMoney)
		row++
	}

	// ── Totals Block ────────────────────────────────────────────────────

	cells := estimateCellsFor(len(data.Rows))
	t := data.Totals

	var materialF, laborF, demolitionF string
	if len(data.Rows) > 0 {
		last := firstItemRow + len(data.Rows) - 1
		cat := fmt.Sprintf("C%d:C%d", firstItemRow, last)
		materialF = fmt.Sprintf(`SUMIF(%s,"<>%s",I%d:I%d)`, cat, CategoryDemolition, firstItemRow, last)
		laborF = fmt.Sprintf(`SUMIF(%s,"<>%s",J%d:J%d)`, cat, CategoryDemolition, firstItemRow, last)
		demolitionF = fmt.Sprintf(`SUMIF(%s,"%s",K%d:K%d)`, cat, CategoryDemolition, firstItemRow, last)
	}

	lines := []struct {
		label   string
		cell    string
		formula string
		value   float64
		style   int
	}{
		{"Material Subtotal", cells.MaterialSubtotal, materialF, t.MaterialSubtotal, st.summaryMoney},
		{"Labor Subtotal", cells.LaborSubtotal, laborF, t.LaborSubtotal, st.summaryMoney},
		{"Demolition Subtotal", cells.DemolitionSubtotal, demolitionF, t.DemolitionSubtotal, st.summaryMoney},
		{"Direct Cost", cells.DirectCost,
			fmt.Sprintf("%s+%s+%s", cells.MaterialSubtotal, cells.LaborSubtotal, cells.DemolitionSubtotal),
			t.DirectCost, st.summaryMoney},
		{"Overhead %", cells.OverheadPct, "", data.OverheadPct, st.summaryPct},
		{"Overhead", cells.Overhead,
			fmt.Sprintf("%s*%s", cells.DirectCost, cells.OverheadPct), t.Overhead, st.summaryMoney},
		{"Subtotal with Overhead", cells.SubtotalWithOverhead,
			fmt.Sprintf("%s+%s", cells.DirectCost, cells.Overhead), t.SubtotalWithOverhead, st.summaryMoney},
		{"Profit %", cells.ProfitPct, "", data.ProfitPct, st.summaryPct},
		{"Profit", cells.Profit,
			fmt.Sprintf("%s*%s", cells.SubtotalWithOverhead, cells.ProfitPct), t.Profit, st.summaryMoney},
		{"Grand Total", cells.GrandTotal,
			fmt.Sprintf("%s+%s", cells.SubtotalWithOverhead, cells.Profit), t.GrandTotal, st.grandTotal},
	}
	for _, l := range lines {
		labelCell := "J" + strings.TrimPrefix(l.cell, "K")
		f.SetCellValue(sh, labelCell, l.label)
		f.SetCellStyle(sh, labelCell, labelCell, st.summaryLabel)

		if l.formula == "" {
			f.SetCellValue(sh, l.cell, l.value)
		} else if err := setFormula(f, sh, l.cell, l.formula, l.value); err != nil {
			return EstimateCells{}, err
		}
		f.SetCellStyle(sh, l.cell, l.cell, l.style)
	}

	return cells, nil
}

func writeSummarySheet(f *excelize.File, data ExportData, cells EstimateCells, st excelStyles) error {
	sh := summarySheet
	if err := f.SetColWidth(sh, "A", "A", 28); err != nil {
		return fmt.Errorf("set summary col width: %w", err)
	}
	if err := f.SetColWidth(sh, "B", "B", 18); err != nil {
		return fmt.Errorf("set summary col width: %w", err)
	}

	f.SetCellValue(sh, "A1", sanitizeExcelCell(data.Company.Name))
	f.SetCellStyle(sh, "A1", "A1", st.title)
	f.SetCellValue(sh, "A2", sanitizeExcelCell(estimateLabel(data)))
	f.SetCellValue(sh, "A3", sanitizeExcelCell("Client: "+data.ClientName))
	f.SetCellStyle(sh, "A2", "A3", st.subtitle)

	t := data.Totals
	ref := func(cell string) string { return estimateSheet + "!" + cell }
	lines := []struct {
		label string
		cell  string
		value float64
		style int
	}{
		{"Material", cells.MaterialSubtotal, t.MaterialSubtotal, st.summaryMoney},
		{"Labor", cells.LaborSubtotal, t.LaborSubtotal, st.summaryMoney},
		{"Demolition", cells.DemolitionSubtotal, t.DemolitionSubtotal, st.summaryMoney},
		{"Direct Cost", cells.DirectCost, t.DirectCost, st.summaryMoney},
		{"Overhead (" + FormatPercent(data.OverheadPct) + ")", cells.Overhead, t.Overhead, st.summaryMoney},
		{"Subtotal with Overhead", cells.SubtotalWithOverhead, t.SubtotalWithOverhead, st.summaryMoney},
		{"Profit (" + FormatPercent(data.ProfitPct) + ")", cells.Profit, t.Profit, st.summaryMoney},
		{"Grand Total", cells.GrandTotal, t.GrandTotal, st.grandTotal},
	}
	for i, l := range lines {
		n := fmt.Sprintf("%d", i+5)
		f.SetCellValue(sh, "A"+n, l.label)
		f.SetCellStyle(sh, "A"+n, "A"+n, st.summaryLabel)
		if err := setFormula(f, sh, "B"+n, ref(l.cell), l.value); err != nil {
			return err
		}
		f.SetCellStyle(sh, "B"+n, "B"+n, l.style)
	}
	return nil
}

// excelCategory is the text written to the category column. SUMIF compares
// text without regard to case, so only exact category names are written as is.
func excelCategory(c Category) string {
	if _, ok := ParseCategory(string(c)); ok {
		return string(c)
	}
	return sanitizeExcelCell(string(c)) + " (unrecognized)"
}

func licenseLabel(license string) string {
	if license == "" {
		return ""
	}
	return "License #" + license
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
