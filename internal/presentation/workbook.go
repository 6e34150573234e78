package presentation

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"contract-scanner/internal/analysis"
)

const (
	summarySheet = "Summary"
	risksSheet   = "Risks"
	timeSheet    = "Time"
)

// WriteWorkbook exports a result as an XLSX workbook with one sheet per view.
func WriteWorkbook(r analysis.Result, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it so Summary opens first.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	for _, name := range []string{risksSheet, timeSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	summaryRows := [][]any{{"Business Impact", r.Summary}, {}, {"Obligations"}}
	for _, o := range r.Obligations {
		summaryRows = append(summaryRows, []any{"", o})
	}
	summaryRows = append(summaryRows, []any{}, []any{"Disclaimer", Disclaimer})

	riskRows := [][]any{{"#", "Title", "Severity", "Explanation", "Mitigation"}}
	for _, item := range Risks(r).Risks {
		riskRows = append(riskRows, []any{item.Index, item.Title, item.Badge.Label, item.Explanation, item.Mitigation})
	}

	timeRows := [][]any{{"Title", "Description", "Deadline"}}
	tv := Time(r)
	if tv.Empty {
		timeRows = append(timeRows, []any{NoTimeframesMessage})
	}
	for _, tf := range tv.Timeframes {
		timeRows = append(timeRows, []any{tf.Title, tf.Description, tf.Deadline})
	}

	for sheet, rows := range map[string][][]any{summarySheet: summaryRows, risksSheet: riskRows, timeSheet: timeRows} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 90)
	_ = f.SetColWidth(risksSheet, "B", "B", 32)
	_ = f.SetColWidth(risksSheet, "D", "E", 60)
	_ = f.SetColWidth(timeSheet, "A", "A", 32)
	_ = f.SetColWidth(timeSheet, "B", "B", 60)
	_ = f.SetColWidth(timeSheet, "C", "C", 24)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("xlsx: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("xlsx %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
