// Package export writes a ranked result set to an Excel workbook.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/ranking"
	"github.com/jmwanja/resume-matcher/internal/scoring"
)

// ExportToExcel generates an Excel file with the ranked matching results.
func ExportToExcel(view ranking.RankedView, job models.JobDescription, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	summarySheet := "Summary"
	rankedSheet := "Ranked Candidates"
	detailsSheet := "Detailed Analysis"

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(rankedSheet)
	f.NewSheet(detailsSheet)

	if err := writeSummarySheet(f, summarySheet, view, job); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeRankedSheet(f, rankedSheet, view); err != nil {
		return fmt.Errorf("failed to create ranked candidates sheet: %w", err)
	}
	if err := writeDetailsSheet(f, detailsSheet, view); err != nil {
		return fmt.Errorf("failed to create detailed analysis sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		// If direct save fails, try buffer write fallback.
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}
		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
}

// bandStyle color-codes a row by the overall score band: green for
// excellent, yellow for good, red for low.
func bandStyle(f *excelize.File, overall int) (int, error) {
	color := "FFC7CE"
	switch {
	case overall >= 80:
		color = "C6EFCE"
	case overall >= 60:
		color = "FFEB9C"
	}
	return f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Border: thinBorder(),
	})
}

func writeSummarySheet(f *excelize.File, sheetName string, view ranking.RankedView, job models.JobDescription) error {
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 50)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Resume Matching Report")
	f.SetCellStyle(sheetName, "A1", "B1", titleStyle)
	f.MergeCell(sheetName, "A1", "B1")

	fallbacks := 0
	for _, e := range view.Entries {
		if e.IsFallback {
			fallbacks++
		}
	}

	rows := []struct {
		label string
		value interface{}
	}{
		{"Job Title:", job.Title},
		{"Company:", job.Company},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Candidates Ranked:", len(view.Entries)},
		{"Estimated Scores:", fallbacks},
		{"Average Score:", view.Stats.Average},
		{"Highest Score:", view.Stats.Max},
		{"Lowest Score:", view.Stats.Min},
		{"Excellent (80-100):", view.Stats.Excellent},
		{"Good (60-79):", view.Stats.Good},
		{"Low (<60):", view.Stats.Low},
	}
	for i, r := range rows {
		row := i + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.value)
	}

	return nil
}

func writeRankedSheet(f *excelize.File, sheetName string, view ranking.RankedView) error {
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 25)
	f.SetColWidth(sheetName, "D", "H", 12)
	f.SetColWidth(sheetName, "I", "I", 12)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"Rank", "Candidate", "File", "Overall", "Keyword", "Skills", "Experience", "Education", "Estimated"}
	for col, h := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, header)
	}

	for i, e := range view.Entries {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Rank)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.FileName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Overall)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Keyword)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), e.Skills)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), e.Experience)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), e.Education)
		estimated := ""
		if e.IsFallback {
			estimated = "yes"
		}
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), estimated)

		style, err := bandStyle(f, e.Overall)
		if err != nil {
			return err
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), style)
	}

	if len(view.Entries) > 0 {
		f.AutoFilter(sheetName, fmt.Sprintf("A1:I%d", len(view.Entries)+1), []excelize.AutoFilterOptions{})
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

func writeDetailsSheet(f *excelize.File, sheetName string, view ranking.RankedView) error {
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, "D", "D", 70)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	headers := []string{"Rank", "Candidate", "Category", "Analysis"}
	for col, h := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, header)
	}

	row := 2
	writeRow := func(rank int, name, category, text string) {
		if text == "" {
			return
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), rank)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), text)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), wrapStyle)
		f.SetRowHeight(sheetName, row, 45)
		row++
	}

	for _, e := range view.Entries {
		assessment := scoring.Assess(e.CandidateScore)
		writeRow(e.Rank, e.Name, "Assessment", assessment.Overall)
		writeRow(e.Rank, e.Name, "Strengths", strings.Join(assessment.Strengths, "\n"))
		writeRow(e.Rank, e.Name, "Weaknesses", strings.Join(assessment.Weaknesses, "\n"))
		writeRow(e.Rank, e.Name, "Recommendations", strings.Join(assessment.Recommendations, "\n"))
		writeRow(e.Rank, e.Name, "Notes", strings.Join(e.Narrative, "\n"))
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}
