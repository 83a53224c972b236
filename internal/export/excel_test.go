package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jmwanja/resume-matcher/internal/models"
	"github.com/jmwanja/resume-matcher/internal/ranking"
)

func sampleView() ranking.RankedView {
	return ranking.NewEngine().Rank([]models.CandidateScore{
		{
			CandidateID: "r1",
			Name:        "Alice Wright",
			FileName:    "alice_cv.pdf",
			Overall:     85,
			Keyword:     80,
			Skills:      90,
			Experience:  82,
			Education:   75,
		},
		{
			CandidateID: "r2",
			Name:        "Bob Stone",
			FileName:    "bob_cv.txt",
			Overall:     44,
			Keyword:     39,
			Skills:      28,
			Experience:  35,
			Education:   25,
			Narrative:   []string{"Note: This analysis is an estimate as the resume could not be fully processed."},
			IsFallback:  true,
		},
	}, ranking.Options{})
}

// TestExportToExcel_EnsuresXlsxExtension tests that .xlsx extension is added if missing
func TestExportToExcel_EnsuresXlsxExtension(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "report")

	if err := ExportToExcel(sampleView(), models.JobDescription{Title: "Software Engineer"}, outputPath); err != nil {
		t.Fatalf("ExportToExcel() failed: %v", err)
	}

	expectedPath := outputPath + ".xlsx"
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", expectedPath)
	}
}

// TestExportToExcel_SheetContents tests the ranked sheet rows against the view
func TestExportToExcel_SheetContents(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "report.xlsx")

	if err := ExportToExcel(sampleView(), models.JobDescription{Title: "Software Engineer", Company: "Acme"}, outputPath); err != nil {
		t.Fatalf("ExportToExcel() failed: %v", err)
	}

	f, err := excelize.OpenFile(outputPath)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Summary", "Ranked Candidates", "Detailed Analysis"} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("missing sheet %q", sheet)
		}
	}

	checks := []struct {
		cell string
		want string
	}{
		{cell: "A2", want: "1"},
		{cell: "B2", want: "Alice Wright"},
		{cell: "D2", want: "85"},
		{cell: "I2", want: ""},
		{cell: "B3", want: "Bob Stone"},
		{cell: "I3", want: "yes"},
	}
	for _, c := range checks {
		got, err := f.GetCellValue("Ranked Candidates", c.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", c.cell, err)
		}
		if got != c.want {
			t.Errorf("Ranked Candidates!%s = %q, want %q", c.cell, got, c.want)
		}
	}

	title, err := f.GetCellValue("Summary", "B3")
	if err != nil {
		t.Fatal(err)
	}
	if title != "Software Engineer" {
		t.Errorf("Summary job title = %q, want %q", title, "Software Engineer")
	}
}

// TestExportToExcel_EmptyResults tests export with no ranked entries
func TestExportToExcel_EmptyResults(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_report.xlsx")

	view := ranking.NewEngine().Rank(nil, ranking.Options{})
	if err := ExportToExcel(view, models.JobDescription{Title: "Test Job"}, outputPath); err != nil {
		t.Fatalf("ExportToExcel() should handle empty results: %v", err)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		t.Errorf("Expected file at %s but it doesn't exist", outputPath)
	}
}
