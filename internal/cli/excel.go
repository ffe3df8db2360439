package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/jobfit/internal/models"
	"github.com/hyperjump/jobfit/internal/retrieval"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	resultsSheet = "Ranked Jobs"
)

var resultHeaders = []string{
	"Rank", "Job ID", "Title", "Company", "Location", "Relevance", "Decision", "Work rights",
}

// ExportExcel writes the ranked results of resp to an .xlsx workbook at path, appending the
// extension when missing. It returns the path written.
func ExportExcel(path string, resp *models.MatchResponse) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return "", err
	}
	if err := writeSummarySheet(f, resp); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeResultsSheet(f, resp.Results); err != nil {
		return "", fmt.Errorf("failed to create results sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}

func writeSummarySheet(f *excelize.File, resp *models.MatchResponse) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 60); err != nil {
		return err
	}
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

	if err := f.SetCellValue(summarySheet, "A1", "Job Match Report"); err != nil {
		return err
	}
	if err := f.MergeCell(summarySheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", titleStyle); err != nil {
		return err
	}

	eligible := 0
	for _, r := range resp.Results {
		if r.Eligibility.Eligible {
			eligible++
		}
	}
	rows := [][2]interface{}{
		{"Run ID:", resp.RunID},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Level:", resp.Profile.Level},
		{"Skills:", strings.Join(resp.Profile.Skills, ", ")},
		{"Jobs ranked:", len(resp.Results)},
		{"Eligible jobs:", eligible},
	}
	if best := resp.BestEligible(); best != nil {
		rows = append(rows,
			[2]interface{}{"Best matching job:", best.Title},
			[2]interface{}{"Company:", retrieval.CompanyOrDefault(best.Company)},
			[2]interface{}{"Relevance score:", retrieval.FormatScore(best.Score)},
		)
	}
	for i, kv := range rows {
		row := i + 3
		label := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(summarySheet, label, kv[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, label, label, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeResultsSheet(f *excelize.File, results []*models.RankedResult) error {
	widths := []float64{8, 12, 40, 28, 20, 12, 50, 40}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(resultsSheet, col, col, width); err != nil {
			return err
		}
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return err
	}
	applyStyle, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return err
	}
	skipStyle, err := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(resultHeaders))
	for i, h := range resultHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(resultHeaders))
	if err := f.SetCellStyle(resultsSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, r := range results {
		row := i + 2
		values := []interface{}{
			r.Rank, r.JobID, r.Title, r.Company, r.Location,
			retrieval.FormatScore(r.Score), r.Decision, r.Eligibility.WorkRights,
		}
		if err := f.SetSheetRow(resultsSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
		style := skipStyle
		if r.Eligibility.Eligible {
			style = applyStyle
		}
		if err := f.SetCellStyle(resultsSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), style); err != nil {
			return err
		}
	}

	if len(results) > 0 {
		ref := fmt.Sprintf("A1:%s%d", lastCol, len(results)+1)
		if err := f.AutoFilter(resultsSheet, ref, []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}
	return f.SetPanes(resultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
