package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

const (
	mimeCSV   = "text/csv"
	mimeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF   = "application/pdf"
)

var campaignHeaders = []string{"Account ID", "Account", "Invites", "Connections", "Replies", "Acceptance Rate", "Reply Rate"}

// ReportExporter defines the interface for exporting reports in different formats
type ReportExporter interface {
	Export(format string, report *CampaignReport) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

// Export returns the file body, its filename and its MIME type.
func (e *reportExporter) Export(format string, report *CampaignReport) ([]byte, string, string, error) {
	base := reportFilename(report)

	switch format {
	case FormatCSV:
		data, err := e.exportCSV(report)
		if err != nil {
			return nil, "", "", err
		}
		return data, base + ".csv", mimeCSV, nil

	case FormatExcel:
		data, err := e.exportExcel(report)
		if err != nil {
			return nil, "", "", err
		}
		return data, base + ".xlsx", mimeExcel, nil

	case FormatPDF:
		data, err := e.exportPDF(report)
		if err != nil {
			return nil, "", "", err
		}
		return data, base + ".pdf", mimePDF, nil

	default:
		return nil, "", "", errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

// reportFilename looks like campaign_report_acme_2025-03-01_2025-03-31.
func reportFilename(report *CampaignReport) string {
	name := strings.ToLower(strings.TrimSpace(report.Company.Name))
	if name == "" {
		name = report.Company.ID
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
	return fmt.Sprintf("campaign_report_%s_%s_%s", name, report.Range.Range.StartDate, report.Range.Range.EndDate)
}

func percent(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 2, 64) + "%"
}

func rowValues(r CampaignReportRow) []string {
	return []string{
		r.AccountID,
		r.AccountName,
		strconv.Itoa(r.Invites),
		strconv.Itoa(r.Connections),
		strconv.Itoa(r.Replies),
		percent(r.AcceptanceRate),
		percent(r.ReplyRate),
	}
}

func totalValues(report *CampaignReport) []string {
	t := report.Totals
	return []string{
		"",
		"Total",
		strconv.Itoa(t.Invites),
		strconv.Itoa(t.Connections),
		strconv.Itoa(t.Replies),
		percent(t.AcceptanceRate),
		percent(t.ReplyRate),
	}
}

func (e *reportExporter) exportCSV(report *CampaignReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(campaignHeaders); err != nil {
		return nil, err
	}
	for _, row := range report.Rows {
		if err := writer.Write(rowValues(row)); err != nil {
			return nil, err
		}
	}
	if err := writer.Write(totalValues(report)); err != nil {
		return nil, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportExcel(report *CampaignReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Campaign"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	f.SetCellValue(sheetName, "A1", report.Company.Name)
	f.SetCellValue(sheetName, "A2", report.Range.Label)
	f.SetCellValue(sheetName, "B2", report.Range.Range.String())

	const headerRow = 4
	for i, header := range campaignHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheetName, cell, header)
	}

	row := headerRow + 1
	for _, r := range report.Rows {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.AccountID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.AccountName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Invites)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Connections)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Replies)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.AcceptanceRate)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.ReplyRate)
		row++
	}

	t := report.Totals
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), "Total")
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Invites)
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Connections)
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Replies)
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.AcceptanceRate)
	f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), t.ReplyRate)

	style, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("F%d", headerRow+1), fmt.Sprintf("G%d", row), style); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportPDF(report *CampaignReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Campaign Report: "+report.Company.Name)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("%s (%s)", report.Range.Label, report.Range.Range))
	pdf.Ln(14)

	widths := []float64{45, 70, 30, 30, 30, 35, 30}
	pdf.SetFont("Arial", "B", 10)
	for i, header := range campaignHeaders {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range report.Rows {
		for i, v := range rowValues(row) {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	for i, v := range totalValues(report) {
		align := "R"
		if i < 2 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 6, v, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
