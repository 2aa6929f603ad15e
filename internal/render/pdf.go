package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/bryanwahyu/inspection-ai/internal/domain/report"
)

var (
	colorCritical  = [3]int{220, 50, 50}
	colorCompliant = [3]int{0, 128, 0}
	colorBody      = [3]int{0, 0, 0}
)

// PDF renders the formatted-document export: title section, executive
// summary with critical issues visually distinguished, one subsection per
// finding embedding the matching frame image when it exists on disk, the
// maintenance schedule, and running page numbers in the footer. A missing
// frame file skips that finding's image without failing the render.
func PDF(r *report.Report, framesDir string, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(colorBody[0], colorBody[1], colorBody[2])
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	writeHeader(pdf, now)
	writeExecutiveSummary(pdf, r)
	writeFindings(pdf, r, framesDir)
	writeMaintenance(pdf, r)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf, now time.Time) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "HOME INSPECTION REPORT", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Date: "+now.Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Prepared by: AI Home Inspection System", "", 1, "C", false, 0, "")
	pdf.Ln(6)
}

func writeExecutiveSummary(pdf *gofpdf.Fpdf, r *report.Report) {
	heading(pdf, "Executive Summary")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(42, 6, "Overall Condition: ")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, r.ExecutiveSummary.OverallCondition, "", "L", false)
	pdf.Ln(2)

	subheading(pdf, "Critical Issues")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(colorCritical[0], colorCritical[1], colorCritical[2])
	for _, issue := range r.ExecutiveSummary.CriticalIssues {
		bullet(pdf, issue)
	}
	pdf.SetTextColor(colorBody[0], colorBody[1], colorBody[2])
	pdf.Ln(2)

	subheading(pdf, "Recommended Actions")
	pdf.SetFont("Helvetica", "", 11)
	for _, action := range r.ExecutiveSummary.RecommendedActions {
		bullet(pdf, action)
	}
	pdf.AddPage()
}

func writeFindings(pdf *gofpdf.Fpdf, r *report.Report, framesDir string) {
	heading(pdf, "Detailed Inspection Findings")

	for _, f := range r.DetailedInspection {
		subheading(pdf, fmt.Sprintf("%s - %s", f.Area, f.Condition))

		if f.MediaReference != "" {
			embedFrame(pdf, framesDir, f)
		}

		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(42, 6, "Compliance Status: ")
		if f.ComplianceStatus == report.NonCompliant {
			pdf.SetTextColor(colorCritical[0], colorCritical[1], colorCritical[2])
		} else {
			pdf.SetTextColor(colorCompliant[0], colorCompliant[1], colorCompliant[2])
		}
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, string(f.ComplianceStatus), "", 1, "L", false, 0, "")
		pdf.SetTextColor(colorBody[0], colorBody[1], colorBody[2])

		if len(f.IssuesFound) > 0 {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(0, 6, "Issues Found", "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			for _, issue := range f.IssuesFound {
				bullet(pdf, issue)
			}
		}

		if f.ReferenceDoc != "" && f.ReferenceSection != "" {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.Cell(42, 6, "Standard Reference: ")
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, fmt.Sprintf("%s - %s", f.ReferenceDoc, f.ReferenceSection), "", "L", false)
		}

		if f.Recommendation != "" {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.Cell(42, 6, "Recommendation: ")
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, f.Recommendation, "", "L", false)
		}

		pdf.Ln(4)
	}
}

func embedFrame(pdf *gofpdf.Fpdf, framesDir string, f report.Finding) {
	path := filepath.Join(framesDir, f.MediaReference+".jpg")
	if _, err := os.Stat(path); err != nil {
		return // frame not on disk, skip this finding's image
	}
	pdf.ImageOptions(path, -1, -1, 100, 0, true, gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	caption := fmt.Sprintf("Figure: %s at %s", f.Area, orUnknown(f.Timestamp))
	pdf.CellFormat(0, 5, caption, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func writeMaintenance(pdf *gofpdf.Fpdf, r *report.Report) {
	heading(pdf, "Maintenance Schedule")

	for _, s := range r.MaintenanceNotes.MaintenanceSchedule {
		subheading(pdf, s.Frequency+" Tasks")
		pdf.SetFont("Helvetica", "", 11)
		for _, task := range s.Tasks {
			bullet(pdf, task)
		}
		pdf.Ln(2)
	}

	if len(r.MaintenanceNotes.CostConsiderations) > 0 {
		subheading(pdf, "Cost Considerations")
		pdf.SetFont("Helvetica", "", 11)
		for _, cost := range r.MaintenanceNotes.CostConsiderations {
			bullet(pdf, cost)
		}
	}
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(colorBody[0], colorBody[1], colorBody[2])
	pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func subheading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
}

func bullet(pdf *gofpdf.Fpdf, text string) {
	pdf.MultiCell(0, 6, "- "+text, "", "L", false)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown time"
	}
	return s
}
