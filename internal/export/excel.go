// Package export writes batches of parse results to spreadsheets.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/resume-parser/internal/types"
)

// Sheet names, in workbook order.
const (
	ContactsSheet   = "Contacts"
	ExperienceSheet = "Experience"
	EducationSheet  = "Education"
	SkillsSheet     = "Skills"
)

// Entry is one parsed document to export
type Entry struct {
	Filename string
	Result   *types.ParseResult
}

var (
	contactHeaders    = []string{"File", "Name", "Email", "Phone", "Location", "LinkedIn", "Sections Found", "Missing Fields"}
	experienceHeaders = []string{"File", "Position", "Company", "Duration", "Description", "Achievements"}
	educationHeaders  = []string{"File", "Institution", "Degree", "Graduation Year"}
	skillsHeaders     = []string{"File", "Category", "Skill"}
)

// ExportToExcel writes the entries to an .xlsx workbook at outputPath.
// The .xlsx extension is appended when missing.
func ExportToExcel(entries []Entry, outputPath string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f, err := Build(entries)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return outputPath, nil
}

// Write streams the workbook to w.
func Write(w io.Writer, entries []Entry) error {
	f, err := Build(entries)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// Build assembles the workbook in memory. Entries with a nil result are skipped.
func Build(entries []Entry) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", ContactsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{ExperienceSheet, EducationSheet, SkillsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	sheets := []struct {
		name    string
		headers []string
		widths  []float64
		rows    func(e Entry) [][]any
	}{
		{ContactsSheet, contactHeaders, []float64{25, 25, 30, 16, 25, 35, 35, 30}, contactRows},
		{ExperienceSheet, experienceHeaders, []float64{25, 30, 25, 22, 60, 50}, experienceRows},
		{EducationSheet, educationHeaders, []float64{25, 45, 40, 16}, educationRows},
		{SkillsSheet, skillsHeaders, []float64{25, 14, 35}, skillRows},
	}

	for _, s := range sheets {
		var rows [][]any
		for _, e := range entries {
			if e.Result == nil {
				continue
			}
			rows = append(rows, s.rows(e)...)
		}
		if err := writeSheet(f, s.name, s.headers, s.widths, rows, headerStyle, wrapStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create %s sheet: %w", strings.ToLower(s.name), err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, widths []float64, rows [][]any, headerStyle, wrapStyle int) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		end, err := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A2", end, wrapStyle); err != nil {
			return err
		}
		if err := f.AutoFilter(sheet, "A1:"+end, []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}

	// Freeze top row
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func contactRows(e Entry) [][]any {
	c := e.Result.Contact
	sections := make([]string, 0, len(e.Result.Metadata.SectionsFound))
	for _, s := range e.Result.Metadata.SectionsFound {
		sections = append(sections, string(s))
	}
	return [][]any{{
		e.Filename, c.Name, c.Email, c.Phone, c.Location, c.LinkedIn,
		strings.Join(sections, ", "),
		strings.Join(e.Result.Metadata.MissingFields, ", "),
	}}
}

func experienceRows(e Entry) [][]any {
	rows := make([][]any, 0, len(e.Result.Experience))
	for _, x := range e.Result.Experience {
		rows = append(rows, []any{
			e.Filename, x.Position, x.Company, x.Duration,
			strings.Join(x.Description, "\n"),
			strings.Join(x.Achievements, "\n"),
		})
	}
	return rows
}

func educationRows(e Entry) [][]any {
	rows := make([][]any, 0, len(e.Result.Education))
	for _, ed := range e.Result.Education {
		rows = append(rows, []any{e.Filename, ed.Institution, ed.Degree, ed.GraduationYear})
	}
	return rows
}

func skillRows(e Entry) [][]any {
	var rows [][]any
	for _, category := range types.SkillCategories {
		for _, skill := range e.Result.Skills.Get(category) {
			rows = append(rows, []any{e.Filename, string(category), skill})
		}
	}
	return rows
}
