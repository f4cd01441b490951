package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the four reports as one workbook, a sheet per
// report, sheets carrying the same columns as their CSV counterparts.
func WriteXLSX(path string, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"views_per_edition", []string{"id", "title", "views", "like_count"}, viewsRows(r)},
		{"bullhorn_filtered_lines", []string{"post_id", "title", "user", "matrix_link"}, lineRows(r)},
		{"user_count_per_post", []string{"id", "title", "number_of_users"}, userCountRows(r)},
		{"total_contributions_per_user", []string{"user", "contributions"}, userTotalRows(r)},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", sheet.name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet.name, err)
			}
		}

		if err := setRow(f, sheet.name, 1, sheet.header); err != nil {
			return err
		}
		for j, row := range sheet.rows {
			if err := setRow(f, sheet.name, j+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
