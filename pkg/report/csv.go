package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/elonfeng/bullhorn/internal/logger"
	"go.uber.org/zap"
)

// Output file names, fixed by the report format.
const (
	ViewsFile      = "views_per_edition.csv"
	LinesFile      = "bullhorn_filtered_lines.csv"
	UserCountFile  = "user_count_per_post.csv"
	UserTotalsFile = "total_contributions_per_user.csv"
)

// CSVExporter writes the four report files into a directory. Each file
// is independent: a failed write is logged and the rest still go out.
type CSVExporter struct {
	dir string
	log logger.Logger
}

// NewCSVExporter creates an exporter targeting dir.
func NewCSVExporter(dir string, log logger.Logger) *CSVExporter {
	if dir == "" {
		dir = "."
	}
	return &CSVExporter{dir: dir, log: log}
}

// Export writes all four report files, best effort.
func (e *CSVExporter) Export(r *Report) {
	e.write(ViewsFile, []string{"id", "title", "views", "like_count"}, viewsRows(r))
	e.write(LinesFile, []string{"post_id", "title", "user", "matrix_link"}, lineRows(r))
	e.write(UserCountFile, []string{"id", "title", "number_of_users"}, userCountRows(r))
	e.write(UserTotalsFile, []string{"user", "contributions"}, userTotalRows(r))
}

func (e *CSVExporter) write(name string, header []string, rows [][]string) {
	path := filepath.Join(e.dir, name)
	if err := writeCSV(path, header, rows); err != nil {
		e.log.Error("failed to write report", zap.String("file", path), zap.Error(err))
		return
	}
	e.log.Info("saved report", zap.String("file", path), zap.Int("rows", len(rows)))
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func viewsRows(r *Report) [][]string {
	rows := make([][]string, 0, len(r.Topics))
	for _, t := range r.Topics {
		rows = append(rows, []string{
			strconv.Itoa(t.ID), t.Title, strconv.Itoa(t.Views), strconv.Itoa(t.LikeCount),
		})
	}
	return rows
}

func lineRows(r *Report) [][]string {
	rows := make([][]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		rows = append(rows, []string{
			strconv.Itoa(l.PostID), l.Title, l.User, l.MatrixLink,
		})
	}
	return rows
}

func userCountRows(r *Report) [][]string {
	rows := make([][]string, 0, len(r.UserCounts))
	for _, c := range r.UserCounts {
		rows = append(rows, []string{
			strconv.Itoa(c.ID), c.Title, strconv.Itoa(c.NumberOfUsers),
		})
	}
	return rows
}

func userTotalRows(r *Report) [][]string {
	rows := make([][]string, 0, len(r.UserTotals))
	for _, u := range r.UserTotals {
		rows = append(rows, []string{u.User, strconv.Itoa(u.Contributions)})
	}
	return rows
}
