// Package report assembles and serializes reporter summaries.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/naka-gawa/issue-tenure/internal/domain"
)

// Columns is the header of every output table. The first two form the
// (project, namespace) index.
var Columns = []string{
	"project", "namespace",
	"reporter", "tenure", "role", "number", "title", "created_at", "body", "state",
}

// Output formats accepted by NewWriter.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Writer serializes summaries to w.
type Writer interface {
	Write(w io.Writer, rows []domain.ReporterSummary) error
}

// NewWriter returns the Writer for format.
func NewWriter(format string) (Writer, error) {
	switch format {
	case FormatCSV, "":
		return &CSVWriter{}, nil
	case FormatXLSX:
		return &XLSXWriter{}, nil
	default:
		return nil, domain.NewConfigurationError("unknown output format %q, expected %s or %s", format, FormatCSV, FormatXLSX)
	}
}

// Concat joins per-project results in project order and attaches each row's
// namespace by looking its project up in projects. results[i] belongs to
// projects[i]. When a slug is listed twice the first namespace wins.
func Concat(projects []domain.ProjectRef, results [][]domain.ReporterSummary) []domain.ReporterSummary {
	namespaces := make(map[string]string, len(projects))
	for _, p := range projects {
		if _, ok := namespaces[p.Project]; !ok {
			namespaces[p.Project] = p.Namespace
		}
	}

	var total int
	for _, rows := range results {
		total += len(rows)
	}
	all := make([]domain.ReporterSummary, 0, total)
	for _, rows := range results {
		for _, row := range rows {
			row.Namespace = namespaces[row.Project]
			all = append(all, row)
		}
	}
	return all
}

// record renders a row in Columns order.
func record(row domain.ReporterSummary) []string {
	return []string{
		row.Project,
		row.Namespace,
		row.Reporter,
		strconv.Itoa(row.Tenure),
		string(row.Role),
		strconv.Itoa(row.Number),
		row.Title,
		formatTime(row.CreatedAt),
		row.Body,
		string(row.State),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// WriteDestination writes rows to dest, where "-" means stdout. Files are
// written to a temporary sibling and renamed into place, so a failed write
// never leaves a partial file behind.
func WriteDestination(dest string, stdout io.Writer, w Writer, rows []domain.ReporterSummary) (err error) {
	if dest == "-" || dest == "" {
		return w.Write(stdout, rows)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = w.Write(tmp, rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to set output file mode: %w", err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
