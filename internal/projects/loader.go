// Package projects loads the table of projects to mine.
package projects

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/naka-gawa/issue-tenure/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Required columns of the input table.
const (
	ColumnProject   = "project"
	ColumnNamespace = "namespace"
)

// Load reads a comma-separated table with a header row. Columns other than
// project and namespace are ignored.
func Load(r io.Reader) ([]domain.ProjectRef, error) {
	// Spreadsheet exports often start with a byte-order mark, which would
	// otherwise end up in the first header name.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.NewConfigurationError("the input file is empty, expected columns: %s,%s", ColumnProject, ColumnNamespace)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range []string{ColumnProject, ColumnNamespace} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, domain.NewConfigurationError("the input file doesn't contain required columns: %s", strings.Join(missing, ","))
	}

	var projects []domain.ProjectRef
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		line, _ := reader.FieldPos(0)
		ref := domain.ProjectRef{
			Project:   field(record, index[ColumnProject]),
			Namespace: field(record, index[ColumnNamespace]),
		}
		if ref.Project == "" {
			return nil, domain.NewConfigurationError("line %d: empty project", line)
		}
		if _, _, err := domain.SplitSlug(ref.Project); err != nil {
			return nil, domain.NewConfigurationError("line %d: %v", line, err)
		}
		projects = append(projects, ref)
	}
	return projects, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
