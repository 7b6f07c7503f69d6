package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/naka-gawa/issue-tenure/internal/domain"
)

// CSVWriter writes a UTF-8, comma-separated table with a header row.
type CSVWriter struct{}

func (CSVWriter) Write(w io.Writer, rows []domain.ReporterSummary) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(record(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV parses a table written by CSVWriter. Extra columns are ignored.
func ReadCSV(r io.Reader) ([]domain.ReporterSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.NewConfigurationError("the input file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, domain.NewConfigurationError("the input file doesn't contain required columns: %s", strings.Join(missing, ","))
	}

	var rows []domain.ReporterSummary
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		get := func(col string) string {
			if i := index[col]; i < len(rec) {
				return rec[i]
			}
			return ""
		}
		line, _ := reader.FieldPos(0)

		tenure, err := strconv.Atoi(get("tenure"))
		if err != nil {
			return nil, domain.NewConfigurationError("line %d: invalid tenure %q", line, get("tenure"))
		}
		number, err := strconv.Atoi(get("number"))
		if err != nil {
			return nil, domain.NewConfigurationError("line %d: invalid number %q", line, get("number"))
		}
		var createdAt time.Time
		if s := get("created_at"); s != "" {
			if createdAt, err = time.Parse(time.RFC3339, s); err != nil {
				return nil, domain.NewConfigurationError("line %d: invalid created_at %q", line, s)
			}
		}
		rows = append(rows, domain.ReporterSummary{
			Project:   get("project"),
			Namespace: get("namespace"),
			Reporter:  get("reporter"),
			Tenure:    tenure,
			Role:      domain.Role(get("role")),
			Number:    number,
			Title:     get("title"),
			CreatedAt: createdAt,
			Body:      get("body"),
			State:     domain.State(get("state")),
		})
	}
	return rows, nil
}
