package usecase

import (
	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/issue-tenure/internal/domain"
)

// TenureStats summarizes tenure per (project, namespace), in the order the
// projects first appear in rows.
func TenureStats(rows []domain.ReporterSummary) []*domain.TenureStats {
	type key struct{ project, namespace string }

	var order []key
	tenures := make(map[key][]float64)
	reporters := make(map[key]map[string]struct{})
	for _, row := range rows {
		k := key{row.Project, row.Namespace}
		if _, ok := tenures[k]; !ok {
			order = append(order, k)
			reporters[k] = make(map[string]struct{})
		}
		tenures[k] = append(tenures[k], float64(row.Tenure))
		reporters[k][row.Reporter] = struct{}{}
	}

	result := make([]*domain.TenureStats, 0, len(order))
	for _, k := range order {
		data := stats.Float64Data(tenures[k])
		// data is never empty here, so the errors below cannot occur.
		mean, _ := data.Mean()
		median, _ := data.Median()
		p90, _ := data.PercentileNearestRank(90)
		maxTenure, _ := data.Max()
		result = append(result, &domain.TenureStats{
			Project:      k.project,
			Namespace:    k.namespace,
			Reporters:    len(reporters[k]),
			Issues:       len(data),
			MeanTenure:   mean,
			MedianTenure: median,
			P90Tenure:    p90,
			MaxTenure:    int(maxTenure),
		})
	}
	return result
}
