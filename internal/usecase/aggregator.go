// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/naka-gawa/issue-tenure/internal/domain"
	"github.com/naka-gawa/issue-tenure/internal/gateway"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const day = 24 * time.Hour

// Options controls which issues are kept for each project.
type Options struct {
	// MaxIssues caps the rows kept per reporter. Nil keeps every issue.
	MaxIssues *int
	// MaxDate drops issues created at or after it. Nil keeps every issue.
	MaxDate *time.Time
	// Workers is the number of projects fetched concurrently; <= 1 is sequential.
	Workers int
	// OnProjectDone, if set, is called after each project is aggregated. It
	// may be called concurrently when Workers > 1.
	OnProjectDone func(domain.ProjectRef)
}

// Validate reports option values that make aggregation impossible.
func (o Options) Validate() error {
	if o.MaxIssues != nil && *o.MaxIssues < 1 {
		return domain.NewConfigurationError("max number of issues must be at least 1, got %d", *o.MaxIssues)
	}
	return nil
}

// Aggregator is the use case for building reporter summaries.
// It orchestrates fetching issues from the gateway and summarizing them.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *zap.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate summarizes every project. The result is indexed like projects,
// so output order never depends on which worker finished first. The first
// failing project aborts the whole batch.
func (a *Aggregator) Aggregate(ctx context.Context, projects []domain.ProjectRef, opts Options) ([][]domain.ReporterSummary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	results := make([][]domain.ReporterSummary, len(projects))
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, p := range projects {
		if egCtx.Err() != nil {
			break
		}
		i, p := i, p
		eg.Go(func() error {
			rows, err := a.AggregateProject(egCtx, p.Project, opts)
			if err != nil {
				return err
			}
			results[i] = rows
			if opts.OnProjectDone != nil {
				opts.OnProjectDone(p)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// AggregateProject fetches the issues of a single project and summarizes them.
func (a *Aggregator) AggregateProject(ctx context.Context, slug string, opts Options) ([]domain.ReporterSummary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	owner, repo, err := domain.SplitSlug(slug)
	if err != nil {
		return nil, err
	}

	a.logger.Info("processing project", zap.String("project", slug))
	raw, err := a.fetcher.FetchIssues(ctx, owner, repo)
	if err != nil {
		var fetchErr *domain.UpstreamFetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, &domain.UpstreamFetchError{Project: slug, Err: err}
	}

	rows := Summarize(slug, Normalize(raw), opts)
	a.logger.Debug("project summarized",
		zap.String("project", slug),
		zap.Int("issues", len(raw)),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// Summarize computes reporter tenure for one project's issues.
//
// Issues are ordered by creation time and those at or after MaxDate are
// dropped, as are issues with an unknown creation time when MaxDate is set. For each reporter the LAST MaxIssues issues are kept, while tenure
// is measured from the reporter's first surviving issue, which may itself not
// be kept. Rows come back ordered by issue number.
func Summarize(slug string, issues []domain.NormalizedIssue, opts Options) []domain.ReporterSummary {
	sorted := make([]domain.NormalizedIssue, len(issues))
	copy(sorted, issues)
	// Issues with an unknown creation time go last.
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CreatedAt, sorted[j].CreatedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})

	if opts.MaxDate != nil {
		surviving := sorted[:0]
		for _, issue := range sorted {
			if !issue.CreatedAt.IsZero() && issue.CreatedAt.Before(*opts.MaxDate) {
				surviving = append(surviving, issue)
			}
		}
		sorted = surviving
	}

	// Group by reporter, keeping first-occurrence order. Issues without a
	// reporter have no group.
	var reporters []string
	groups := make(map[string][]domain.NormalizedIssue)
	for _, issue := range sorted {
		if issue.Reporter == "" {
			continue
		}
		if _, ok := groups[issue.Reporter]; !ok {
			reporters = append(reporters, issue.Reporter)
		}
		groups[issue.Reporter] = append(groups[issue.Reporter], issue)
	}

	rows := make([]domain.ReporterSummary, 0, len(sorted))
	for _, reporter := range reporters {
		group := groups[reporter]
		// Undated issues sort last, so group[0] is dated unless none is.
		first := group[0].CreatedAt
		kept := group
		if opts.MaxIssues != nil && len(group) > *opts.MaxIssues {
			kept = group[len(group)-*opts.MaxIssues:]
		}
		for _, issue := range kept {
			rows = append(rows, domain.ReporterSummary{
				Project:   slug,
				Reporter:  issue.Reporter,
				Tenure:    tenure(first, issue.CreatedAt),
				Role:      issue.Role,
				Number:    issue.Number,
				Title:     issue.Title,
				CreatedAt: issue.CreatedAt,
				Body:      issue.Body,
				State:     issue.State,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Number < rows[j].Number
	})
	return rows
}

// tenure is the number of whole days from first to created, or zero when
// either time is unknown.
func tenure(first, created time.Time) int {
	if first.IsZero() || created.IsZero() {
		return 0
	}
	return int(created.Sub(first) / day)
}
