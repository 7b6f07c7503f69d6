// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/issue-tenure/internal/domain"
	"go.uber.org/zap"
)

// Fetcher defines the behavior of a gateway for fetching issues from GitHub.
// An error means the transport or authorization failed; a repository without
// issues yields an empty slice.
type Fetcher interface {
	FetchIssues(ctx context.Context, owner, repo string) ([]domain.RawIssue, error)
}

// RESTGateway lists issues through the v3 REST API.
type RESTGateway struct {
	restClient *github.Client
	logger     *zap.Logger
}

// NewRESTGateway creates a REST gateway. An empty baseURL targets github.com;
// otherwise it is treated as a GitHub Enterprise host.
func NewRESTGateway(httpClient *http.Client, baseURL string, logger *zap.Logger) (*RESTGateway, error) {
	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set enterprise URL %q: %w", baseURL, err)
		}
	}
	return &RESTGateway{
		restClient: client,
		logger:     logger,
	}, nil
}

// FetchIssues returns every issue of owner/repo regardless of state, oldest
// first. Pull requests, which the issues endpoint also returns, are skipped.
func (g *RESTGateway) FetchIssues(ctx context.Context, owner, repo string) ([]domain.RawIssue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var issues []domain.RawIssue
	for {
		page, resp, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues with REST API: %w", err)
		}
		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, issueFromREST(issue))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("fetching next page of issues", zap.String("repo", owner+"/"+repo), zap.Int("page", opts.Page))
	}
	return issues, nil
}

func issueFromREST(issue *github.Issue) domain.RawIssue {
	return domain.RawIssue{
		Reporter:  issue.GetUser().GetLogin(),
		Role:      issue.GetAuthorAssociation(),
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		CreatedAt: formatTimestamp(issue.GetCreatedAt().Time),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
	}
}

// formatTimestamp renders t the way GitHub does (RFC 3339, UTC). The zero
// time renders as an empty string.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// graphqlURL derives the GraphQL endpoint of an enterprise host from its REST base URL.
func graphqlURL(baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	base = strings.TrimSuffix(base, "/api/v3")
	return base + "/api/graphql"
}

// API backends accepted by New.
const (
	APIREST    = "rest"
	APIGraphQL = "graphql"
)

// New is a constructor that returns the Fetcher for the named API backend.
func New(api string, httpClient *http.Client, baseURL string, logger *zap.Logger) (Fetcher, error) {
	switch api {
	case APIREST, "":
		return NewRESTGateway(httpClient, baseURL, logger)
	case APIGraphQL:
		return NewGraphQLGateway(httpClient, baseURL, logger), nil
	default:
		return nil, domain.NewConfigurationError("unknown api %q, expected %s or %s", api, APIREST, APIGraphQL)
	}
}
