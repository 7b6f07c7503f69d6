package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/naka-gawa/issue-tenure/internal/domain"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
)

// GraphQLGateway lists issues through the v4 GraphQL API.
type GraphQLGateway struct {
	graphqlClient *githubv4.Client
	logger        *zap.Logger
}

// repoIssuesQuery pages through a repository's issues in creation order.
type repoIssuesQuery struct {
	Repository struct {
		Issues struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Number            int
				Title             string
				Body              string
				CreatedAt         githubv4.DateTime
				State             githubv4.IssueState
				AuthorAssociation githubv4.CommentAuthorAssociation
				Author            struct {
					Login string
				}
			}
		} `graphql:"issues(first: 100, after: $cursor, orderBy: {field: CREATED_AT, direction: ASC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGraphQLGateway creates a GraphQL gateway. An empty baseURL targets github.com.
func NewGraphQLGateway(httpClient *http.Client, baseURL string, logger *zap.Logger) *GraphQLGateway {
	client := githubv4.NewClient(httpClient)
	if baseURL != "" {
		client = githubv4.NewEnterpriseClient(graphqlURL(baseURL), httpClient)
	}
	return &GraphQLGateway{
		graphqlClient: client,
		logger:        logger,
	}
}

// FetchIssues returns every issue of owner/repo regardless of state, oldest first.
func (g *GraphQLGateway) FetchIssues(ctx context.Context, owner, repo string) ([]domain.RawIssue, error) {
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"cursor": (*githubv4.String)(nil),
	}
	var issues []domain.RawIssue
	for {
		var q repoIssuesQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for issues: %w", err)
		}
		for _, node := range q.Repository.Issues.Nodes {
			issues = append(issues, domain.RawIssue{
				Reporter:  node.Author.Login,
				Role:      string(node.AuthorAssociation),
				Number:    node.Number,
				Title:     node.Title,
				CreatedAt: formatTimestamp(node.CreatedAt.Time),
				Body:      node.Body,
				State:     string(domain.ParseState(string(node.State))),
			})
		}
		if !q.Repository.Issues.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Repository.Issues.PageInfo.EndCursor)
		g.logger.Debug("fetching next page of issues", zap.String("repo", owner+"/"+repo))
	}
	return issues, nil
}
