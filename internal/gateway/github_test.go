package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/issue-tenure/internal/domain"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// setupRESTGateway creates a RESTGateway that communicates with a mock HTTP server.
func setupRESTGateway(t *testing.T, handler http.Handler) *RESTGateway {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	return &RESTGateway{
		restClient: restClient,
		logger:     zaptest.NewLogger(t),
	}
}

// setupGraphQLGateway creates a GraphQLGateway that communicates with a mock HTTP server.
func setupGraphQLGateway(t *testing.T, handler http.Handler) *GraphQLGateway {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &GraphQLGateway{
		graphqlClient: githubv4.NewEnterpriseClient(server.URL, server.Client()),
		logger:        zaptest.NewLogger(t),
	}
}

func TestRESTGateway_FetchIssues(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    http.HandlerFunc
		expected       []domain.RawIssue
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - follows pagination and skips pull requests",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/acme/widget/issues", r.URL.Path)
				assert.Equal(t, "all", r.URL.Query().Get("state"))
				assert.Equal(t, "asc", r.URL.Query().Get("direction"))
				if r.URL.Query().Get("page") == "2" {
					fmt.Fprint(w, `[{"number": 3, "title": "third", "state": "open", "created_at": "2020-01-21T00:00:00Z",
						"author_association": "MEMBER", "user": {"login": "bob"}}]`)
					return
				}
				w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/acme/widget/issues?page=2>; rel="next"`, r.Host))
				fmt.Fprint(w, `[
					{"number": 1, "title": "first", "body": "it broke", "state": "closed", "created_at": "2020-01-01T00:00:00Z",
					 "author_association": "NONE", "user": {"login": "alice"}},
					{"number": 2, "title": "a pr", "state": "open", "created_at": "2020-01-02T00:00:00Z",
					 "author_association": "OWNER", "user": {"login": "carol"}, "pull_request": {"url": "https://example.com/pr/2"}}
				]`)
			},
			expected: []domain.RawIssue{
				{Reporter: "alice", Role: "NONE", Number: 1, Title: "first", CreatedAt: "2020-01-01T00:00:00Z", Body: "it broke", State: "closed"},
				{Reporter: "bob", Role: "MEMBER", Number: 3, Title: "third", CreatedAt: "2020-01-21T00:00:00Z", State: "open"},
			},
		},
		{
			name: "missing fields map to zero values",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[{"number": 7}]`)
			},
			expected: []domain.RawIssue{{Number: 7}},
		},
		{
			name: "empty repository",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[]`)
			},
			expected: nil,
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"message": "Bad credentials"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to list issues with REST API",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := setupRESTGateway(t, tc.handlerFunc)

			issues, err := gateway.FetchIssues(context.Background(), "acme", "widget")
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				var ghErr *github.ErrorResponse
				assert.True(t, errors.As(err, &ghErr))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, issues)
			}
		})
	}
}

func TestGraphQLGateway_FetchIssues(t *testing.T) {
	testCases := []struct {
		name           string
		responses      []string
		bodyContains   []string
		expected       []domain.RawIssue
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - pages by cursor and lower-cases state",
			responses: []string{
				`{"data":{"repository":{"issues":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},"nodes":[
					{"number":1,"title":"first","body":"b","createdAt":"2020-01-01T00:00:00Z","state":"CLOSED","authorAssociation":"NONE","author":{"login":"alice"}}]}}}}`,
				`{"data":{"repository":{"issues":{"pageInfo":{"hasNextPage":false,"endCursor":"c2"},"nodes":[
					{"number":2,"title":"second","body":"","createdAt":"2020-01-11T00:00:00Z","state":"OPEN","authorAssociation":"CONTRIBUTOR","author":{"login":"bob"}}]}}}}`,
			},
			bodyContains: []string{`"owner":"acme"`, `"name":"widget"`},
			expected: []domain.RawIssue{
				{Reporter: "alice", Role: "NONE", Number: 1, Title: "first", CreatedAt: "2020-01-01T00:00:00Z", Body: "b", State: "closed"},
				{Reporter: "bob", Role: "CONTRIBUTOR", Number: 2, Title: "second", CreatedAt: "2020-01-11T00:00:00Z", State: "open"},
			},
		},
		{
			name: "deleted author yields empty reporter",
			responses: []string{
				`{"data":{"repository":{"issues":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[
					{"number":5,"title":"orphan","body":"","createdAt":"2020-02-01T00:00:00Z","state":"OPEN","authorAssociation":"NONE","author":null}]}}}}`,
			},
			expected: []domain.RawIssue{
				{Role: "NONE", Number: 5, Title: "orphan", CreatedAt: "2020-02-01T00:00:00Z", State: "open"},
			},
		},
		{
			name:           "error case",
			responses:      []string{`{"errors":[{"message":"Could not resolve to a Repository"}]}`},
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query for issues",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				for _, want := range tc.bodyContains {
					assert.Contains(t, string(body), want)
				}
				if calls > 0 {
					assert.Contains(t, string(body), `"cursor":"c1"`)
				}
				require.Less(t, calls, len(tc.responses))
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responses[calls])
				calls++
			}
			gateway := setupGraphQLGateway(t, http.HandlerFunc(handler))

			issues, err := gateway.FetchIssues(context.Background(), "acme", "widget")

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, issues)
				assert.Equal(t, len(tc.responses), calls)
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger := zaptest.NewLogger(t)

	f, err := New("", http.DefaultClient, "", logger)
	require.NoError(t, err)
	assert.IsType(t, &RESTGateway{}, f)

	f, err = New(APIGraphQL, http.DefaultClient, "https://ghe.example.com/", logger)
	require.NoError(t, err)
	assert.IsType(t, &GraphQLGateway{}, f)

	f, err = New(APIREST, http.DefaultClient, "https://ghe.example.com/", logger)
	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", f.(*RESTGateway).restClient.BaseURL.String())

	_, err = New("soap", http.DefaultClient, "", logger)
	var cfgErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestGraphqlURL(t *testing.T) {
	assert.Equal(t, "https://ghe.example.com/api/graphql", graphqlURL("https://ghe.example.com/"))
	assert.Equal(t, "https://ghe.example.com/api/graphql", graphqlURL("https://ghe.example.com/api/v3/"))
}
