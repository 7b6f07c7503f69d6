// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"strings"
	"time"
)

// Role is the reporter's relationship to the repository, as reported by
// GitHub's author_association field.
type Role string

const (
	RoleNone         Role = "NONE"
	RoleMember       Role = "MEMBER"
	RoleContributor  Role = "CONTRIBUTOR"
	RoleCollaborator Role = "COLLABORATOR"
	RoleOwner        Role = "OWNER"
)

// State is the issue status.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// ParseState lower-cases the GraphQL enum form (OPEN, CLOSED) into the REST form.
func ParseState(s string) State {
	return State(strings.ToLower(s))
}

// ProjectRef is one row of the input table.
type ProjectRef struct {
	Project   string // repository slug, "owner/repo"
	Namespace string // name the project is imported under
}

// RawIssue is a single issue as returned by a gateway.
// Fields absent upstream are left at their zero value.
type RawIssue struct {
	Reporter  string
	Role      string
	Number    int
	Title     string
	CreatedAt string // ISO-8601, e.g. 2020-01-01T00:00:00Z
	Body      string
	State     string
}

// NormalizedIssue is the remapped record the aggregator works on.
type NormalizedIssue struct {
	Reporter  string
	Role      Role
	Number    int
	Title     string
	CreatedAt time.Time
	Body      string
	State     State
}

// ReporterSummary is one output row: a kept issue together with the tenure of
// its reporter at the time the issue was filed.
type ReporterSummary struct {
	Project   string    `json:"project"`
	Namespace string    `json:"namespace"`
	Reporter  string    `json:"reporter"`
	Tenure    int       `json:"tenure"`
	Role      Role      `json:"role"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Body      string    `json:"body"`
	State     State     `json:"state"`
}

// SplitSlug splits "owner/repo" into its parts.
func SplitSlug(slug string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", NewConfigurationError("invalid project slug %q, expected owner/repo", slug)
	}
	return owner, repo, nil
}
