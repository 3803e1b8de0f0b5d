package domain

import "fmt"

// Repository describes a source-control repository as discovered by a provider.
type Repository struct {
	Name          string
	Owner         string // GitHub owner/org; Azure DevOps project name
	DefaultBranch string
	CloneURL      string
	ProviderName  string
}

// Organization is an organization as known to IQ Server.
type Organization struct {
	ID   string
	Name string
}

// Application is an IQ Server application.
type Application struct {
	ID             string
	PublicID       string
	Name           string
	OrganizationID string
}

// SourceControl is the SCM binding attached to an IQ application.
type SourceControl struct {
	RepositoryURL string
	BaseBranch    string
}

// Summary aggregates the outcome counters of a run. It is carried by value
// through the orchestration; partial results are combined with Add.
type Summary struct {
	Created int
	Skipped int
	Scanned int
	Failed  int
	Deleted int
}

// Add returns the element-wise sum of two summaries.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		Created: s.Created + other.Created,
		Skipped: s.Skipped + other.Skipped,
		Scanned: s.Scanned + other.Scanned,
		Failed:  s.Failed + other.Failed,
		Deleted: s.Deleted + other.Deleted,
	}
}

// String renders the counters in a stable single-line form.
func (s Summary) String() string {
	return fmt.Sprintf("created=%d skipped=%d scanned=%d failed=%d deleted=%d",
		s.Created, s.Skipped, s.Scanned, s.Failed, s.Deleted)
}
