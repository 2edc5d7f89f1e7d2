package contracts

// AnalyzeRequest represents the request body for POST /api/analyze.
// RepositoryURL is nil when the service should use its local working copy.
type AnalyzeRequest struct {
	Description   string   `json:"description" required:"true"`
	SourceFiles   []string `json:"source_files" required:"true" nullable:"false"`
	CurrentCommit string   `json:"current_commit" required:"true" minLength:"1"`
	RepositoryURL *string  `json:"repository_url,omitempty"`
	SaveOnly      bool     `json:"save_only" required:"true"`
}

// CommitCandidate represents one element of the POST /api/analyze response.
type CommitCandidate struct {
	CommitHash     string  `json:"commit_hash" required:"true"`
	CommitMessage  string  `json:"commit_message" required:"true"`
	Explanation    string  `json:"explanation" required:"true"`
	RelevanceScore float64 `json:"relevance_score" required:"true" minimum:"0" maximum:"1"`
}

// ErrorResponse is the optional body of a non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse represents the API response for GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
