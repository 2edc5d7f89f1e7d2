package form

import (
	"strings"

	"github.com/sergeknystautas/commitdetective/internal/api/contracts"
)

// Build snapshots in into an analyze request. It fails with an
// *InvalidInputError when CanSubmit(in) is false.
func Build(in Input) (contracts.AnalyzeRequest, error) {
	if missing := Missing(in); len(missing) > 0 {
		return contracts.AnalyzeRequest{}, &InvalidInputError{Missing: missing}
	}

	req := contracts.AnalyzeRequest{
		Description:   in.Description,
		SourceFiles:   SplitSourceFiles(in.SourceFilesRaw),
		CurrentCommit: in.CurrentCommit,
		SaveOnly:      in.SaveOnly,
	}
	// Empty means "use the service's working copy", so it must not be sent.
	if in.RepositoryURL != "" {
		url := in.RepositoryURL
		req.RepositoryURL = &url
	}
	return req, nil
}

// SplitSourceFiles splits a comma-delimited list and trims every token.
// Empty tokens are kept so malformed input round-trips one to one.
func SplitSourceFiles(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
