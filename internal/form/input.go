package form

import (
	"fmt"
	"strconv"
)

// Field names a single form input.
type Field string

const (
	FieldDescription   Field = "description"
	FieldSourceFiles   Field = "source_files"
	FieldCurrentCommit Field = "current_commit"
	FieldRepositoryURL Field = "repository_url"
	FieldSaveOnly      Field = "save_only"
)

// Fields lists every form input in display order.
var Fields = []Field{
	FieldDescription,
	FieldSourceFiles,
	FieldCurrentCommit,
	FieldRepositoryURL,
	FieldSaveOnly,
}

// Input is the raw state of one form session.
type Input struct {
	Description string `yaml:"description" json:"description"`
	// SourceFilesRaw is the comma-delimited file list exactly as typed.
	SourceFilesRaw string `yaml:"source_files" json:"source_files"`
	CurrentCommit  string `yaml:"current_commit" json:"current_commit"`
	RepositoryURL  string `yaml:"repository_url" json:"repository_url"`
	SaveOnly       bool   `yaml:"save_only" json:"save_only"`
}

// UpdateField stores raw verbatim into the named field. The save-only flag is
// the one exception: raw is parsed as a boolean.
func (in *Input) UpdateField(field Field, raw string) error {
	switch field {
	case FieldDescription:
		in.Description = raw
	case FieldSourceFiles:
		in.SourceFilesRaw = raw
	case FieldCurrentCommit:
		in.CurrentCommit = raw
	case FieldRepositoryURL:
		in.RepositoryURL = raw
	case FieldSaveOnly:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", field, raw)
		}
		in.SaveOnly = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Value returns the raw value of the named field.
func (in Input) Value(field Field) (string, error) {
	switch field {
	case FieldDescription:
		return in.Description, nil
	case FieldSourceFiles:
		return in.SourceFilesRaw, nil
	case FieldCurrentCommit:
		return in.CurrentCommit, nil
	case FieldRepositoryURL:
		return in.RepositoryURL, nil
	case FieldSaveOnly:
		return strconv.FormatBool(in.SaveOnly), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}
