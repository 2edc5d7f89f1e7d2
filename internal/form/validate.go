package form

import "strings"

// CanSubmit reports whether in may be turned into a request.
func CanSubmit(in Input) bool {
	return len(Missing(in)) == 0
}

// Missing returns the required fields that are blank after trimming, in
// display order. The description is not required in save-only mode.
func Missing(in Input) []Field {
	var missing []Field
	if DescriptionRequired(in) && isBlank(in.Description) {
		missing = append(missing, FieldDescription)
	}
	if isBlank(in.SourceFilesRaw) {
		missing = append(missing, FieldSourceFiles)
	}
	if isBlank(in.CurrentCommit) {
		missing = append(missing, FieldCurrentCommit)
	}
	return missing
}

// DescriptionRequired reports whether the description field takes input.
func DescriptionRequired(in Input) bool {
	return !in.SaveOnly
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
