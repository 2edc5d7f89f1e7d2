package form

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
)

// Prompt runs an interactive terminal form seeded with in and writes the
// answers back through UpdateField. The description page is skipped while
// save-only is selected. Returns huh.ErrUserAborted if the user quits.
func Prompt(ctx context.Context, in *Input, accessible bool) error {
	var (
		saveOnly    = in.SaveOnly
		description = in.Description
		files       = in.SourceFilesRaw
		commit      = in.CurrentCommit
		repoURL     = in.RepositoryURL
	)

	f := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save commits to file only?").
				Description("No LLM analysis; the issue description is not needed.").
				Affirmative("Yes").
				Negative("No").
				Value(&saveOnly),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Issue Description").
				Lines(4).
				Value(&description).
				Validate(required("issue description")),
		).WithHideFunc(func() bool { return saveOnly }),
		huh.NewGroup(
			huh.NewInput().
				Title("Source Files (comma-separated)").
				Description("Enter file paths separated by commas").
				Value(&files).
				Validate(required("source files")),
			huh.NewInput().
				Title("Current Commit Hash").
				Value(&commit).
				Validate(required("current commit")),
			huh.NewInput().
				Title("Repository URL (optional)").
				Description("Leave empty to use the service's working copy").
				Value(&repoURL),
		),
	).WithAccessible(accessible)

	if err := f.RunWithContext(ctx); err != nil {
		return err
	}

	updates := []struct {
		field Field
		value string
	}{
		{FieldSaveOnly, strconv.FormatBool(saveOnly)},
		{FieldDescription, description},
		{FieldSourceFiles, files},
		{FieldCurrentCommit, commit},
		{FieldRepositoryURL, repoURL},
	}
	for _, u := range updates {
		if err := in.UpdateField(u.field, u.value); err != nil {
			return err
		}
	}
	return nil
}

func required(label string) func(string) error {
	return func(s string) error {
		if isBlank(s) {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
