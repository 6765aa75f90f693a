package commands

import (
	"fmt"
	"path/filepath"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mdsync/internal/content"
	"github.com/thoreinstein/mdsync/internal/diag"
	"github.com/thoreinstein/mdsync/internal/errors"
	"github.com/thoreinstein/mdsync/pkg/fileutil"
)

var (
	validateFile        string
	validateFormat      string
	validateInteractive bool
)

func init() {
	validateCmd.Flags().StringVar(&validateFile, "file", "",
		"validate a single file instead of the whole repository")
	validateCmd.Flags().StringVar(&validateFormat, "format", "text",
		"output format: text, json, yaml")
	validateCmd.Flags().BoolVarP(&validateInteractive, "interactive", "i", false,
		"pick a content item to validate with a fuzzy finder")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate the content repository",
	Long: `Validate every content item under the repository root, or a single
file with --file, or an interactively picked item with --interactive.

The repository root is found by walking up from the given path (default:
the current directory) until a content/ directory or .mdsync.toml is found.

Exit codes:
  0 - No problems found
  1 - Problems found, or the input was invalid
  2 - A system error prevented validation`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(c *cobra.Command, args []string) error {
	format := diag.Format(validateFormat)
	if !diag.ValidFormat(format) {
		return errors.NewUserError(
			errors.Newf("unknown format %q", validateFormat),
			"Valid formats: text, json, yaml")
	}

	startDir := "."
	if len(args) > 0 {
		startDir = args[0]
	}

	s, err := newSetup(c, startDir)
	if err != nil {
		return err
	}

	var result diag.Result
	switch {
	case validateInteractive:
		res, done, ierr := runInteractiveValidate(c, s)
		if ierr != nil || !done {
			return ierr
		}
		result = res
	case validateFile != "":
		path, perr := filepath.Abs(validateFile)
		if perr != nil {
			return errors.Wrap(perr, "resolving file path")
		}
		if !fileutil.Exists(path) {
			return errors.NewUserError(
				errors.Wrapf(errors.ErrNotFound, "%s", validateFile),
				"Pass a path to an existing index.json or index.mdx")
		}
		result = s.engine.ValidateFile(path)
	default:
		result = s.engine.ValidateAll()
	}

	reporter := diag.NewReporter(c.OutOrStdout(), format)
	if err := reporter.Report(&result); err != nil {
		return errors.NewExitError(err, errors.ExitSystem)
	}

	if result.Count() > 0 {
		return errors.NewExitError(errors.New("validation failed"), errors.ExitUser)
	}
	return nil
}

// runInteractiveValidate lets the user pick one discovered item and
// validates both of its documents. done is false when the picker was
// aborted, in which case nothing was validated.
func runInteractiveValidate(c *cobra.Command, s *setup) (result diag.Result, done bool, err error) {
	items, err := content.Discover(s.contentRoot)
	if err != nil {
		return result, false, errors.NewExitError(err, errors.ExitSystem)
	}
	if len(items) == 0 {
		fmt.Fprintln(c.OutOrStdout(), "No content items found.")
		return result, false, nil
	}

	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string {
			return items[i].String()
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			item := items[i]
			return fmt.Sprintf("Type: %s\nSlug: %s\n\nMetadata: %s\nBody:     %s",
				item.Type,
				item.Slug,
				item.MetadataPath(s.contentRoot),
				item.BodyPath(s.contentRoot),
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return result, false, nil
		}
		return result, false, errors.Wrap(err, "interactive selection failed")
	}

	item := items[idx]
	result.Merge(s.engine.ValidateFile(item.MetadataPath(s.contentRoot)))
	result.Merge(s.engine.ValidateFile(item.BodyPath(s.contentRoot)))
	return result, true, nil
}
