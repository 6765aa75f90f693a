package commands

import (
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mdsync/internal/cli/prompt"
	"github.com/thoreinstein/mdsync/internal/errors"
	"github.com/thoreinstein/mdsync/internal/validate"
)

var syncYes bool

func init() {
	syncCmd.Flags().BoolVarP(&syncYes, "yes", "y", false,
		"proceed even when validation finds problems, without prompting")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [path]",
	Short: "Validate the repository and run the configured sync command",
	Long: `Run a full validation pass and, if it passes or the user confirms,
execute the sync command configured under sync.command (in .mdsync.toml
or the global config). The command runs with the repository root as its
working directory.

When validation finds problems, sync asks for confirmation before
proceeding. Use --yes to skip the prompt in scripts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func runSync(c *cobra.Command, args []string) error {
	startDir := "."
	if len(args) > 0 {
		startDir = args[0]
	}

	var confirmer validate.Confirmer
	if syncYes {
		confirmer = validate.ConfirmerFunc(func(int) (bool, error) { return true, nil })
	} else {
		confirmer = prompt.NewConfirmer()
	}

	s, err := newSetup(c, startDir, validate.WithConfirmer(confirmer))
	if err != nil {
		return err
	}

	if s.config.Sync.Command == "" {
		return errors.NewUserError(
			errors.Wrap(errors.ErrInvalidConfig, "no sync command configured"),
			"Set sync.command in .mdsync.toml or the global config")
	}

	if !s.engine.ValidateBeforeSync() {
		return errors.NewUserError(errors.ErrSyncCancelled,
			"Fix the reported problems, or rerun with --yes to sync anyway")
	}

	return runSyncCommand(c, s)
}

// runSyncCommand executes the configured command through the shell with the
// repository root as working directory.
func runSyncCommand(c *cobra.Command, s *setup) error {
	s.logger.Info("running sync command",
		"command", s.config.Sync.Command,
		"dir", s.workspace.Root)

	syncExec := exec.CommandContext(c.Context(), "sh", "-c", s.config.Sync.Command)
	syncExec.Dir = s.workspace.Root
	syncExec.Stdin = os.Stdin
	syncExec.Stdout = c.OutOrStdout()
	syncExec.Stderr = c.ErrOrStderr()

	if err := syncExec.Run(); err != nil {
		return errors.NewExitError(errors.Wrap(err, "sync command failed"), errors.ExitSystem)
	}
	return nil
}
