package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mdsync/internal/config"
	"github.com/thoreinstein/mdsync/internal/errors"
	"github.com/thoreinstein/mdsync/internal/logging"
	"github.com/thoreinstein/mdsync/internal/validate"
	"github.com/thoreinstein/mdsync/internal/validate/mediarefs"
	"github.com/thoreinstein/mdsync/internal/validate/metafields"
	"github.com/thoreinstein/mdsync/internal/validate/structure"
	"github.com/thoreinstein/mdsync/internal/workspace"
)

// setup resolves the repository, merges the repo-local config over the
// global one, and builds an engine with the three rule-sets registered.
// Shared by the validate and sync commands.
type setup struct {
	workspace   *workspace.Workspace
	config      *config.Config
	engine      *validate.Engine
	logger      *slog.Logger
	contentRoot string
}

// newSetup prepares a setup starting the repository search at startDir.
// Extra engine options (e.g. a Confirmer) are appended to the defaults.
func newSetup(c *cobra.Command, startDir string, opts ...validate.Option) (*setup, error) {
	logger := logging.FromContext(c.Context())

	contentDirName := ""
	if cfg != nil {
		contentDirName = cfg.ContentDir
	}
	ws, err := workspace.Find(startDir, contentDirName)
	if err != nil {
		if errors.Is(err, errors.ErrNoContentRoot) {
			return nil, errors.NewUserError(err,
				"Run mdsync inside a content repository, or create a content/ directory or .mdsync.toml at its root")
		}
		return nil, err
	}

	merged := *cfg
	if err := config.ApplyLocal(&merged, ws.LocalConfigPath()); err != nil {
		return nil, errors.NewConfigError(err)
	}
	// The repo-local config may rename the content directory; the workspace
	// root itself stays where the marker was found.
	if merged.ContentDir != "" {
		ws.ContentDirName = merged.ContentDir
	}
	contentRoot := ws.ContentDir()

	engineOpts := append([]validate.Option{validate.WithLogger(logger)}, opts...)
	engine := validate.NewEngine(ws.Root, engineOpts...)
	engine.Register(
		structure.New(contentRoot, logger),
		metafields.New(contentRoot, logger),
		mediarefs.New(contentRoot, logger, merged.Media.Markers),
	)

	return &setup{
		workspace:   ws,
		config:      &merged,
		engine:      engine,
		logger:      logger,
		contentRoot: contentRoot,
	}, nil
}
