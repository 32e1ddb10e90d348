// Package cli is BucketDesk's command line. It follows the usual cobra
// layout: one root command whose PersistentPreRunE builds the settings
// store, and one constructor per subcommand.
package cli

import (
	"net/http"

	"github.com/koustreak/BucketDesk/internal/config"
	"github.com/koustreak/BucketDesk/internal/filestore"
	"github.com/koustreak/BucketDesk/internal/kvfile"
	"github.com/koustreak/BucketDesk/internal/logger"
	"github.com/koustreak/BucketDesk/internal/settings"
	"github.com/spf13/cobra"
)

// Options override what the root command would otherwise build from the
// environment. The zero value is what main uses.
type Options struct {
	Config  *config.Config
	Connect settings.Connector
}

type app struct {
	opts  Options
	cfg   *config.Config
	log   *logger.Logger
	store *settings.Store
}

// NewRootCmd returns the bucketdesk command tree.
func NewRootCmd(opts Options) *cobra.Command {
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "bucketdesk",
		Short:         "Browse and upload to an S3-compatible bucket",
		Long:          `BucketDesk keeps your bucket credentials and upload preferences in a local settings file and uses them to list, upload and delete objects.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.AddCommand(
		a.newSettingsCmd(),
		a.newTestCmd(),
		a.newListCmd(),
		a.newRemoveCmd(),
		a.newUploadCmd(),
		a.newURLCmd(),
		a.newKeyCmd(),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.cfg = a.opts.Config
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	a.log = logger.New(&logger.Config{
		Level:  a.cfg.LogLevel,
		Format: a.cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})

	connect := a.opts.Connect
	if connect == nil {
		connect = settings.NewConnector(a.cfg.Provider,
			filestore.WithHTTPClient(&http.Client{Timeout: a.cfg.TransferTimeout}),
			filestore.WithLogger(a.log),
		)
	}

	a.store = settings.NewStore(kvfile.Open(a.cfg.SettingsFile), connect, settings.WithLogger(a.log))
	if err := a.store.Load(); err != nil {
		return err
	}

	a.log.With().Str("file", a.cfg.SettingsFile).Logger().Debug("settings loaded")
	return nil
}
