// Package commands implements the psyker CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/psyker-go/cli/internal/version"
	"github.com/satishbabariya/psyker-go/internal/config"
	"github.com/satishbabariya/psyker-go/internal/debug"
	"github.com/satishbabariya/psyker-go/runtime/client"
	"github.com/satishbabariya/psyker-go/schema"
	"github.com/satishbabariya/psyker-go/schema/dsl"
)

var errNoDatabase = errors.New("no database configured: set database.url, PSYKER_DATABASE_URL or DATABASE_URL")

// app is the state shared by every command.
type app struct {
	fs         afero.Fs
	configFile string
	schemaPath string
	debug      bool
	cfg        *config.Config
}

func (a *app) load() error {
	cfg, err := config.Load(a.fs, a.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.schemaPath != "" {
		cfg.SchemaPath = a.schemaPath
	}
	if a.debug {
		cfg.Debug = true
	}
	debug.Init(cfg.Debug)
	debug.Debug("config loaded", "file", cfg.File, "schema", cfg.SchemaPath)
	a.cfg = cfg
	return nil
}

func (a *app) registry() (*schema.Registry, error) {
	return dsl.ParseFile(a.fs, a.cfg.SchemaPath)
}

// table parses the schema and looks up name.
func (a *app) table(name string) (*schema.Registry, *schema.Table, error) {
	r, err := a.registry()
	if err != nil {
		return nil, nil, err
	}
	t, ok := r.Table(name)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", name, schema.ErrUnknownTable)
	}
	return r, t, nil
}

func (a *app) connect(ctx context.Context, r *schema.Registry) (*client.Client, error) {
	if a.cfg.Database.URL == "" {
		return nil, errNoDatabase
	}
	return client.Open(ctx, a.cfg.Database, r)
}

// NewRootCommand builds the command tree reading files from fs.
func NewRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}
	root := &cobra.Command{
		Use:           "psyker",
		Short:         "Minimal relational queries for PostgreSQL",
		Long:          "psyker declares tables in a .psyker schema file and renders or runs queries against PostgreSQL.",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default .psyker.yaml)")
	flags.StringVarP(&a.schemaPath, "schema", "s", "", "schema file (default schema.psyker)")
	flags.BoolVar(&a.debug, "debug", false, "log every statement to stderr")

	root.AddCommand(
		newVersionCommand(),
		newDDLCommand(a),
		newWatchCommand(a),
		newSQLCommand(a),
		newCreateTablesCommand(a),
		newQueryCommand(a),
		newCountCommand(a),
		newDropCommand(a),
		newTruncateCommand(a),
	)
	return root
}

// Execute runs the CLI until it finishes or is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand(config.AppFs).ExecuteContext(ctx)
}

func newVersionCommand() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if long {
				fmt.Fprintln(cmd.OutOrStdout(), info.Long())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "print build details")
	return cmd
}
