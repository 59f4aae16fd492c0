// Package cli implements resortctl, the operator tool for migrating,
// seeding and bootstrapping a resort database.
package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/app"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/config"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/db"
	"github.com/jomarimuli/debbie-and-krys-beach-resort-sub002/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for resortctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "resortctl",
		Short: "Operate the resort booking database",
		Long: `resortctl applies the schema, loads seed data and creates admin accounts.

Connection settings are read from the environment (and .env), the same way
the server reads them.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCreateAdminCommand(opts))

	return cmd
}

// env is what every command needs once the database is reachable.
type env struct {
	cfg  *config.Config
	log  *logrus.Logger
	pool *pgxpool.Pool
}

func (e *env) Close() {
	e.pool.Close()
}

func connect(ctx context.Context, opts *RootOptions) (*env, error) {
	cfg, warning, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logging.New(level, false)
	if err != nil {
		return nil, err
	}
	if warning != nil {
		log.WithError(warning).Debug("continuing with process environment only")
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func (e *env) container() (*app.Container, error) {
	return app.NewContainer(e.cfg, e.pool, e.log)
}
