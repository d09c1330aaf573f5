package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"driver-license-portal/internal/config"
	"driver-license-portal/internal/infrastructure/db"
	"driver-license-portal/internal/infrastructure/logger"
)

var Version = "dev"

// env is what every subcommand needs. Tests swap open for an in-memory DB.
type env struct {
	cfg  *config.Config
	log  logrus.FieldLogger
	out  io.Writer
	open func() (*gorm.DB, error)
}

func main() {
	cfg := config.Load()
	log := logger.NewWithOutput(cfg.LogLevel, os.Stderr)
	e := &env{
		cfg: cfg,
		log: log,
		out: os.Stdout,
		open: func() (*gorm.DB, error) {
			return db.OpenGorm(cfg.DBDriver, cfg.DSN(), log)
		},
	}
	if err := newRootCmd(e).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "dlctl",
		Short:         "Operator tools for the driver's license portal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(e.out)
	root.AddCommand(migrateCmd(e))
	root.AddCommand(licenseCmd(e))
	return root
}

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table the portal owns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := e.open()
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables (%s)\n", len(db.Models()), e.cfg.DBDriver)
			return nil
		},
	}
}
