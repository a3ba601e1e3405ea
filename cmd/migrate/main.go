package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"furrymatch-backend/internal/config"
	"furrymatch-backend/internal/infrastructure/database"
	"furrymatch-backend/pkg/logger"
)

var (
	rootCmd = &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the FurryMatch database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(m *database.Migrator, _ []string) error {
			return m.Up()
		}),
	}

	downCmd = &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back the last migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withMigrator(func(m *database.Migrator, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid steps %q: %w", args[0], err)
				}
				steps = n
			}
			return m.Down(steps)
		}),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(m *database.Migrator, _ []string) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Printf("version=%d dirty=%t\n", v, dirty)
			return nil
		}),
	}

	forceCmd = &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without migrating (clears the dirty flag)",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(func(m *database.Migrator, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return m.Force(v)
		}),
	}
)

func init() {
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd)
}

// withMigrator builds a Migrator from the environment for the duration of one command.
func withMigrator(fn func(m *database.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dbCfg, err := cfg.LoadDatabaseConfig()
		if err != nil {
			return err
		}

		m, err := database.NewMigrator(dbCfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close migrator")
			}
		}()

		return fn(m, args)
	}
}

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Migration failed")
		os.Exit(1)
	}
}
