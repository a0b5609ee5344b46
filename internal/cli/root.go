// Package cli implements the dbeam-query command.
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/guadalsistema/go-dbeam/internal/logging"
	"github.com/guadalsistema/go-dbeam/options"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewRootCmd creates the dbeam-query command.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)
	flagged := options.Defaults()

	cmd := &cobra.Command{
		Use:   "dbeam-query",
		Short: "Print the SQL queries of a dbeam extraction",
		Long: `Print the SELECT statements an extraction runs against its table.

Options are read from an optional YAML file, then DBEAM_* environment
variables, then flags; later sources win.

Examples:
  # Whole table, first 10 rows
  dbeam-query --connectionUrl jdbc:postgresql://localhost/db --table events --limit 10

  # One monthly partition
  dbeam-query --config dbeam.yaml --partition 2024-01-01 --partitionColumn dt --partitionPeriod P1M`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewWithComponent(logging.Config{
				Level:  logLevel,
				Pretty: true,
				Output: cmd.ErrOrStderr(),
			}, "dbeam-query")

			opts := options.Defaults()
			if configPath != "" {
				loaded, err := options.LoadFile(configPath)
				if err != nil {
					return err
				}
				opts = loaded
				logger.Debug().Str("path", configPath).Msg("Loaded options file")
			}
			if err := opts.ApplyEnv(); err != nil {
				return err
			}
			if err := opts.ApplyFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			conn, err := opts.ConnectionArgs()
			if err != nil {
				return err
			}
			queryArgs, err := opts.QueryBuilderArgs()
			if err != nil {
				return err
			}
			logger.Debug().
				Str("driver", conn.DriverName).
				Str("username", conn.Username).
				Strs("password_sources", passwordSourceNames(opts)).
				Stringer("args", queryArgs).
				Msg("Building queries")

			queries := queryArgs.BuildQueries()
			for _, q := range queries {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), q); err != nil {
					return err
				}
			}
			logger.Info().Str("table", queryArgs.TableName()).Int("queries", len(queries)).Msg("Queries built")
			return nil
		},
	}

	flagged.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML options file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newOptionsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func passwordSourceNames(opts *options.Options) []string {
	var names []string
	for _, s := range opts.PasswordSources() {
		names = append(names, string(s))
	}
	return names
}

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the supported options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FLAG\tENV\tDEFAULT\tREQUIRED\tDESCRIPTION")
			for _, d := range options.Definitions() {
				required := ""
				if d.Required {
					required = "yes"
				}
				fmt.Fprintf(w, "--%s\t%s\t%s\t%s\t%s\n", d.Name, d.Env, d.Default, required, d.Description)
			}
			return w.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("dbeam-query version %s\n", Version)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
