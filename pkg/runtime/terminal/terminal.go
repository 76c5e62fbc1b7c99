package terminal

import (
	"context"
	"io"
	"os"

	"github.com/ledgercheck/finhealth/pkg/runtime/bootstrap"
	"github.com/ledgercheck/finhealth/pkg/runtime/terminal/commands"
	"github.com/ledgercheck/finhealth/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	output  io.Writer
	logs    io.Writer
	open    commands.OpenFunc
	rootCmd *cobra.Command

	configPath string
	format     string
	logLevel   string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Logs receives diagnostics (default: stderr)
	Logs io.Writer
	// Open wires the app for a loaded config (default: bootstrap.Open)
	Open commands.OpenFunc
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}
	if opts.Open == nil {
		opts.Open = bootstrap.Open
	}

	cli := &CLI{
		output: opts.Output,
		logs:   opts.Logs,
		open:   opts.Open,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context, args ...string) error {
	if args != nil {
		cli.rootCmd.SetArgs(args)
	}
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "finhealth",
		Short:         "Financial summary, GST ledger and history reconciliation for small businesses",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := zerolog.ParseLevel(cli.logLevel)
			if err != nil {
				return err
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.logs}).
				Level(level).
				With().
				Timestamp().
				Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}
	cmd.SetOut(cli.output)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a config file (yaml, toml or json)")
	cmd.PersistentFlags().StringVarP(&cli.format, "output", "o", string(FormatTable), "Output format: table or json")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "warn", "Log level")

	env := &commands.Env{
		LoadConfig: func() (config.Config, error) {
			cfg, err := config.Load(cli.configPath)
			if err != nil {
				return config.Config{}, err
			}
			return *cfg, nil
		},
		Open: cli.open,
		Renderer: func() (commands.Renderer, error) {
			return NewReporter(cli.output, Format(cli.format))
		},
	}

	cmd.AddCommand(commands.NewAnalyzeCmd(env))
	cmd.AddCommand(commands.NewLedgerCmd(env))
	cmd.AddCommand(commands.NewHistoryCmd(env))
	cmd.AddCommand(commands.NewReconstructCmd(env))
	cmd.AddCommand(commands.NewStatementCmd(env))

	return cmd
}
