package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	verbose bool

	logger = zap.NewNop()
	conf   settings
)

var rootCmd = &cobra.Command{
	Use:   "devpath",
	Short: "AI-generated learning roadmaps with progress tracking",
	Long: `DevPath turns a career goal into a staged learning roadmap, tracks which
technologies you have completed and rewards progress with XP, levels,
streaks and achievements.

Run without arguments to open the interactive roadmap.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conf, err = loadSettings(cmd, cfgFile)
		if err != nil {
			return err
		}

		// The interactive UI owns the terminal, so it only logs errors.
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		switch {
		case verbose:
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		case !cmd.HasParent() || cmd.Name() == "generate":
			config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		}
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd, false)
	},
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/devpath/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "path to SQLite database file (overrides DEVPATH_DB)")
	rootCmd.PersistentFlags().Int("hours", 0, "weekly study hours used for estimates (default 10)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
