package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"snailfish/internal/config"
	"snailfish/internal/linesource"
	"snailfish/internal/logging"
	"snailfish/internal/snailfish"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose       bool
	configPath    string
	skipMalformed bool
	parallelism   int
	maxSteps      int

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	engine *snailfish.Engine

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "snail",
	Short: "snail - snailfish number calculator",
	Long: `snail adds snailfish numbers: pairs written as [a,b] where each element
is a regular number or another pair.

Every sum is reduced by exploding pairs nested four deep and splitting
numbers of 10 or more until neither rule applies. The magnitude of a number
is 3x its left element plus 2x its right.

Homework files hold one number per line; blank lines and lines starting with
the configured comment prefix (default "#") are ignored. Use "-" to read
stdin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlagOverrides(cmd)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Initialize logger
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := logging.Initialize(cfg.Logging.ToLogging(), cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logging.Boot("config loaded from %s", configPath)

		engine = snailfish.NewEngine(
			snailfish.WithMaxSteps(cfg.Engine.MaxSteps),
			snailfish.WithParallelism(cfg.GetParallelism()),
		)
		logging.BootDebug("engine: max_steps=%d parallelism=%d", engine.MaxSteps(), engine.Parallelism())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Sync()
	},
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("skip-malformed") {
		cfg.Input.SkipMalformed = skipMalformed
	}
	if flags.Changed("parallelism") {
		cfg.Engine.Parallelism = parallelism
	}
	if flags.Changed("max-steps") {
		cfg.Engine.MaxSteps = maxSteps
	}
	if verbose {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().BoolVar(&skipMalformed, "skip-malformed", false, "Skip lines that fail to parse instead of aborting")
	rootCmd.PersistentFlags().IntVarP(&parallelism, "parallelism", "p", 0, "Workers for the pairwise search (0 = all CPUs)")
	rootCmd.PersistentFlags().IntVar(&maxSteps, "max-steps", snailfish.DefaultMaxSteps, "Rules one reduction may apply before giving up")

	rootCmd.AddCommand(
		sumCmd,
		maxPairCmd,
		reportCmd,
		addCmd,
		reduceCmd,
		magnitudeCmd,
		traceCmd,
		stepCmd,
		configCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// readHomework reads the homework file named by args (stdin when absent).
func readHomework(args []string) ([]linesource.Line, string, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	lines, err := linesource.ReadFile(path, linesource.Options{CommentPrefix: cfg.Input.CommentPrefix})
	if err != nil {
		return nil, "", err
	}
	if path == "-" {
		path = "stdin"
	}
	return lines, path, nil
}

// parseArgs parses each argument as one snailfish number.
func parseArgs(args []string) ([]*snailfish.Tree, error) {
	trees, err := snailfish.ParseAll(args)
	if err != nil {
		return nil, fmt.Errorf("invalid argument: %w", err)
	}
	return trees, nil
}
