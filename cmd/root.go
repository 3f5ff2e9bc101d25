package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agentic-research/cardweave/internal/build"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	verbose bool
	strict  bool

	logger *zap.Logger
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", true, "Require a .metadata sidecar next to every geometry fragment")
}

var rootCmd = &cobra.Command{
	Use:   "cardweave",
	Short: "Assemble MCNP input decks from a library of card fragments",
	Long: `cardweave indexes a project of card fragments (.mcnp, .mat, .tally,
.transform, .source), resolves a YAML configuration and writes the assembled
model as assembled.i.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newRun returns a run over the project at root on the local filesystem.
func newRun(root string) (*build.Run, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	return &build.Run{
		FS:     osfs.New("/"),
		Root:   abs,
		Strict: strict,
		Logger: logger,
	}, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
