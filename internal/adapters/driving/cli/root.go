// Package cli implements the asked command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/earlyed-hq/asked/internal/core/ports/driving"
	"github.com/earlyed-hq/asked/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Services injected by the composition root.
var (
	contextService driving.ContextProvider
	chunkLoader    driving.ChunkLoader
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "asked",
	Short: "Compliance Q&A assistant for UK early years providers",
	Long: `AskEd retrieves cited guidance from UK childcare compliance documents
(EYFS, KCSiE, Ofsted handbooks) to ground answers for nursery and
out-of-school-club providers.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices injects the driving services. Called once at startup by the
// composition root.
func SetServices(provider driving.ContextProvider, loader driving.ChunkLoader) {
	contextService = provider
	chunkLoader = loader
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
