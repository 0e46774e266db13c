package commands

import (
	"chapterops/internal/catalog"
	"chapterops/internal/config"
	"chapterops/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	cat     *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "chapterops",
	Short: "chapterops is the chapter goal-setting and tag-batch toolkit",
	Long: `Tools for chapter operations: validate and query historical metric CSVs,
manage monthly goal drafts and submissions, serve the wizard API, and apply
or undo tag batches against the configured HTTP endpoint.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load catalog")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("chapterops starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
