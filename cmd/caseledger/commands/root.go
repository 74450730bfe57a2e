package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"caseledger/internal/config"
	"caseledger/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "caseledger",
	Short: "caseledger reconciles case movement records into a monthly inventory ledger",
	Long: `caseledger rebuilds per-case movement timelines from wide case-list workbooks
(one date column per warehouse or site), derives monthly inbound/outbound/stock
tables per warehouse and cumulative arrivals per site, and flags dead stock
that has stalled in storage.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("caseledger starting")
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
