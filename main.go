package main

import (
	"fmt"
	"os"

	"github.com/scam-tools/scam/lib/app"
	"github.com/scam-tools/scam/lib/config"
	"github.com/scam-tools/scam/lib/util"
	"github.com/scam-tools/scam/lib/util/logger"
	"github.com/scam-tools/scam/lib/util/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logger.GetSCAMLogger()

var RootCmd = &cobra.Command{
	Use:   "scam",
	Short: "Stalker Character Adjustment Manager",
	Long: `scam edits the player movement, stamina and aiming parameters of
S.T.A.L.K.E.R. 2, keeps them as presets and packs them into a mod archive
installed in the game's ~mods directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.InitConfig()
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&config.CfgFile, "config", "", "config file (default is $HOME/.scam/config.yaml)")
	flags.String("game-dir", "", "game install directory (the one containing Stalker2)")
	flags.String("data-dir", "", "directory holding default_ini, default_config.db and repak")
	flags.String("user-data-dir", "", "directory holding app_preferences.json")
	flags.String("presets-dir", "", "directory holding saved presets")

	viper.BindPFlag(config.KeyGameDir, flags.Lookup("game-dir"))
	viper.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))
	viper.BindPFlag(config.KeyUserDataDir, flags.Lookup("user-data-dir"))
	viper.BindPFlag(config.KeyPresetsDir, flags.Lookup("presets-dir"))
}

// openApp starts a session over the current configuration. The caller
// closes it.
func openApp() (*app.App, error) {
	return app.Open(config.Current())
}

func main() {
	signals.RegisterInterruptHandler(func() {
		log.Debug("interrupted, cleaning up")
		util.CloseAll()
		os.Exit(130)
	})
	go signals.Handle()

	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+describeError(err))
		os.Exit(1)
	}
}
