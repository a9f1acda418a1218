package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var forceDefaults bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Pack the changed values into the mod archive",
	Long: `Pack the changed values into the mod archive and install it in the
game's ~mods directory, or the working directory when no game directory is
set. With --force-defaults every value is packed, changed or not.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if cmd.Flags().Changed("force-defaults") && forceDefaults != a.ForceDefaults() {
			if err := a.SetForceDefaults(forceDefaults); err != nil {
				return err
			}
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		b, err := a.StartBuild(ctx)
		if err != nil {
			return err
		}
		res, err := waitBuild(b, cancel)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, changedStyle.Render(fmt.Sprintf("built %s (%s)", res.Archive, humanize.Bytes(uint64(res.Size)))))
		if b.Local {
			fmt.Fprintln(w, warnStyle.Render("no game directory set; copy the archive into Stalker2/Content/Paks/~mods"))
		}
		if res.RemovedLegacy {
			fmt.Fprintln(w, dimStyle.Render("removed the archive left by an older version"))
		}
		if len(res.Incompatible) > 0 {
			fmt.Fprintln(w, warnStyle.Render("incompatible mods installed: "+strings.Join(res.Incompatible, ", ")))
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the installed mod archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.RemoveMod()
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no archive installed"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), changedStyle.Render("mod removed"))
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&forceDefaults, "force-defaults", false, "pack every value, not only changed ones")
	RootCmd.AddCommand(buildCmd, removeCmd)
}
