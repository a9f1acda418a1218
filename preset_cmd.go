package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/scam-tools/scam/lib/preset"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

var presetOverwrite bool

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage saved presets",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		names, err := a.Presets().List()
		if err != nil {
			return err
		}
		selected := a.SelectedPreset()
		for _, name := range names {
			if name == selected {
				fmt.Fprintln(cmd.OutOrStdout(), changedStyle.Render("* "+name))
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), "  "+name)
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no presets in "+a.Presets().Dir))
		}
		return nil
	},
}

var presetLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Replace the working values with a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.LoadPreset(args[0])
	},
}

var presetNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Save the changed values as a new preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.NewPreset(args[0], presetOverwrite)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), changedStyle.Render("preset saved to "+path))
		return nil
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the changed values over the selected preset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.SavePreset(presetOverwrite)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), changedStyle.Render("preset saved to "+path))
		return nil
	},
}

var presetOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the presets folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Presets().EnsureDir(); err != nil {
			return err
		}
		return open.Run(a.Presets().Dir)
	},
}

var bundleCmd = &cobra.Command{
	Use:       "bundle <name>",
	Short:     "Load a recommended bundle",
	ValidArgs: lo.Map(preset.Bundles(), func(b preset.Bundle, _ int) string { return string(b) }),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.LoadBundle(preset.Bundle(args[0]))
	},
}

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Reset every value, sync and force-defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.LoadDefaults()
	},
}

func init() {
	for _, c := range []*cobra.Command{presetNewCmd, presetSaveCmd} {
		c.Flags().BoolVar(&presetOverwrite, "overwrite", false, "replace an existing preset")
	}
	bundleCmd.Long = "Load one of the recommended bundles: " +
		strings.Join(bundleCmd.ValidArgs, ", ") + "."
	presetCmd.AddCommand(presetListCmd, presetLoadCmd, presetNewCmd, presetSaveCmd, presetOpenCmd)
	RootCmd.AddCommand(presetCmd, bundleCmd, defaultsCmd)
}
