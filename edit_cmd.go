package main

import (
	"fmt"

	"github.com/scam-tools/scam/lib/schema"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set Section.Key=value...",
	Short: "Change working values",
	Long: `Change one or more working values. Boolean values take true or false.
With sync on, setting either aiming rate sets both.`,
	Example: "  scam set MovementParams.WalkSpeed=2.0 StaminaPerAction.SpendStaminaInSafeZone=true",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, arg := range args {
			ref, value, err := parseAssignment(arg)
			if err != nil {
				return err
			}
			if err := a.Set(ref, value); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), changedStyle.Render(fmt.Sprintf("updated %d value(s)", len(args))))
		return nil
	},
}

var resetAll bool

var resetCmd = &cobra.Command{
	Use:   "reset [Section.Key...]",
	Short: "Put values back to their defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetAll && len(args) == 0 {
			return fmt.Errorf("name the values to reset or pass --all")
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if resetAll {
			return a.LoadDefaults()
		}
		for _, arg := range args {
			ref, err := parseRef(arg)
			if err != nil {
				return err
			}
			if err := a.Reset(ref); err != nil {
				return err
			}
		}
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [on|off]",
	Short: "Link horizontal and vertical aiming speed",
	Long: `With sync on, ` + schema.TurnRate.String() + ` and ` + schema.LookUpRate.String() + `
always hold the same value. Without an argument the current state is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			if err := a.SetSync(on); err != nil {
				return err
			}
		}
		state := "off"
		if a.Editor().Sync() {
			state = "on"
		}
		fmt.Fprintln(cmd.OutOrStdout(), "sync is "+state)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetAll, "all", false, "reset every value, sync and force-defaults")
	RootCmd.AddCommand(setCmd, resetCmd, syncCmd)
}
