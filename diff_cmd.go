package main

import (
	"encoding/json"
	"fmt"

	"github.com/scam-tools/scam/lib/modbuild"
	"github.com/scam-tools/scam/lib/preset"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

var (
	diffFormat   string
	diffDefaults bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Print the values that differ from the defaults",
	Long: `Print the changed-value map. The text format is the file that goes into
the mod archive; ini is the preset format.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Editor().Check(); err != nil {
			return err
		}
		m, err := a.Editor().ChangedValues(diffDefaults || a.ForceDefaults())
		if err != nil {
			return err
		}
		out, err := renderValues(m, diffFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func renderValues(m *schema.ValueMap, format string) (string, error) {
	switch format {
	case "text", "":
		return modbuild.Content(m), nil
	case "ini":
		data, err := preset.Encode(m)
		return string(data), err
	case "yaml":
		data, err := yaml.Marshal(m)
		return string(data), err
	case "json":
		data, err := json.Marshal(m)
		if err != nil {
			return "", err
		}
		return string(pretty.Pretty(data)), nil
	}
	return "", fmt.Errorf("unknown format %q (text, ini, yaml or json)", format)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every working value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Editor().Check(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), changedStyle.Render("all values are valid"))
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVarP(&diffFormat, "output", "o", "text", "output format: text, ini, yaml or json")
	diffCmd.Flags().BoolVar(&diffDefaults, "all", false, "include unchanged values")
	RootCmd.AddCommand(diffCmd, validateCmd)
}
