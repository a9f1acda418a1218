package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/scam-tools/scam/lib/app"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [section]",
	Short: "Show the working values",
	Long: `Show every value with its default, maximum and description. Changed
values are green, invalid ones red.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sections := a.Schema().Sections()
		if len(args) == 1 {
			if !lo.Contains(sections, args[0]) {
				return fmt.Errorf("unknown section %q (have %s)", args[0], strings.Join(sections, ", "))
			}
			sections = args[:1]
		}
		for _, s := range sections {
			printSection(cmd.OutOrStdout(), a, s)
		}
		return nil
	},
}

func printSection(w io.Writer, a *app.App, section string) {
	e := a.Editor()
	title := section
	if e.SectionChanged(section) {
		title += " *"
	}
	fmt.Fprintln(w, headerStyle.Render(title))

	if section == schema.SectionAiming {
		line := fmt.Sprintf("  %-28s %v", "sync turn/look rate", e.Sync())
		if e.Changed(schema.SyncAiming) {
			line = changedStyle.Render(line)
		}
		fmt.Fprintln(w, line)
		fmt.Fprintln(w)
		return
	}

	for _, entry := range a.Schema().Entries(section) {
		f, _ := e.Field(entry.Ref)
		value := f.Text
		if entry.Default.Kind() == schema.KindBool {
			value = fmt.Sprint(f.Checked)
		}
		line := fmt.Sprintf("  %-28s %-10s", entry.Key, value)
		detail := "default " + entry.Default.String()
		if entry.HasMax {
			detail += ", max " + entry.Max.String()
		}

		switch r := e.Validate(entry.Ref); {
		case !r.OK():
			line = invalidStyle.Render(line) + " " + invalidStyle.Render(r.Explain(entry.Ref))
		case e.Changed(entry.Ref):
			line = changedStyle.Render(line)
		}
		fmt.Fprintln(w, line+" "+dimStyle.Render(detail))
		if entry.Description != "" {
			fmt.Fprintln(w, "    "+dimStyle.Render(entry.Description))
		}
	}
	fmt.Fprintln(w)
}

func init() {
	RootCmd.AddCommand(showCmd)
}
