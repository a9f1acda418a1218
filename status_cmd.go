package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scam-tools/scam/lib/config"
	"github.com/scam-tools/scam/lib/datastore"
	"github.com/scam-tools/scam/lib/embedded"
	"github.com/scam-tools/scam/lib/util"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

var statusOpen bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the game directory, installed archive and working state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		r := a.Status()
		w := cmd.OutOrStdout()
		row := func(label, value string) {
			fmt.Fprintf(w, "%-16s %s\n", label+":", value)
		}

		defaults := r.DefaultsFile
		if r.DefaultsReason != nil {
			defaults += warnStyle.Render(" (" + r.DefaultsReason.Error() + ")")
		}
		row("language", r.Language)
		row("defaults", defaults)

		if r.GameDir == "" {
			row("game dir", warnStyle.Render("not set"))
		} else {
			row("game dir", r.GameDir)
			installed := dimStyle.Render("none")
			if len(r.Installed) > 0 {
				installed = changedStyle.Render(strings.Join(r.Installed, ", "))
			}
			row("installed", installed)
			if len(r.Incompatible) > 0 {
				row("incompatible", warnStyle.Render(strings.Join(r.Incompatible, ", ")))
			}
		}

		preset := r.SelectedPreset
		if preset == "" {
			preset = dimStyle.Render("none")
		}
		row("preset", fmt.Sprintf("%s (%d saved)", preset, len(r.Presets)))
		row("changed", fmt.Sprint(r.Changed))
		row("sync", fmt.Sprint(r.Sync))
		row("force defaults", fmt.Sprint(r.ForceDefaults))
		if len(r.Invalid) > 0 {
			row("invalid", invalidStyle.Render(strings.Join(r.Invalid, "; ")))
		}
		if r.PackerErr != nil {
			row("packer", invalidStyle.Render(describeError(r.PackerErr)))
		} else {
			row("packer", "ok")
		}

		if statusOpen {
			if r.ModsDir == "" {
				return fmt.Errorf("game directory is not set")
			}
			return open.Run(r.ModsDir)
		}
		return nil
	},
}

var languageCmd = &cobra.Command{
	Use:   "language <code>",
	Short: "Switch the language of the default values",
	Long: `Switch the default-value file: en, korean, russian, ukrainian, chinese or
any code with a matching default_values_<code>.ini. Unknown languages fall back
to the English defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.SetLanguage(args[0]); err != nil {
			return err
		}
		msg := "using " + a.Origin().File
		if a.Origin().Fallback != nil {
			msg = warnStyle.Render(msg + " (no defaults for " + args[0] + ")")
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var gamedirDetect bool

var gamedirCmd = &cobra.Command{
	Use:   "gamedir [path]",
	Short: "Set the game install directory",
	Long: `Set the game install directory. Picking the Stalker2 folder, the ~mods
folder, a parent or a subfolder of the install is corrected automatically.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var dir string
		switch {
		case len(args) == 1:
			if dir, err = a.SetGameDir(args[0]); err != nil {
				return err
			}
		case gamedirDetect:
			var ok bool
			if dir, ok = a.DetectGameDir(); !ok {
				return fmt.Errorf("game directory not found; pass its path")
			}
		default:
			d, ok := a.GameDir()
			if !ok {
				return fmt.Errorf("game directory is not set")
			}
			dir = d
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the working values and the selected preset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		a.Clear()
		return nil
	},
}

var (
	exportOverwrite bool
	exportDB        bool
)

var exportDefaultsCmd = &cobra.Command{
	Use:   "export-defaults [dir]",
	Short: "Write the built-in default data files for editing",
	Long: `Write the default data built into the binary to dir (default: the
default_ini folder of the data directory), or with --db into default_config.db.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Current()
		if exportDB {
			path := cfg.DatabasePath()
			if len(args) == 1 {
				path = filepath.Join(args[0], datastore.DBFileName)
			}
			n, err := exportDatabase(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d files to %s\n", n, path)
			return nil
		}

		dir := cfg.DefaultIniDir()
		if len(args) == 1 {
			dir = args[0]
		}
		written, err := embedded.ExtractDefaults(dir, exportOverwrite)
		if err != nil {
			return err
		}
		for _, f := range written {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func exportDatabase(path string) (int, error) {
	files, err := embedded.ListFiles()
	if err != nil {
		return 0, err
	}
	if err := util.CreateStandardDirectory(filepath.Dir(path)); err != nil {
		return 0, err
	}
	db, err := datastore.CreateDB(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	src := embedded.Source()
	for _, name := range files {
		data, err := src.ReadFile(name)
		if err != nil {
			return 0, err
		}
		if err := db.Put(name, data); err != nil {
			return 0, err
		}
	}
	return len(files), nil
}

func init() {
	statusCmd.Flags().BoolVar(&statusOpen, "open", false, "open the mods folder")
	gamedirCmd.Flags().BoolVar(&gamedirDetect, "detect", false, "look the directory up in the Steam install records")
	exportDefaultsCmd.Flags().BoolVar(&exportOverwrite, "overwrite", false, "replace existing files")
	exportDefaultsCmd.Flags().BoolVar(&exportDB, "db", false, "write default_config.db instead of loose files")
	RootCmd.AddCommand(statusCmd, languageCmd, gamedirCmd, clearCmd, exportDefaultsCmd)
}
