package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpggio/pmdash/internal/domain/preference"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the preferences document",
	RunE:  withApp(runPrefsGet),
}

var prefsSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Merge settings into the preferences document",
	Long: `Merge settings into the preferences document.

Values are parsed as JSON when possible and stored as strings otherwise:

  dashboard prefs set theme=dark pageSize=20`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(runPrefsSet),
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
}

func runPrefsGet(cmd *cobra.Command, app *AppContext, _ []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	prefs, err := app.Preferences.Get(ctx)
	if err != nil {
		return err
	}
	return printJSON(app, prefs)
}

func runPrefsSet(cmd *cobra.Command, app *AppContext, args []string) error {
	if err := app.requireSession(); err != nil {
		return err
	}
	updates, err := parseAssignments(args)
	if err != nil {
		return err
	}

	ctx, cancel := app.requestContext(cmd)
	defer cancel()

	prefs, err := app.Preferences.Get(ctx)
	if err != nil {
		return err
	}
	for k, v := range updates {
		prefs[k] = v
	}
	saved, err := app.Preferences.Save(ctx, prefs)
	if err != nil {
		return err
	}
	printSuccess(app.Out, "Preferences saved")
	return printJSON(app, saved)
}

func parseAssignments(args []string) (preference.Preferences, error) {
	out := make(preference.Preferences, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		out[key] = v
	}
	return out, nil
}

func printJSON(app *AppContext, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Out, string(data))
	return nil
}
