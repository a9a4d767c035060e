package cmd

import (
	"encoding/json"
	"os"

	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/output"
	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List configured scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		color := output.UseColor()
		sec := output.NewSection(os.Stdout, "Scenarios", 0, color)
		for _, sc := range cfg.Scenarios {
			minifier := sc.Minifier
			if minifier == "" {
				minifier = "(none)"
			}
			sec.Row("%s", output.Colorize(sc.Name, output.ColorBold, color))
			sec.Row("  minifier  %s", minifier)
			for _, key := range sc.OverrideKeys() {
				val, err := json.Marshal(sc.Config[key])
				if err != nil {
					return err
				}
				sec.Row("  config    %s: %s", key, val)
			}
		}
		sec.Close()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}
