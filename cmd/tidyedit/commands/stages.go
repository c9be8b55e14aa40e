package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tidyedit/pkg/cleaner/tidy"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List pipeline stage types and presets",
	Long: `List the stage types a pipeline file can use, and the presets.

With --preset, print that preset as a pipeline file instead. The output
can be edited and passed back with "tidyedit clean --pipeline".

Examples:
  tidyedit stages
  tidyedit stages --preset aggressive > pipeline.yaml`,
	Args: cobra.NoArgs,
	RunE: runStages,
}

func init() {
	rootCmd.AddCommand(stagesCmd)
	stagesCmd.Flags().String("preset", "", "print the named preset as YAML")
}

func runStages(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if name, _ := cmd.Flags().GetString("preset"); name != "" {
		cfg, err := tidy.Preset(name)
		if err != nil {
			return err
		}
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	types := tidy.StageTypes()
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, string(t))
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tDESCRIPTION")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, types[tidy.StageType(name)])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nPresets:")
	for _, name := range tidy.PresetNames() {
		cfg, _ := tidy.Preset(name)
		fmt.Fprintf(out, "\n  %-12s %d stages", name, len(cfg.Stages))
	}
	fmt.Fprintln(out)
	return nil
}
