package cmd

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/chamlis/patchup/pkg/engine"
)

var scriptCmd = &cobra.Command{
	Use:   "script <repair.zy>",
	Short: "Run a repair script",
	Long: `Script evaluates a zygomys repair script against the patch pipeline.

Scripts can load and save meshes, list boundary candidates, and generate
patches:

  ; repair.zy
  (def m (load-mesh "broken-handle.stl"))
  (def p (generate m :profile :durable-deep))
  (save-mesh (patch-mesh p) "insert.stl")

Example:
  patchup script repair.zy`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	eng := engine.NewEngine()
	trace, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("script evaluation failed: %w", err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			if e.Line > 0 {
				cmd.PrintErrln(color.Red.Sprintf("%s:%d: %s", args[0], e.Line, e.Message))
			} else {
				cmd.PrintErrln(color.Red.Sprintf("%s: %s", args[0], e.Message))
			}
		}
		return fmt.Errorf("script failed with %d error(s)", len(evalErrs))
	}

	log.Infow("script complete",
		"meshes_loaded", trace.MeshesLoaded,
		"patches", len(trace.Patches),
		"files_saved", len(trace.Saved))
	for _, path := range trace.Saved {
		cmd.Printf("wrote %s\n", path)
	}
	return nil
}
