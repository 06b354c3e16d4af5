package cmd

import (
	"fmt"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/chamlis/patchup/pkg/patch"
	"github.com/chamlis/patchup/pkg/stl"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates <scan.stl>",
	Short: "Rank the repairable boundaries of a scanned mesh",
	Long: `Candidates loads an STL scan, extracts its open boundary loops, and
prints the ranked repair candidates with their stable IDs.

An ID printed here can be passed to 'generate --candidate' to repair a
specific boundary instead of the top-ranked one.

Example:
  patchup candidates broken-handle.stl`,
	Args: cobra.ExactArgs(1),
	RunE: runCandidates,
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
}

func runCandidates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	path := args[0]
	log = log.WithMesh(path)

	m, err := stl.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read scan: %w", err)
	}
	log.Infow("scan loaded", "vertices", m.VertexCount(), "faces", m.FaceCount())

	cands, err := patch.Candidates(m)
	if err != nil {
		return fmt.Errorf("candidate extraction failed: %w", err)
	}

	header := color.Bold.Sprintf("%-4s %-18s %10s %12s %12s %12s",
		"#", "ID", "VERTICES", "PERIMETER", "AREA", "CONFIDENCE")
	cmd.Println(header)
	for i, c := range cands {
		cmd.Printf("%-4d %-18s %10d %10.2fmm %10.2fmm2 %12.2f\n",
			i+1, c.ID, len(c.Loop),
			c.Perimeter*1000, c.Area*1e6, c.Confidence)
	}
	return nil
}
