package cmd

import (
	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/chamlis/patchup/pkg/patch"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available repair profiles",
	Long: `List the closed set of material profiles and their parameters.

Profiles trade insertion depth, surface overlap, and fit clearance against
material use and print time. All lengths are shown in millimeters.`,
	Run: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) {
	header := color.Bold.Sprintf("%-14s %10s %10s %11s %10s",
		"NAME", "DEPTH", "OVERLAP", "CLEARANCE", "MIN VERTS")
	cmd.Println(header)
	for _, p := range patch.Profiles() {
		cmd.Printf("%-14s %8.1fmm %8.1fmm %9.2fmm %10d\n",
			p.Name,
			p.InsertionDepth*1000,
			p.OverlapWidth*1000,
			p.InsertionClearance*1000,
			p.MinBoundaryVertices)
	}
}
