package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the compiled-in backends",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("proofcheck version %s\n", version)
		cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if capabilityService != nil {
			cmd.Printf("  backends: %s\n", availableBackends())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// availableBackends lists the usable backend names, or "none".
func availableBackends() string {
	var names []string
	for _, st := range capabilityService.List() {
		if st.Available {
			names = append(names, st.Name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
