// scene-engine plays authored conversational scenarios against a language model.
//
// Usage:
//
//	scene-engine play [scenario-file]
//	scene-engine validate <scenario-file>
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scene-engine",
		Short: "Play branching conversational scenarios with language-model NPCs",
		Long: "scene-engine runs a scenario scene by scene: you talk with the scene's NPC\n" +
			"until a judge decides you have reached the scene goal, then the story moves on.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}
	root.AddCommand(newPlayCmd())
	root.AddCommand(newValidateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
