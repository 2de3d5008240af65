package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbiterhq/arbiter/internal/profile"
)

func init() {
	rootCmd.AddCommand(profilesCmd)
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available governance profiles",
	Long:  "Lists built-in profiles plus any under ~/.arbiter/profiles/.",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range profile.List() {
			p, err := profile.Load(name)
			if err != nil {
				fmt.Printf("%-12s (unreadable: %v)\n", name, err)
				continue
			}
			fmt.Printf("%-12s strictness=%.1f learning=%v  %s\n",
				name, p.Strictness, p.Learning, p.Description)
		}
		return nil
	},
}
