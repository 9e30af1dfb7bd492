package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/allcolors/internal/registry"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List frontier selection policies",
	Long:  `Shows the policies that choose which frontier pixel receives the next color.`,
	Run:   runPolicies,
}

func runPolicies(_ *cobra.Command, _ []string) {
	policies := registry.List()

	fmt.Println("Available policies:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range policies {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")

	for _, p := range policies {
		marker := ""
		if p.ID == registry.Default {
			marker = " (default)"
		}
		fmt.Printf("  %-*s  %s%s\n", maxIDLen, p.ID, p.Title, marker)
	}

	fmt.Println()
	fmt.Println("Run 'allcolors view --policy <id>' to use one.")
}
