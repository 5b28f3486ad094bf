package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillchat/keyvault/internal/registry"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	providers := registry.All()

	if jsonOutput {
		printJSON(map[string]interface{}{"providers": providers})
		return nil
	}

	configured, err := apiClient.Vault.ConfiguredProviders()
	if err != nil {
		return fmt.Errorf("load configured providers: %w", err)
	}

	for _, p := range providers {
		status := " "
		if configured[p.ID] {
			status = "*"
		}

		label := p.Name
		if p.Badge != "" {
			label = fmt.Sprintf("%s [%s]", p.Name, p.Badge)
		}
		if p.Required {
			label += " (required)"
		}

		fmt.Printf("  %s %-12s %s\n", status, p.ID, label)
	}

	return nil
}
