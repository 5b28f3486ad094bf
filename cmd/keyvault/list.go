package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active credentials",
	Long: `List shows the masked credentials resolvable without a passphrase,
meaning tab and session scopes, plus the configured status of every
provider including persistent-only ones.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	records := apiClient.Vault.LoadCredentials(ctx)
	configured, err := apiClient.Vault.ConfiguredProviders()
	if err != nil {
		return fmt.Errorf("load configured providers: %w", err)
	}

	if jsonOutput {
		entries := make([]map[string]interface{}, 0, len(records))
		for provider, record := range records {
			entries = append(entries, map[string]interface{}{
				"provider": provider,
				"masked":   record.Masked,
				"scope":    record.Scope,
			})
		}
		printJSON(map[string]interface{}{
			"credentials": entries,
			"configured":  configured,
		})
		return nil
	}

	if len(records) == 0 && len(configured) == 0 {
		printInfo("No credentials configured")
		return nil
	}

	for provider, record := range records {
		fmt.Printf("  %-12s %s (%s)\n", provider, record.Masked, record.Scope)
	}
	for provider := range configured {
		if _, active := records[provider]; !active {
			fmt.Printf("  %-12s configured (locked)\n", provider)
		}
	}

	return nil
}
