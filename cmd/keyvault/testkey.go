package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/quillchat/keyvault/internal/models"
)

var testKeyCmd = &cobra.Command{
	Use:     "test-key <provider>",
	Short:   "Check whether a provider's configured key works",
	Example: `  keyvault test-key openai`,
	Args:    cobra.ExactArgs(1),
	RunE:    runTestKey,
}

func init() {
	rootCmd.AddCommand(testKeyCmd)
}

func runTestKey(cmd *cobra.Command, args []string) error {
	provider := models.ProviderID(args[0])

	result := apiClient.Vault.TestAPIKey(context.Background(), provider)

	if jsonOutput {
		printJSON(map[string]interface{}{
			"provider": provider,
			"success":  result.Success,
			"error":    result.Error,
		})
		return nil
	}

	if result.Success {
		printSuccess("Key for %s is valid", provider)
	} else if result.Error != "" {
		printWarning("Key for %s failed: %s", provider, result.Error)
	} else {
		printWarning("Key for %s failed", provider)
	}

	return nil
}
