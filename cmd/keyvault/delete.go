package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/quillchat/keyvault/internal/models"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <provider>",
	Short:   "Remove a provider's credential from every scope",
	Example: `  keyvault delete openai`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all credentials from every scope",
	Long:  `Clear wipes every stored credential and resets configured status.`,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	provider := models.ProviderID(args[0])

	if err := apiClient.Vault.Delete(context.Background(), provider); err != nil {
		printError("Delete failed: %v", err)
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"success":  true,
			"provider": provider,
		})
	} else {
		printSuccess("Deleted credential for %s", provider)
	}

	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if err := apiClient.Vault.Clear(context.Background()); err != nil {
		printError("Clear failed: %v", err)
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{"success": true})
	} else {
		printSuccess("Cleared all credentials")
	}

	return nil
}
