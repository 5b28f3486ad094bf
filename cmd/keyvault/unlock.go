package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillchat/keyvault/internal/models"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <provider>",
	Short: "Decrypt a persistent credential with its passphrase",
	Example: `  keyvault unlock openai
  keyvault unlock anthropic --json`,
	Args: cobra.ExactArgs(1),
	RunE: runUnlock,
}

var unlockPassphrase string

func init() {
	rootCmd.AddCommand(unlockCmd)

	unlockCmd.Flags().StringVarP(&unlockPassphrase, "passphrase", "p", "",
		"Passphrase (will prompt if not provided)")
}

func runUnlock(cmd *cobra.Command, args []string) error {
	provider := models.ProviderID(args[0])

	if unlockPassphrase == "" {
		var err error
		unlockPassphrase, err = promptSecret("Passphrase: ")
		if err != nil {
			return fmt.Errorf("read passphrase: %w", err)
		}
	}

	record, err := apiClient.Vault.LoadPersistent(context.Background(), provider, unlockPassphrase)
	if err != nil {
		if jsonOutput {
			printJSON(map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
		} else {
			printError("Unlock failed: %v", err)
		}
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"success":  true,
			"provider": record.Provider,
			"masked":   record.Masked,
		})
	} else {
		printSuccess("Unlocked %s key %s", record.Provider, record.Masked)
	}

	return nil
}
