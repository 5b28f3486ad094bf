package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillchat/keyvault/internal/models"
)

var saveCmd = &cobra.Command{
	Use:   "save <provider>",
	Short: "Save an API key for a provider",
	Long: `Save encrypts and stores an API key under the chosen scope.

Request scope keeps nothing; tab and session scopes survive only as
long as their context; persistent scope requires a passphrase and
survives restarts.`,
	Example: `  keyvault save openai --scope session
  keyvault save anthropic --scope persistent`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

var (
	saveScope      string
	saveKey        string
	savePassphrase string
)

func init() {
	rootCmd.AddCommand(saveCmd)

	saveCmd.Flags().StringVarP(&saveScope, "scope", "s", "",
		"Storage scope: request, tab, session, or persistent (required)")
	saveCmd.Flags().StringVarP(&saveKey, "key", "k", "",
		"API key (will prompt if not provided)")
	saveCmd.Flags().StringVarP(&savePassphrase, "passphrase", "p", "",
		"Passphrase for persistent scope (will prompt if not provided)")

	_ = saveCmd.MarkFlagRequired("scope")
}

func runSave(cmd *cobra.Command, args []string) error {
	provider := models.ProviderID(args[0])

	scope, err := models.ParseScope(saveScope)
	if err != nil {
		return err
	}

	if saveKey == "" {
		saveKey, err = promptSecret(fmt.Sprintf("API key for %s: ", provider))
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
	}

	if scope == models.ScopePersistent && savePassphrase == "" {
		savePassphrase, err = promptSecret("Passphrase: ")
		if err != nil {
			return fmt.Errorf("read passphrase: %w", err)
		}
	}

	record, err := apiClient.Vault.Save(context.Background(), models.SaveRequest{
		Provider:   provider,
		Key:        saveKey,
		Scope:      scope,
		Passphrase: savePassphrase,
	})
	if err != nil {
		if jsonOutput {
			printJSON(map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
		} else {
			printError("Save failed: %v", err)
		}
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"success":  true,
			"provider": record.Provider,
			"masked":   record.Masked,
			"scope":    record.Scope,
		})
	} else {
		printSuccess("Saved %s key %s (%s scope)", record.Provider, record.Masked, record.Scope)
		if record.Scope == models.ScopeRequest {
			printWarning("Request scope: the key was not stored and cannot be retrieved")
		}
	}

	return nil
}
