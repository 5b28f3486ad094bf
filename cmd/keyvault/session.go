package main

import (
	"github.com/spf13/cobra"

	"github.com/quillchat/keyvault/internal/client"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the session credential scope",
}

var sessionEndCmd = &cobra.Command{
	Use:   "end",
	Short: "Discard all session-scope credentials for this session",
	RunE:  runSessionEnd,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionEndCmd)
}

func runSessionEnd(cmd *cobra.Command, args []string) error {
	if err := apiClient.EndSession(); err != nil {
		printError("End session failed: %v", err)
		return err
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"success": true,
			"session": client.SessionID(),
		})
	} else {
		printSuccess("Ended session %s", client.SessionID())
	}

	return nil
}
