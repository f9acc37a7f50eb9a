package cmd

import (
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the wallet session",
	Long:  `Asks the coordinator to request account access from the wallet. The wallet prompts for approval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := callAPI("POST", "/api/v1/session/connect", nil)
		if err != nil {
			return err
		}
		printData(env)
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the wallet session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := callAPI("DELETE", "/api/v1/session", nil)
		if err != nil {
			return err
		}
		printData(env)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := callAPI("GET", "/api/v1/session", nil)
		if err != nil {
			return err
		}
		printData(env)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(statusCmd)
}
