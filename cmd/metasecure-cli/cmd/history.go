package cmd

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List ledger transfers for the connected account",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := callAPI("GET", "/api/v1/transactions", nil)
		if err != nil {
			return err
		}
		printData(env)
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Show the ledger transfer counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := callAPI("GET", "/api/v1/transactions/count", nil)
		if err != nil {
			return err
		}
		printData(env)
		return nil
	},
}

var partialsCmd = &cobra.Command{
	Use:   "partials",
	Short: "List submissions whose ledger append failed after the transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := callAPI("GET", "/api/v1/transactions/partials", nil)
		if err != nil {
			return err
		}
		printData(env)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(partialsCmd)
}
