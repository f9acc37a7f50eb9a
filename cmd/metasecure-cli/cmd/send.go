package cmd

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transfer",
	Long: `Submits a two-phase transfer: a native value transfer approved in
the wallet, then a record appended to the ledger contract.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetString("amount")
		keyword, _ := cmd.Flags().GetString("keyword")
		message, _ := cmd.Flags().GetString("message")

		payload, err := json.Marshal(map[string]string{
			"address_to": to,
			"amount":     amount,
			"keyword":    keyword,
			"message":    message,
		})
		if err != nil {
			return err
		}

		env, err := callAPI("POST", "/api/v1/transactions", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		printData(env)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().String("to", "", "recipient address")
	sendCmd.Flags().String("amount", "", "amount in ETH")
	sendCmd.Flags().String("keyword", "", "card keyword")
	sendCmd.Flags().String("message", "", "attached message")
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("amount")
}
