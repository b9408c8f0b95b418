package main

import (
	"fmt"

	"github.com/govm-net/cwd/types"

	"github.com/spf13/cobra"
)

var (
	execContract string
	execMsg      string
	execFunds    string
	execSender   string
)

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Execute a contract",
	Long: `Invoke the execute entry point of an existing contract.
Example: cwd execute --contract <hex address> --msg '{"increment":{}}' --sender <hex address>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sender, err := parseSender(execSender)
		if err != nil {
			return err
		}
		contract, err := parseSender(execContract)
		if err != nil {
			return err
		}
		funds, err := types.ParseCoins(execFunds)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		events, err := newEngine().ProcessMsg(store, currentBlock(), sender, types.Message{
			Execute: &types.MsgExecute{Contract: contract, Msg: []byte(execMsg), Funds: funds},
		})
		if err != nil {
			return err
		}

		fmt.Printf("Contract executed successfully!\n")
		for _, event := range events {
			fmt.Printf("Event %s (%s):\n", event.Type, event.Contract)
			for _, attr := range event.Attributes {
				fmt.Printf("  %s = %s\n", attr.Key, attr.Value)
			}
		}
		return nil
	},
}

func init() {
	executeCmd.Flags().StringVar(&execContract, "contract", "", "Contract address in hex (required)")
	executeCmd.Flags().StringVar(&execMsg, "msg", "{}", "Execute message (JSON)")
	executeCmd.Flags().StringVar(&execFunds, "funds", "", "Coins to attach, as denom:amount,...")
	executeCmd.Flags().StringVar(&execSender, "sender", "", "Sender address in hex (required)")
	executeCmd.MarkFlagRequired("contract")
	executeCmd.MarkFlagRequired("sender")
}
