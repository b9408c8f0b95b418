package main

import (
	"fmt"

	"github.com/govm-net/cwd/types"

	"github.com/spf13/cobra"
)

var (
	instCodeHash string
	instMsg      string
	instSalt     string
	instFunds    string
	instAdmin    string
	instSender   string
)

var instantiateCmd = &cobra.Command{
	Use:   "instantiate",
	Short: "Instantiate a contract from stored code",
	Long: `Create a new contract account from previously stored bytecode. The contract's
address is derived from the sender, the code hash and the salt.
Example: cwd instantiate --code-hash <hex> --msg '{}' --salt demo --sender <hex address>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sender, err := parseSender(instSender)
		if err != nil {
			return err
		}
		var codeHash types.Hash
		if err := codeHash.UnmarshalText([]byte(instCodeHash)); err != nil {
			return err
		}
		funds, err := types.ParseCoins(instFunds)
		if err != nil {
			return err
		}

		msg := &types.MsgInstantiate{
			CodeHash: codeHash,
			Msg:      []byte(instMsg),
			Salt:     []byte(instSalt),
			Funds:    funds,
		}
		if instAdmin != "" {
			admin, err := parseSender(instAdmin)
			if err != nil {
				return err
			}
			msg.Admin = &admin
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		if _, err := newEngine().ProcessMsg(store, currentBlock(), sender, types.Message{Instantiate: msg}); err != nil {
			return err
		}

		fmt.Printf("Contract instantiated successfully!\n")
		fmt.Printf("Contract address: %s\n", types.DeriveAddress(sender, codeHash, msg.Salt))
		return nil
	},
}

func init() {
	instantiateCmd.Flags().StringVar(&instCodeHash, "code-hash", "", "Code hash in hex (required)")
	instantiateCmd.Flags().StringVar(&instMsg, "msg", "{}", "Instantiate message (JSON)")
	instantiateCmd.Flags().StringVar(&instSalt, "salt", "", "Address derivation salt")
	instantiateCmd.Flags().StringVar(&instFunds, "funds", "", "Coins to attach, as denom:amount,...")
	instantiateCmd.Flags().StringVar(&instAdmin, "admin", "", "Admin address in hex")
	instantiateCmd.Flags().StringVar(&instSender, "sender", "", "Sender address in hex (required)")
	instantiateCmd.MarkFlagRequired("code-hash")
	instantiateCmd.MarkFlagRequired("sender")
}
