package main

import (
	"fmt"
	"os"

	"github.com/govm-net/cwd/app"
	"github.com/govm-net/cwd/types"

	"github.com/spf13/cobra"
)

var (
	initChainID  string
	initBankFile string
	initBankMsg  string
	initSender   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a chain state with a bank contract",
	Long: `Initialize a fresh chain state: set the chain id, store the bank contract's
bytecode, instantiate it, and record its address in the chain config.
Example: cwd init --chain-id cwd-1 --bank bank.wasm --sender <hex address>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(initBankFile)
		if err != nil {
			return fmt.Errorf("failed to read bank bytecode: %w", err)
		}
		sender, err := parseSender(initSender)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		if err := app.SaveChainID(store, initChainID); err != nil {
			return err
		}

		engine := newEngine()
		block := currentBlock()

		if _, err := engine.ProcessMsg(store, block, sender, types.Message{
			StoreCode: &types.MsgStoreCode{ByteCode: code},
		}); err != nil {
			return err
		}

		codeHash := types.HashBytes(code)
		salt := []byte(initChainID)
		if _, err := engine.ProcessMsg(store, block, sender, types.Message{
			Instantiate: &types.MsgInstantiate{
				CodeHash: codeHash,
				Msg:      []byte(initBankMsg),
				Salt:     salt,
			},
		}); err != nil {
			return err
		}

		bank := types.DeriveAddress(sender, codeHash, salt)
		if err := app.SaveConfig(store, &app.Config{Bank: bank}); err != nil {
			return err
		}

		fmt.Printf("Chain initialized!\n")
		fmt.Printf("Chain id: %s\n", initChainID)
		fmt.Printf("Bank contract: %s\n", bank)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initChainID, "chain-id", "", "Chain identifier (required)")
	initCmd.Flags().StringVar(&initBankFile, "bank", "", "Bank contract bytecode file (required)")
	initCmd.Flags().StringVar(&initBankMsg, "msg", "{}", "Bank contract instantiate message (JSON)")
	initCmd.Flags().StringVar(&initSender, "sender", "", "Deployer address in hex (required)")
	initCmd.MarkFlagRequired("chain-id")
	initCmd.MarkFlagRequired("bank")
	initCmd.MarkFlagRequired("sender")
}
