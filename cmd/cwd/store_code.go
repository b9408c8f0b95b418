package main

import (
	"fmt"
	"os"

	"github.com/govm-net/cwd/types"

	"github.com/spf13/cobra"
)

var (
	storeCodeFile   string
	storeCodeSender string
)

var storeCodeCmd = &cobra.Command{
	Use:   "store-code",
	Short: "Store contract bytecode under its content hash",
	Long: `Store a WebAssembly bytecode blob in the code registry.
Example: cwd store-code -f contract.wasm --sender <hex address>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(storeCodeFile)
		if err != nil {
			return fmt.Errorf("failed to read bytecode file: %w", err)
		}
		sender, err := parseSender(storeCodeSender)
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		if _, err := newEngine().ProcessMsg(store, currentBlock(), sender, types.Message{
			StoreCode: &types.MsgStoreCode{ByteCode: code},
		}); err != nil {
			return err
		}

		fmt.Printf("Code stored successfully!\n")
		fmt.Printf("Code hash: %s\n", types.HashBytes(code))
		return nil
	},
}

func init() {
	storeCodeCmd.Flags().StringVarP(&storeCodeFile, "file", "f", "", "Bytecode file of the contract (required)")
	storeCodeCmd.Flags().StringVar(&storeCodeSender, "sender", "", "Sender address in hex (required)")
	storeCodeCmd.MarkFlagRequired("file")
	storeCodeCmd.MarkFlagRequired("sender")
}
