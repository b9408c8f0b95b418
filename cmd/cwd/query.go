package main

import (
	"encoding/hex"
	"fmt"

	"github.com/govm-net/cwd/types"

	"github.com/spf13/cobra"
)

var (
	queryContract string
	querySmartMsg string
	queryRawKey   string
	queryAddress  string
	queryDenom    string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query chain state",
}

var queryInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show chain-level information",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := runQuery(&types.QueryRequest{Info: &types.InfoQuery{}})
		if err != nil {
			return err
		}
		fmt.Printf("Chain id: %s\n", resp.Info.ChainID)
		fmt.Printf("Block height: %d\n", resp.Info.BlockHeight)
		fmt.Printf("Block timestamp: %d\n", resp.Info.BlockTimestamp)
		return nil
	},
}

var querySmartCmd = &cobra.Command{
	Use:   "smart",
	Short: "Invoke a contract's query entry point",
	Long: `Invoke a contract's query entry point on a read-only instance.
Example: cwd query smart --contract <hex address> --msg '{"config":{}}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, err := parseSender(queryContract)
		if err != nil {
			return err
		}
		resp, err := runQuery(&types.QueryRequest{
			WasmSmart: &types.WasmSmartQuery{Contract: contract, Msg: []byte(querySmartMsg)},
		})
		if err != nil {
			return err
		}
		fmt.Println(string(resp.WasmSmart))
		return nil
	},
}

var queryRawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Read a raw key from a contract's store",
	Long: `Read a raw key from a contract's scoped store. The key is hex encoded.
Example: cwd query raw --contract <hex address> --key 636f756e746572`,
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, err := parseSender(queryContract)
		if err != nil {
			return err
		}
		key, err := hex.DecodeString(queryRawKey)
		if err != nil {
			return fmt.Errorf("invalid key hex: %w", err)
		}
		resp, err := runQuery(&types.QueryRequest{
			WasmRaw: &types.WasmRawQuery{Contract: contract, Key: key},
		})
		if err != nil {
			return err
		}
		if resp.WasmRaw == nil {
			fmt.Println("(not set)")
			return nil
		}
		fmt.Println(hex.EncodeToString(resp.WasmRaw))
		return nil
	},
}

var queryBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show an account's balance of one denom",
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := parseSender(queryAddress)
		if err != nil {
			return err
		}
		resp, err := runQuery(&types.QueryRequest{
			Bank: &types.BankQuery{Balance: &types.BalanceQuery{Address: address, Denom: queryDenom}},
		})
		if err != nil {
			return err
		}
		fmt.Println(resp.Bank.Balance)
		return nil
	},
}

func runQuery(req *types.QueryRequest) (*types.QueryResponse, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return newEngine().Query(store, currentBlock(), req)
}

func init() {
	querySmartCmd.Flags().StringVar(&queryContract, "contract", "", "Contract address in hex (required)")
	querySmartCmd.Flags().StringVar(&querySmartMsg, "msg", "{}", "Query message (JSON)")
	querySmartCmd.MarkFlagRequired("contract")

	queryRawCmd.Flags().StringVar(&queryContract, "contract", "", "Contract address in hex (required)")
	queryRawCmd.Flags().StringVar(&queryRawKey, "key", "", "Storage key in hex (required)")
	queryRawCmd.MarkFlagRequired("contract")
	queryRawCmd.MarkFlagRequired("key")

	queryBalanceCmd.Flags().StringVar(&queryAddress, "address", "", "Account address in hex (required)")
	queryBalanceCmd.Flags().StringVar(&queryDenom, "denom", "", "Denomination (required)")
	queryBalanceCmd.MarkFlagRequired("address")
	queryBalanceCmd.MarkFlagRequired("denom")

	queryCmd.AddCommand(queryInfoCmd)
	queryCmd.AddCommand(querySmartCmd)
	queryCmd.AddCommand(queryRawCmd)
	queryCmd.AddCommand(queryBalanceCmd)
}
