package main

import (
	"fmt"
	"os"
	"time"

	"github.com/govm-net/cwd/app"
	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	dbPath  string
	backend string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cwd",
	Short: "Contract execution engine command line tool",
	Long: `Contract execution engine command line tool for storing, instantiating,
executing and querying WebAssembly smart contracts against a local store.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./cwd.db", "Path of the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", string(storage.SQLiteBackend), "Storage backend (sqlite or memdb)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(storeCodeCmd)
	rootCmd.AddCommand(instantiateCmd)
	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(queryCmd)
}

func openStore() (storage.Storage, error) {
	return storage.Open(storage.BackendType(backend), map[string]any{"db_path": dbPath})
}

func newEngine() *app.App {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
	return app.NewApp(app.WithLogger(logger))
}

// currentBlock synthesizes the block context for a CLI-driven call. A real
// node supplies this from consensus.
func currentBlock() *types.BlockInfo {
	return &types.BlockInfo{Timestamp: time.Now().Unix()}
}

func parseSender(s string) (types.Address, error) {
	var addr types.Address
	if err := addr.UnmarshalText([]byte(s)); err != nil {
		return types.ZeroAddress, err
	}
	return addr, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
