package app

import (
	"encoding/json"
	"fmt"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"
)

// Config is the chain-level configuration stored at genesis.
type Config struct {
	// Bank is the address of the system bank contract. All coin movement is
	// routed through its transfer entry point.
	Bank types.Address `json:"bank"`
}

func SaveConfig(store storage.Storage, cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return store.Set(configKey, data)
}

func LoadConfig(store storage.Storage) (*Config, error) {
	data, err := store.Get(configKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, types.NotFoundError{Kind: "config", Key: string(configKey)}
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func SaveChainID(store storage.Storage, chainID string) error {
	return store.Set(chainIDKey, []byte(chainID))
}

func LoadChainID(store storage.Storage) (string, error) {
	data, err := store.Get(chainIDKey)
	if err != nil {
		return "", err
	}
	if data == nil {
		return "", types.NotFoundError{Kind: "chain id", Key: string(chainIDKey)}
	}
	return string(data), nil
}
