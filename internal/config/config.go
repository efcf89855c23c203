package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

const (
	DefaultChunkSize        = 500
	DefaultMulticallAddress = "0xcA11bde05977b3631167028862bE2a173976CA11"
	DefaultLogPath          = "logs/app.log"
	DefaultSnapshotPath     = "data/balances.db"

	// SnapshotDisabled as SNAPSHOT_DB turns the snapshot store off.
	SnapshotDisabled = "-"
)

type Config struct {
	RPCURL           string
	Holder           string
	Contracts        []string
	TokenListSource  string
	ChunkSize        int
	MulticallAddress string
	LogPath          string
	SnapshotPath     string
}

func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment only")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() Config {
	return Config{
		RPCURL:           strings.TrimSpace(os.Getenv("RPC_URL")),
		Holder:           strings.TrimSpace(os.Getenv("HOLDER")),
		Contracts:        splitList(os.Getenv("CONTRACTS")),
		TokenListSource:  strings.TrimSpace(os.Getenv("TOKEN_LIST")),
		ChunkSize:        parseIntWithDefault(os.Getenv("CHUNK_SIZE"), DefaultChunkSize),
		MulticallAddress: stringWithDefault(os.Getenv("MULTICALL_ADDRESS"), DefaultMulticallAddress),
		LogPath:          stringWithDefault(os.Getenv("LOG_PATH"), DefaultLogPath),
		SnapshotPath:     stringWithDefault(os.Getenv("SNAPSHOT_DB"), DefaultSnapshotPath),
	}
}

func parseIntWithDefault(value string, defaultVal int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultVal
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return defaultVal
}

func stringWithDefault(value, defaultVal string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultVal
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	if c.RPCURL == "" {
		return errors.New("RPC_URL is required")
	}
	if c.Holder == "" {
		return errors.New("HOLDER is required (address or ENS name)")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be a positive integer, got %d", c.ChunkSize)
	}
	if !common.IsHexAddress(c.MulticallAddress) {
		return fmt.Errorf("MULTICALL_ADDRESS is not an address: %s", c.MulticallAddress)
	}
	if len(c.Contracts) == 0 && c.TokenListSource == "" {
		return errors.New("token contracts required (provide CONTRACTS or TOKEN_LIST)")
	}
	for idx, contract := range c.Contracts {
		if !common.IsHexAddress(contract) {
			return fmt.Errorf("invalid contract address at index %d: %s", idx, contract)
		}
	}
	return nil
}

func (c Config) SnapshotEnabled() bool {
	return c.SnapshotPath != SnapshotDisabled
}

// ContractAddresses parses Contracts. Call Validate first.
func (c Config) ContractAddresses() []common.Address {
	out := make([]common.Address, 0, len(c.Contracts))
	for _, contract := range c.Contracts {
		out = append(out, common.HexToAddress(contract))
	}
	return out
}
