package balances

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/config"
)

// Resolver is the naming half of a Provider.
type Resolver interface {
	Network(ctx context.Context) (config.Network, error)
	// ResolveName returns the zero address when the name has no address.
	ResolveName(ctx context.Context, name string) (common.Address, error)
}

// GetAddress returns an address literal unchanged without touching the
// network. Names are resolved only on chain id 1.
func GetAddress(ctx context.Context, addressOrName string, resolver Resolver) (common.Address, error) {
	if IsAddress(addressOrName) {
		return common.HexToAddress(addressOrName), nil
	}

	network, err := resolver.Network(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to detect network: %w", err)
	}
	if network.ChainID != config.ENSChainID {
		return common.Address{}, &UnsupportedNetworkError{Network: network.DisplayName(), ChainID: network.ChainID}
	}

	address, err := resolver.ResolveName(ctx, addressOrName)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to resolve %s: %w", addressOrName, err)
	}
	if address == (common.Address{}) {
		return common.Address{}, &InvalidNameError{Name: addressOrName}
	}
	return address, nil
}

// IsAddress reports whether s is a 20-byte hex address that is all lower
// case, all upper case, or carries a valid EIP-55 checksum. Mixed case with a
// wrong checksum is not an address.
func IsAddress(s string) bool {
	if !common.IsHexAddress(s) {
		return false
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == strings.ToLower(digits) || digits == strings.ToUpper(digits) {
		return true
	}
	return common.HexToAddress(s).Hex()[2:] == digits
}
