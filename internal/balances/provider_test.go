package balances

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/config"
	"github.com/ohmynofan/token-balances/internal/multicall/multicalltest"
)

type mockProvider struct {
	*multicalltest.Chain
	network  config.Network
	resolved common.Address
	netErr   error

	networkCalls atomic.Int32
	resolveCalls atomic.Int32
}

func newMockProvider(chainID int) *mockProvider {
	return &mockProvider{
		Chain:   multicalltest.NewChain(),
		network: config.NetworkByChainID(chainID),
	}
}

func (m *mockProvider) Network(context.Context) (config.Network, error) {
	m.networkCalls.Add(1)
	if m.netErr != nil {
		return config.Network{}, m.netErr
	}
	return m.network, nil
}

func (m *mockProvider) ResolveName(_ context.Context, name string) (common.Address, error) {
	m.resolveCalls.Add(1)
	if name == "" {
		return common.Address{}, errors.New("empty name")
	}
	return m.resolved, nil
}
