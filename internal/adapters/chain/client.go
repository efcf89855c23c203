// Package chain connects to an Ethereum JSON-RPC endpoint and exposes the
// eth_call, chain id and ENS capabilities the balance service needs.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/ohmynofan/token-balances/internal/config"
	"github.com/ohmynofan/token-balances/internal/multicall"
	"github.com/ohmynofan/token-balances/internal/platform/logger"
)

type chainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// backend is the subset of *ethclient.Client used here.
type backend interface {
	multicall.ContractCaller
	chainIDReader
}

type EthersClient struct {
	backend backend
	closer  func()
	ens     *ENS
	log     *logger.ClassLogger

	mu      sync.Mutex
	network *config.Network
}

func New(rpcURL string) (*EthersClient, error) {
	scope := "[New EtherClient] Error :"
	log := logger.NewNamed("EthersClient")
	log.Log("Initializing Ethers Client...")

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%s failed to connect RPC: %w", scope, err)
	}
	ec := NewWithBackend(client)
	ec.closer = client.Close
	return ec, nil
}

// NewWithBackend wraps an already connected backend. Close is a no-op.
func NewWithBackend(b backend) *EthersClient {
	ec := &EthersClient{backend: b}
	ec.ens = NewENS(b, ENSRegistryAddress)
	ec.log = logger.NewLogger(ec)
	return ec
}

func (e *EthersClient) Close() {
	if e.closer != nil {
		e.closer()
	}
}

func (e *EthersClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return e.backend.CallContract(ctx, msg, blockNumber)
}

// Network reports the connected chain. The chain id is read once.
func (e *EthersClient) Network(ctx context.Context) (config.Network, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.network != nil {
		return *e.network, nil
	}

	id, err := e.backend.ChainID(ctx)
	if err != nil {
		return config.Network{}, fmt.Errorf("[Network] Error : failed to read chain id: %w", err)
	}
	network := config.NetworkByChainID(int(id.Int64()))
	e.network = &network
	e.log.Log(fmt.Sprintf("Connected to %s (chain %d)", network.DisplayName(), network.ChainID))
	return network, nil
}

func (e *EthersClient) ResolveName(ctx context.Context, name string) (common.Address, error) {
	addr, err := e.ens.Resolve(ctx, name)
	if err != nil {
		return common.Address{}, err
	}
	if addr != (common.Address{}) {
		e.log.Log(fmt.Sprintf("Resolved %s to %s", name, addr.Hex()))
	}
	return addr, nil
}
