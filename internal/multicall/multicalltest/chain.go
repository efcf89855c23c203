// Package multicalltest provides an in-memory chain that answers Multicall3
// tryBlockAndAggregate requests from registered fake contracts.
package multicalltest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/domain/model"
	"github.com/ohmynofan/token-balances/internal/multicall"
)

// Contract answers a single call. ok=false is a revert.
type Contract func(callData []byte) (returnData []byte, ok bool)

type Chain struct {
	Multicall   common.Address
	BlockNumber *big.Int
	BlockHash   common.Hash

	// Err, when set, fails every CallContract as a transport error would.
	Err error

	mu        sync.Mutex
	contracts map[common.Address]Contract
	batches   [][]model.Call
}

func NewChain() *Chain {
	return &Chain{
		Multicall:   multicall.Multicall3Address,
		BlockNumber: big.NewInt(1337),
		contracts:   make(map[common.Address]Contract),
	}
}

func (c *Chain) Register(address common.Address, contract Contract) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contracts[address] = contract
}

// Batches returns every aggregate request received, in arrival order.
func (c *Chain) Batches() [][]model.Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]model.Call, len(c.batches))
	copy(out, c.batches)
	return out
}

func (c *Chain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if msg.To == nil || *msg.To != c.Multicall {
		return nil, fmt.Errorf("multicalltest: unexpected target %v", msg.To)
	}
	calls, err := DecodeCalls(msg.Data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.batches = append(c.batches, calls)
	contracts := make(map[common.Address]Contract, len(c.contracts))
	for k, v := range c.contracts {
		contracts[k] = v
	}
	c.mu.Unlock()

	results := make([]model.CallResult, len(calls))
	for i, call := range calls {
		contract, ok := contracts[call.Target]
		if !ok {
			results[i] = model.CallResult{Success: false, ReturnData: []byte{}}
			continue
		}
		data, ok := contract(call.CallData)
		if data == nil {
			data = []byte{}
		}
		results[i] = model.CallResult{Success: ok, ReturnData: data}
	}
	return EncodeResponse(c.BlockNumber, c.BlockHash, results)
}

// DecodeCalls unpacks the calls of a tryBlockAndAggregate request.
func DecodeCalls(input []byte) ([]model.Call, error) {
	method, ok := multicall.ABI().Methods["tryBlockAndAggregate"]
	if !ok {
		return nil, errors.New("multicalltest: tryBlockAndAggregate missing from abi")
	}
	if len(input) < 4 || string(input[:4]) != string(method.ID) {
		return nil, errors.New("multicalltest: not a tryBlockAndAggregate call")
	}
	values, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, err
	}
	var args struct {
		RequireSuccess bool
		Calls          []model.Call
	}
	if err := method.Inputs.Copy(&args, values); err != nil {
		return nil, err
	}
	if args.RequireSuccess {
		return nil, errors.New("multicalltest: requireSuccess must be false")
	}
	return args.Calls, nil
}

// EncodeResponse packs a tryBlockAndAggregate return value.
func EncodeResponse(blockNumber *big.Int, blockHash common.Hash, results []model.CallResult) ([]byte, error) {
	method := multicall.ABI().Methods["tryBlockAndAggregate"]
	return method.Outputs.Pack(blockNumber, [32]byte(blockHash), results)
}
