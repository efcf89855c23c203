// Package multicall batches read-only calls into a single Multicall3
// tryBlockAndAggregate eth_call.
package multicall

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/domain/model"
)

// Multicall3Address is the Multicall3 deployment shared by most EVM chains.
var Multicall3Address = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

var ErrResultMismatch = errors.New("multicall: result count does not match call count")

// ContractCaller executes an eth_call.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type Response struct {
	BlockNumber *big.Int
	BlockHash   common.Hash
	Results     []model.CallResult
}

type Client struct {
	contract common.Address
	caller   ContractCaller
}

func New(caller ContractCaller, contract common.Address) *Client {
	return &Client{contract: contract, caller: caller}
}

// Aggregate sends calls in one eth_call with requireSuccess=false, so a
// reverting call comes back as Success=false instead of failing the batch.
// Transport errors are returned as is.
func (c *Client) Aggregate(ctx context.Context, calls []model.Call) (Response, error) {
	input, err := parsedABI.Pack(methodTryBlockAndAggregate, false, calls)
	if err != nil {
		return Response{}, fmt.Errorf("multicall: encode %d calls: %w", len(calls), err)
	}

	raw, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: input}, nil)
	if err != nil {
		return Response{}, err
	}

	var out struct {
		BlockNumber *big.Int
		BlockHash   [32]byte
		ReturnData  []model.CallResult
	}
	if err := parsedABI.UnpackIntoInterface(&out, methodTryBlockAndAggregate, raw); err != nil {
		return Response{}, fmt.Errorf("multicall: decode response: %w", err)
	}
	if len(out.ReturnData) != len(calls) {
		return Response{}, fmt.Errorf("%w: %d != %d", ErrResultMismatch, len(out.ReturnData), len(calls))
	}

	return Response{
		BlockNumber: out.BlockNumber,
		BlockHash:   common.Hash(out.BlockHash),
		Results:     out.ReturnData,
	}, nil
}

// Execute aggregates the envelopes' calls and pairs every result with the
// context of the call that produced it.
func (c *Client) Execute(ctx context.Context, envelopes model.Envelopes) ([]model.AssociatedCallResult, Response, error) {
	resp, err := c.Aggregate(ctx, envelopes.Calls())
	if err != nil {
		return nil, Response{}, err
	}
	associated, err := Associate(envelopes, resp.Results)
	if err != nil {
		return nil, Response{}, err
	}
	return associated, resp, nil
}

// Associate zips results with envelopes by position.
func Associate(envelopes model.Envelopes, results []model.CallResult) ([]model.AssociatedCallResult, error) {
	if len(envelopes) != len(results) {
		return nil, fmt.Errorf("%w: %d != %d", ErrResultMismatch, len(results), len(envelopes))
	}
	associated := make([]model.AssociatedCallResult, len(results))
	for i, result := range results {
		associated[i] = model.AssociatedCallResult{
			Context:    envelopes[i].Context,
			Success:    result.Success,
			ReturnData: result.ReturnData,
		}
	}
	return associated, nil
}
