// Package balances fetches ERC-20 balances for one holder across many token
// contracts with two rounds of Multicall3 aggregation: balanceOf for every
// contract, then symbol, decimals and name for the non-zero ones.
package balances

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/ohmynofan/token-balances/internal/config"
	"github.com/ohmynofan/token-balances/internal/domain/model"
	"github.com/ohmynofan/token-balances/internal/erc20"
	"github.com/ohmynofan/token-balances/internal/multicall"
	"github.com/ohmynofan/token-balances/internal/platform/logger"
	"github.com/ohmynofan/token-balances/pkg/utils"
)

// Provider is the network capability the service needs: eth_call, chain
// identity and name resolution.
type Provider interface {
	multicall.ContractCaller
	Resolver
}

type Request struct {
	AddressOrName     string
	ContractAddresses []common.Address
	// ChunkSize bounds the balanceOf calls per aggregate. Zero means 500.
	ChunkSize int
}

type Report struct {
	Holder      common.Address
	Balances    model.BalancesByContract
	Diagnostics []Diagnostic
	// BlockNumber is the block the metadata was read at; nil when no
	// balance was found.
	BlockNumber *big.Int
}

type Service struct {
	provider  Provider
	multicall *multicall.Client
	log       *logger.ClassLogger
}

type Option func(*Service)

// WithMulticall points the service at a different aggregator deployment.
func WithMulticall(address common.Address) Option {
	return func(s *Service) {
		s.multicall = multicall.New(s.provider, address)
	}
}

func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		multicall: multicall.New(provider, multicall.Multicall3Address),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.NewLogger(s)
	return s
}

// GetTokenBalances returns the holder's non-zero balances keyed by contract.
// Any transport failure aborts the whole fetch.
func (s *Service) GetTokenBalances(ctx context.Context, req Request) (*Report, error) {
	holder, err := GetAddress(ctx, req.AddressOrName, s.provider)
	if err != nil {
		return nil, err
	}

	chunkSize := req.ChunkSize
	if chunkSize <= 0 {
		chunkSize = config.DefaultChunkSize
	}
	chunks := utils.Chunk(req.ContractAddresses, chunkSize)
	s.log.Log(fmt.Sprintf("Fetching balances of %s across %d contracts in %d chunks", holder.Hex(), len(req.ContractAddresses), len(chunks)))

	perChunk := make([][]model.AssociatedCallResult, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			results, err := s.FetchRawBalances(gctx, holder, chunk)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			perChunk[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var nonZero []model.AssociatedCallResult
	for _, results := range perChunk {
		nonZero = append(nonZero, results...)
	}
	if len(nonZero) == 0 {
		s.log.Log("No non-zero balances found")
		return &Report{Holder: holder, Balances: model.BalancesByContract{}}, nil
	}

	rawBalances := ResultDataByContract(nonZero)
	metaCalls, err := BuildCallsContext(nonZero)
	if err != nil {
		return nil, err
	}
	metaResults, resp, err := s.multicall.Execute(ctx, metaCalls)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token metadata: %w", err)
	}
	s.log.JustLog(fmt.Sprintf("Metadata for %d contracts read at block %s", len(nonZero), resp.BlockNumber))

	meta, diagnostics, err := DecodeMetaResults(metaResults)
	if err != nil {
		return nil, err
	}
	for _, d := range diagnostics {
		s.log.Warn(d.Message)
	}

	balances, err := BalancesByContract(meta, rawBalances)
	if err != nil {
		return nil, err
	}
	s.log.Log(fmt.Sprintf("Found %d non-zero balances for %s", len(balances), holder.Hex()))

	return &Report{Holder: holder, Balances: balances, Diagnostics: diagnostics, BlockNumber: resp.BlockNumber}, nil
}

// FetchRawBalances runs one balanceOf aggregate for contracts and returns
// the non-zero results in input order.
func (s *Service) FetchRawBalances(ctx context.Context, holder common.Address, contracts []common.Address) ([]model.AssociatedCallResult, error) {
	calls := make(model.Envelopes, 0, len(contracts))
	for _, contract := range contracts {
		env, err := erc20.NewEnvelope(contract, erc20.MethodBalanceOf, holder)
		if err != nil {
			return nil, err
		}
		calls = append(calls, env)
	}

	associated, resp, err := s.multicall.Execute(ctx, calls)
	if err != nil {
		return nil, err
	}

	nonZero := FilterNonZero(associated)
	malformed := 0
	for _, result := range associated {
		if result.Success && len(result.ReturnData) != len(hashZero) {
			malformed++
		}
	}
	if malformed > 0 {
		s.log.Warn(fmt.Sprintf("Dropped %d malformed balance results", malformed))
	}
	s.log.JustLog(fmt.Sprintf("%d/%d non-zero balances at block %s", len(nonZero), len(contracts), resp.BlockNumber))
	return nonZero, nil
}
