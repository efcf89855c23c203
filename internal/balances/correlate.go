package balances

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/domain/model"
	"github.com/ohmynofan/token-balances/internal/erc20"
	"github.com/ohmynofan/token-balances/internal/multicall"
)

// hashZero is the canonical all-zero 32-byte word.
var hashZero = make([]byte, common.HashLength)

// hasBalance reports false for a zero word and for anything that is not
// exactly one word long.
func hasBalance(data []byte) bool {
	return len(data) == len(hashZero) && !bytes.Equal(data, hashZero)
}

// NonZeroResults pairs results[i] with contracts[i] as balanceOf results and
// drops zero and malformed entries, keeping input order.
func NonZeroResults(results []model.CallResult, contracts []common.Address) ([]model.AssociatedCallResult, error) {
	envelopes := make(model.Envelopes, len(contracts))
	for i, contract := range contracts {
		envelopes[i] = model.CallEnvelope{
			Call:    model.Call{Target: contract},
			Context: model.CallContext{Contract: contract, Method: erc20.MethodBalanceOf},
		}
	}
	associated, err := multicall.Associate(envelopes, results)
	if err != nil {
		return nil, err
	}
	return FilterNonZero(associated), nil
}

// FilterNonZero keeps the entries whose data is a non-zero 32-byte word.
func FilterNonZero(associated []model.AssociatedCallResult) []model.AssociatedCallResult {
	out := make([]model.AssociatedCallResult, 0, len(associated))
	for _, result := range associated {
		if hasBalance(result.ReturnData) {
			out = append(out, result)
		}
	}
	return out
}

// ResultDataByContract keys raw return data by contract. A repeated contract
// keeps its last value.
func ResultDataByContract(associated []model.AssociatedCallResult) map[common.Address][]byte {
	out := make(map[common.Address][]byte, len(associated))
	for _, result := range associated {
		out[result.Contract()] = result.ReturnData
	}
	return out
}

// BuildCallsContext emits symbol, decimals and name envelopes, in that
// order, for each contract in associated.
func BuildCallsContext(associated []model.AssociatedCallResult) (model.Envelopes, error) {
	envelopes := make(model.Envelopes, 0, len(associated)*len(erc20.MetaMethods))
	for _, result := range associated {
		for _, method := range erc20.MetaMethods {
			env, err := erc20.NewEnvelope(result.Contract(), method)
			if err != nil {
				return nil, err
			}
			envelopes = append(envelopes, env)
		}
	}
	return envelopes, nil
}
