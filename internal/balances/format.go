package balances

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/domain/model"
	"github.com/ohmynofan/token-balances/internal/erc20"
	"github.com/ohmynofan/token-balances/pkg/utils"
)

// BalancesByContract merges every metadata record with its raw balance,
// scaled by 10^-decimals. Every key of meta must be present in raw.
func BalancesByContract(meta model.MetaByContract, raw map[common.Address][]byte) (model.BalancesByContract, error) {
	out := make(model.BalancesByContract, len(meta))
	for contract, info := range meta {
		data, ok := raw[contract]
		if !ok {
			return nil, fmt.Errorf("no raw balance for %s", contract.Hex())
		}
		amount, err := erc20.DecodeUint256(data)
		if err != nil {
			return nil, fmt.Errorf("balance of %s: %w", contract.Hex(), err)
		}

		out[contract] = model.TokenBalance{
			TokenMeta: info,
			Raw:       amount,
			BalanceOf: utils.FormatUnits(amount, info.Decimals),
		}
	}
	return out, nil
}
