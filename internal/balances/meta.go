package balances

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/domain/model"
	"github.com/ohmynofan/token-balances/internal/erc20"
)

// Diagnostic is a non-fatal note about a single decoded result.
type Diagnostic struct {
	Contract common.Address
	Method   string
	Message  string
	Cause    error
}

func (d Diagnostic) String() string {
	return d.Message
}

// DecodeMetaResults decodes symbol, decimals and name results into a record
// per contract. Results that do not match the declared type are read as
// bytes32 strings and reported in the returned diagnostics.
func DecodeMetaResults(results []model.AssociatedCallResult) (model.MetaByContract, []Diagnostic, error) {
	meta := make(model.MetaByContract)
	var diagnostics []Diagnostic

	for _, result := range results {
		contract, method := result.Contract(), result.Context.Method
		decoded, err := erc20.Decode(method, result.ReturnData)
		if err != nil {
			return nil, nil, err
		}
		if decoded.Kind == erc20.Fallback {
			diagnostics = append(diagnostics, Diagnostic{
				Contract: contract,
				Method:   method,
				Message:  fmt.Sprintf("Problem decoding %s for %s. The contract is likely not ERC-20 compliant.", method, contract.Hex()),
				Cause:    decoded.Cause,
			})
		}

		record := meta[contract]
		switch method {
		case erc20.MethodSymbol:
			record.Symbol = stringValue(decoded)
		case erc20.MethodName:
			record.Name = stringValue(decoded)
		case erc20.MethodDecimals:
			decimals, ok := decimalsValue(decoded)
			if !ok {
				diagnostics = append(diagnostics, Diagnostic{
					Contract: contract,
					Method:   method,
					Message:  fmt.Sprintf("Unreadable decimals %q for %s, using 0.", fmt.Sprint(decoded.Value), contract.Hex()),
				})
			}
			record.Decimals = decimals
		default:
			return nil, nil, fmt.Errorf("%w: %q is not a metadata method", erc20.ErrUnknownMethod, method)
		}
		meta[contract] = record
	}
	return meta, diagnostics, nil
}

func stringValue(d erc20.Decoded) string {
	s, _ := d.Value.(string)
	return s
}

func decimalsValue(d erc20.Decoded) (uint8, bool) {
	switch v := d.Value.(type) {
	case uint8:
		return v, true
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 8)
		if err != nil {
			return 0, false
		}
		return uint8(n), true
	}
	return 0, false
}
