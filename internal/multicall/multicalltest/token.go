package multicalltest

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/erc20"
)

// Token is a fake ERC-20. With Bytes32Meta set, symbol and name are
// returned as fixed bytes32 values the way legacy tokens do.
type Token struct {
	Symbol      string
	Name        string
	Decimals    uint8
	Balances    map[common.Address]*big.Int
	Bytes32Meta bool
	Reverts     bool
}

func (t *Token) Contract() Contract {
	a := erc20.ABI()
	return func(callData []byte) ([]byte, bool) {
		if t.Reverts || len(callData) < 4 {
			return nil, false
		}
		m, err := a.MethodById(callData[:4])
		if err != nil {
			return nil, false
		}
		switch m.Name {
		case erc20.MethodBalanceOf:
			args, err := m.Inputs.Unpack(callData[4:])
			if err != nil {
				return nil, false
			}
			holder := args[0].(common.Address)
			balance := t.Balances[holder]
			if balance == nil {
				balance = new(big.Int)
			}
			return packOrNil(m.Outputs, balance)
		case erc20.MethodDecimals:
			return packOrNil(m.Outputs, t.Decimals)
		case erc20.MethodSymbol:
			return t.metaString(m.Outputs, t.Symbol)
		case erc20.MethodName:
			return t.metaString(m.Outputs, t.Name)
		}
		return nil, false
	}
}

func (t *Token) metaString(outputs abi.Arguments, s string) ([]byte, bool) {
	if t.Bytes32Meta {
		return Bytes32(s), true
	}
	return packOrNil(outputs, s)
}

func packOrNil(outputs abi.Arguments, v interface{}) ([]byte, bool) {
	data, err := outputs.Pack(v)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Bytes32 right-pads s with NULs to a 32-byte word.
func Bytes32(s string) []byte {
	b := []byte(s)
	if len(b) > 32 {
		b = b[:32]
	}
	return append(b, bytes.Repeat([]byte{0}, 32-len(b))...)
}

// Word is v as a single left-padded 32-byte word.
func Word(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}
