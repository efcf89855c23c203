// Package erc20 encodes calls to, and decodes results from, the ERC-20 read
// surface: balanceOf, symbol, decimals and name.
package erc20

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/domain/model"
)

const (
	MethodBalanceOf = "balanceOf"
	MethodSymbol    = "symbol"
	MethodDecimals  = "decimals"
	MethodName      = "name"
)

// MetaMethods is the fixed per-contract order of metadata calls.
var MetaMethods = [...]string{MethodSymbol, MethodDecimals, MethodName}

const rawABI = `[
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

var ErrUnknownMethod = errors.New("erc20: unknown method")

var parsedABI = mustParse(rawABI)

func mustParse(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("erc20: invalid abi: %v", err))
	}
	return parsed
}

func ABI() abi.ABI {
	return parsedABI
}

func method(name string) (abi.Method, error) {
	m, ok := parsedABI.Methods[name]
	if !ok {
		return abi.Method{}, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m, nil
}

// OutputType is the declared ABI type of the method's single return value.
func OutputType(name string) (abi.Type, error) {
	m, err := method(name)
	if err != nil {
		return abi.Type{}, err
	}
	return m.Outputs[0].Type, nil
}

// Encode returns selector plus ABI-encoded args for the named method.
func Encode(name string, args ...interface{}) ([]byte, error) {
	if _, err := method(name); err != nil {
		return nil, err
	}
	data, err := parsedABI.Pack(name, args...)
	if err != nil {
		return nil, fmt.Errorf("erc20: encode %s: %w", name, err)
	}
	return data, nil
}

// NewCall builds a Call to target invoking the named method.
func NewCall(target common.Address, name string, args ...interface{}) (model.Call, error) {
	data, err := Encode(name, args...)
	if err != nil {
		return model.Call{}, err
	}
	return model.Call{Target: target, CallData: data}, nil
}

// NewEnvelope is NewCall with the matching CallContext attached.
func NewEnvelope(target common.Address, name string, args ...interface{}) (model.CallEnvelope, error) {
	call, err := NewCall(target, name, args...)
	if err != nil {
		return model.CallEnvelope{}, err
	}
	return model.CallEnvelope{
		Call:    call,
		Context: model.CallContext{Contract: target, Method: name},
	}, nil
}
