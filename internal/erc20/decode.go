package erc20

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"
)

type DecodeKind int

const (
	// Typed means the data matched the method's declared output type.
	Typed DecodeKind = iota
	// Fallback means the data was read as a NUL-padded bytes32 string.
	Fallback
)

func (k DecodeKind) String() string {
	switch k {
	case Typed:
		return "typed"
	case Fallback:
		return "fallback"
	}
	return fmt.Sprintf("DecodeKind(%d)", int(k))
}

// Decoded holds a string for symbol/name and for every fallback, a uint8
// for a typed decimals and a *big.Int for a typed balanceOf. Cause is the
// typed-decode error that selected the fallback.
type Decoded struct {
	Kind  DecodeKind
	Value interface{}
	Cause error
}

// Decode never fails on malformed data; it only errors on an unknown method.
func Decode(name string, data []byte) (Decoded, error) {
	m, err := method(name)
	if err != nil {
		return Decoded{}, err
	}

	values, err := m.Outputs.Unpack(data)
	if err == nil && len(values) == 1 {
		return Decoded{Kind: Typed, Value: values[0]}, nil
	}
	if err == nil {
		err = fmt.Errorf("erc20: %s returned %d values", name, len(values))
	}
	return Decoded{Kind: Fallback, Value: ParseBytes32String(data), Cause: err}, nil
}

// ParseBytes32String reads a fixed-width string: the first 32 bytes, cut at
// the first NUL.
func ParseBytes32String(data []byte) string {
	if len(data) > 32 {
		data = data[:32]
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return strings.ToValidUTF8(string(data), "")
}

// DecodeUint256 reads a single uint256 word, as returned by balanceOf.
func DecodeUint256(data []byte) (*big.Int, error) {
	d, err := Decode(MethodBalanceOf, data)
	if err != nil {
		return nil, err
	}
	if d.Kind != Typed {
		return nil, fmt.Errorf("erc20: decode uint256: %w", d.Cause)
	}
	n, ok := d.Value.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("erc20: decode uint256: unexpected %T", d.Value)
	}
	return n, nil
}
