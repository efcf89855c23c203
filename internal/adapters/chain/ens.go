package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/ohmynofan/token-balances/internal/multicall"
)

// ENSRegistryAddress is the ENS registry on Ethereum mainnet.
var ENSRegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0bFb2997BA6C7d2e1e")

const ensABI = `[
	{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"resolver","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"addr","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

var parsedENS abi.ABI

func init() {
	var err error
	parsedENS, err = abi.JSON(strings.NewReader(ensABI))
	if err != nil {
		panic(fmt.Sprintf("chain: invalid ens abi: %v", err))
	}
}

// Namehash computes the EIP-137 node of name. Labels are lower-cased; no
// other normalisation is applied.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(strings.ToLower(name), ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := crypto.Keccak256([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), label)
	}
	return node
}

type ENS struct {
	caller   multicall.ContractCaller
	registry common.Address
}

func NewENS(caller multicall.ContractCaller, registry common.Address) *ENS {
	return &ENS{caller: caller, registry: registry}
}

// Resolve returns the address name points at, or the zero address when the
// name has no resolver, no address record or a resolver that reverts.
func (e *ENS) Resolve(ctx context.Context, name string) (common.Address, error) {
	scope := "[ENS Resolve] Error :"
	node := Namehash(name)

	resolver, err := e.lookup(ctx, e.registry, "resolver", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s registry lookup for %s: %w", scope, name, err)
	}
	if resolver == (common.Address{}) {
		return common.Address{}, nil
	}

	addr, err := e.lookup(ctx, resolver, "addr", node)
	if isRevert(err) {
		return common.Address{}, nil
	}
	if err != nil {
		return common.Address{}, fmt.Errorf("%s resolver %s lookup for %s: %w", scope, resolver.Hex(), name, err)
	}
	return addr, nil
}

func (e *ENS) lookup(ctx context.Context, target common.Address, method string, node common.Hash) (common.Address, error) {
	input, err := parsedENS.Pack(method, [32]byte(node))
	if err != nil {
		return common.Address{}, err
	}
	raw, err := e.caller.CallContract(ctx, ethereum.CallMsg{To: &target, Data: input}, nil)
	if err != nil {
		return common.Address{}, err
	}
	if len(raw) == 0 {
		return common.Address{}, nil
	}
	values, err := parsedENS.Unpack(method, raw)
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected %s output %T", method, values[0])
	}
	return addr, nil
}

// revertErrorCode is the JSON-RPC error code nodes use for execution reverted.
const revertErrorCode = 3

func isRevert(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == revertErrorCode {
		return true
	}
	return strings.Contains(err.Error(), "execution reverted")
}
