package balances

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ohmynofan/token-balances/internal/domain/model"
)

func TestBalancesByContract(t *testing.T) {
	meta := model.MetaByContract{
		uni: {Symbol: "UNI", Decimals: 18, Name: "Uniswap"},
		zrx: {Symbol: "ZRX", Decimals: 18, Name: "0x Protocol Token"},
	}
	raw := map[common.Address][]byte{
		uni: hexutil.MustDecode(uniRaw),
		zrx: hexutil.MustDecode(zrxRaw),
	}
	got, err := BalancesByContract(meta, raw)
	if err != nil {
		t.Fatalf("BalancesByContract: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	if b := got[uni]; b.BalanceOf != "13.045494475375385129" || b.TokenMeta != meta[uni] {
		t.Fatalf("uni=%+v", b)
	}
	if b := got[zrx]; b.BalanceOf != "46.025870567432141467" || b.Symbol != "ZRX" {
		t.Fatalf("zrx=%+v", b)
	}
	if raw := got[uni].Raw; raw == nil || raw.String() != "13045494475375385129" {
		t.Fatalf("raw=%v", raw)
	}
}

func TestBalancesByContract_SixDecimals(t *testing.T) {
	usdc := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	got, err := BalancesByContract(
		model.MetaByContract{usdc: {Symbol: "USDC", Decimals: 6, Name: "USD Coin"}},
		map[common.Address][]byte{usdc: common.LeftPadBytes([]byte{0xbc, 0x61, 0x4e}, 32)},
	)
	if err != nil {
		t.Fatalf("BalancesByContract: %v", err)
	}
	if got[usdc].BalanceOf != "12.345678" {
		t.Fatalf("balanceOf=%s", got[usdc].BalanceOf)
	}
}

func TestBalancesByContract_MissingRaw(t *testing.T) {
	_, err := BalancesByContract(model.MetaByContract{uni: {Symbol: "UNI", Decimals: 18}}, map[common.Address][]byte{})
	if err == nil {
		t.Fatal("expected error for contract without raw balance")
	}
}
