package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pterm/pterm"

	"github.com/ohmynofan/token-balances/internal/domain/model"
)

var (
	uni  = common.HexToAddress("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984")
	zrx  = common.HexToAddress("0xE41d2489571d322189246DaFA5ebDe1F4699F498")
	weth = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

func sample() model.BalancesByContract {
	return model.BalancesByContract{
		zrx:  {TokenMeta: model.TokenMeta{Symbol: "ZRX", Name: "0x Protocol Token", Decimals: 18}, BalanceOf: "46.025870567432141467"},
		uni:  {TokenMeta: model.TokenMeta{Symbol: "UNI", Name: "Uniswap", Decimals: 18}, BalanceOf: "13.045494475375385129"},
		weth: {TokenMeta: model.TokenMeta{Name: "Wrapped Ether", Decimals: 18}, BalanceOf: "0.000000000000000018"},
	}
}

func TestBalanceRows(t *testing.T) {
	rows := BalanceRows(sample(), map[common.Address]string{uni: "12"})
	if len(rows) != 4 {
		t.Fatalf("rows=%d", len(rows))
	}
	if strings.Join(rows[0], ",") != "Symbol,Name,Contract,Balance,Previous" {
		t.Fatalf("header=%v", rows[0])
	}
	// empty symbol sorts first
	if rows[1][0] != "?" || rows[1][3] != "0.000000000000000018" {
		t.Fatalf("row1=%v", rows[1])
	}
	if rows[2][0] != "UNI" || rows[2][2] != "0x1f98...F984" || rows[2][4] != "12" {
		t.Fatalf("row2=%v", rows[2])
	}
	if rows[3][0] != "ZRX" || rows[3][4] != "-" {
		t.Fatalf("row3=%v", rows[3])
	}
}

func TestRenderBalances(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	holder := common.HexToAddress("0x8a6BFCae15E729fd1440574108437dEa281A9B3e")
	if err := RenderBalances(&buf, holder, "Homestead", sample(), nil); err != nil {
		t.Fatalf("RenderBalances: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"UNI", "Uniswap", "46.025870567432141467", "0x1f98...F984"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderBalances(&buf, holder, "Homestead", model.BalancesByContract{}, nil); err != nil {
		t.Fatalf("RenderBalances: %v", err)
	}
	if !strings.Contains(buf.String(), "No non-zero balances found") {
		t.Fatalf("output=%s", buf.String())
	}
}
