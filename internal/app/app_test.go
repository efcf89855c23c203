package app

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pterm/pterm"

	"github.com/ohmynofan/token-balances/internal/adapters/chain"
	"github.com/ohmynofan/token-balances/internal/config"
	"github.com/ohmynofan/token-balances/internal/multicall/multicalltest"
)

var (
	holder = common.HexToAddress("0x8a6BFCae15E729fd1440574108437dEa281A9B3e")
	uni    = common.HexToAddress("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984")
	zrx    = common.HexToAddress("0xE41d2489571d322189246DaFA5ebDe1F4699F498")
	rpl    = common.HexToAddress("0xD33526068D116cE69F19A9ee46F0bd304F21A51f")
)

type fakeBackend struct {
	*multicalltest.Chain
	chainID int64
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(f.chainID), nil
}

func newTestApp(t *testing.T, cfg config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	var out bytes.Buffer
	app := New(cfg)
	app.out = &out
	app.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return app, &out
}

func newBackend(balance int64) *fakeBackend {
	b := &fakeBackend{Chain: multicalltest.NewChain(), chainID: 1}
	b.Register(uni, (&multicalltest.Token{
		Symbol:   "UNI",
		Name:     "Uniswap",
		Decimals: 18,
		Balances: map[common.Address]*big.Int{holder: big.NewInt(balance)},
	}).Contract())
	b.Register(rpl, (&multicalltest.Token{Reverts: true}).Contract())
	return b
}

func TestRun_RendersAndRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "tokens.json")
	err := os.WriteFile(list, []byte(`{"name":"test","tokens":[
		{"chainId":1,"address":"0xd33526068d116ce69f19a9ee46f0bd304f21a51f","symbol":"RPL","name":"Rocket Pool","decimals":18},
		{"chainId":137,"address":"0xe41d2489571d322189246dafa5ebde1f4699f498","symbol":"ZRX","name":"0x","decimals":18}
	]}`), 0o644)
	if err != nil {
		t.Fatalf("write list: %v", err)
	}

	cfg := config.Config{
		Holder:           holder.Hex(),
		Contracts:        []string{uni.Hex()},
		TokenListSource:  list,
		ChunkSize:        1,
		MulticallAddress: config.DefaultMulticallAddress,
		SnapshotPath:     filepath.Join(dir, "balances.db"),
	}

	app, out := newTestApp(t, cfg)
	backend := newBackend(1_500_000_000_000_000_000)
	if err := app.run(context.Background(), chain.NewWithBackend(backend)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "1.5") || !strings.Contains(out.String(), "UNI") {
		t.Fatalf("output:\n%s", out.String())
	}

	// uni and rpl from the list, zrx is on another chain
	first := backend.Batches()[0]
	if len(first) != 1 {
		t.Fatalf("chunk size not applied: %d calls", len(first))
	}
	targets := map[common.Address]bool{}
	for _, batch := range backend.Batches() {
		for _, call := range batch {
			targets[call.Target] = true
		}
	}
	if !targets[uni] || !targets[rpl] || targets[zrx] {
		t.Fatalf("targets=%v", targets)
	}

	app, out = newTestApp(t, cfg)
	if err := app.run(context.Background(), chain.NewWithBackend(newBackend(2_000_000_000_000_000_000))); err != nil {
		t.Fatalf("second run: %v", err)
	}
	rendered := out.String()
	if !strings.Contains(rendered, "2") || !strings.Contains(rendered, "1.5") {
		t.Fatalf("previous balance missing:\n%s", rendered)
	}
}

func TestRun_SnapshotDisabled(t *testing.T) {
	cfg := config.Config{
		Holder:           holder.Hex(),
		Contracts:        []string{uni.Hex()},
		ChunkSize:        500,
		MulticallAddress: config.DefaultMulticallAddress,
		SnapshotPath:     config.SnapshotDisabled,
	}
	app, out := newTestApp(t, cfg)
	if err := app.run(context.Background(), chain.NewWithBackend(newBackend(7))); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "0.000000000000000007") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestRun_NameOnUnsupportedNetwork(t *testing.T) {
	cfg := config.Config{
		Holder:           "vitalik.eth",
		Contracts:        []string{uni.Hex()},
		ChunkSize:        500,
		MulticallAddress: config.DefaultMulticallAddress,
		SnapshotPath:     config.SnapshotDisabled,
	}
	backend := newBackend(7)
	backend.chainID = 137
	app, _ := newTestApp(t, cfg)
	err := app.run(context.Background(), chain.NewWithBackend(backend))
	if err == nil || !strings.Contains(err.Error(), "Matic does not support ENS") {
		t.Fatalf("err=%v", err)
	}
}
