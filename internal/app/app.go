package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ohmynofan/token-balances/internal/adapters/chain"
	apihttp "github.com/ohmynofan/token-balances/internal/adapters/http"
	"github.com/ohmynofan/token-balances/internal/adapters/tokenlist"
	"github.com/ohmynofan/token-balances/internal/balances"
	"github.com/ohmynofan/token-balances/internal/config"
	"github.com/ohmynofan/token-balances/internal/platform/logger"
	"github.com/ohmynofan/token-balances/internal/platform/ui"
	"github.com/ohmynofan/token-balances/internal/storage/snapshot"
)

type App struct {
	cfg config.Config
	out io.Writer
	log *logger.ClassLogger
	now func() time.Time
}

func New(cfg config.Config) *App {
	app := &App{cfg: cfg, out: os.Stdout, now: time.Now}
	app.log = logger.NewLogger(app)
	return app
}

func (app *App) Run(ctx context.Context) error {
	client, err := chain.New(app.cfg.RPCURL)
	if err != nil {
		return err
	}
	defer client.Close()
	return app.run(ctx, client)
}

func (app *App) run(ctx context.Context, provider balances.Provider) error {
	network, err := provider.Network(ctx)
	if err != nil {
		return err
	}

	contracts, err := app.contracts(ctx, network)
	if err != nil {
		return err
	}

	service := balances.NewService(provider, balances.WithMulticall(common.HexToAddress(app.cfg.MulticallAddress)))
	spinner := ui.StartSpinner(app.out, fmt.Sprintf("Fetching %d token balances of %s on %s...", len(contracts), app.cfg.Holder, network.DisplayName()))
	report, err := service.GetTokenBalances(ctx, balances.Request{
		AddressOrName:     app.cfg.Holder,
		ContractAddresses: contracts,
		ChunkSize:         app.cfg.ChunkSize,
	})
	if err != nil {
		if spinner != nil {
			spinner.Fail(err.Error())
		}
		return err
	}
	if spinner != nil {
		spinner.Success(fmt.Sprintf("Found %d non-zero balances", len(report.Balances)))
	}
	app.log.LogObject("Balance report", report)

	previous, err := app.recordSnapshot(ctx, network, report)
	if err != nil {
		// history is best effort
		app.log.Warn(fmt.Sprintf("Snapshot failed: %v", err))
	}

	warnings := make([]string, 0, len(report.Diagnostics))
	for _, d := range report.Diagnostics {
		warnings = append(warnings, d.Message)
	}
	ui.RenderWarnings(app.out, warnings)
	return ui.RenderBalances(app.out, report.Holder, network.DisplayName(), report.Balances, previous)
}

// contracts merges CONTRACTS with the token list entries for network,
// de-duplicated in that order.
func (app *App) contracts(ctx context.Context, network config.Network) ([]common.Address, error) {
	out := app.cfg.ContractAddresses()
	if app.cfg.TokenListSource == "" {
		return out, nil
	}

	client, err := apihttp.NewAPIClient("")
	if err != nil {
		return nil, err
	}
	list, err := tokenlist.NewLoader(client).Load(ctx, app.cfg.TokenListSource)
	if err != nil {
		return nil, err
	}
	listed := list.Addresses(network.ChainID)
	app.log.Log(fmt.Sprintf("Loaded %d tokens for chain %d from %s", len(listed), network.ChainID, list.Name))

	seen := make(map[common.Address]bool, len(out)+len(listed))
	merged := make([]common.Address, 0, len(out)+len(listed))
	for _, addr := range append(out, listed...) {
		if seen[addr] {
			continue
		}
		seen[addr] = true
		merged = append(merged, addr)
	}
	return merged, nil
}

// recordSnapshot stores report and returns the balances of the run before it.
func (app *App) recordSnapshot(ctx context.Context, network config.Network, report *balances.Report) (map[common.Address]string, error) {
	if !app.cfg.SnapshotEnabled() {
		return nil, nil
	}
	store, err := snapshot.NewStore(app.cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	last, err := store.Latest(ctx, report.Holder, network.ChainID)
	if err != nil {
		return nil, err
	}

	var blockNumber uint64
	if report.BlockNumber != nil {
		blockNumber = report.BlockNumber.Uint64()
	}
	snap := snapshot.FromBalances(report.Holder, network.ChainID, blockNumber, app.now(), report.Balances)
	if _, err := store.Save(ctx, snap); err != nil {
		return nil, err
	}

	if last == nil {
		return nil, nil
	}
	previous := make(map[common.Address]string, len(last.Entries))
	for contract, entry := range last.ByContract() {
		previous[contract] = entry.BalanceOf
	}
	return previous, nil
}
