package ui

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pterm/pterm"

	"github.com/ohmynofan/token-balances/internal/domain/model"
	"github.com/ohmynofan/token-balances/pkg/utils"
)

var header = []string{"Symbol", "Name", "Contract", "Balance", "Previous"}

// StartSpinner starts a spinner on w. Callers finish it with Success or
// Fail.
func StartSpinner(w io.Writer, text string) *pterm.SpinnerPrinter {
	spinner, _ := pterm.DefaultSpinner.
		WithWriter(w).
		WithRemoveWhenDone(false).
		Start(text)
	return spinner
}

// BalanceRows renders balances ordered by symbol, then contract. previous
// holds the last recorded balance per contract; missing entries show "-".
func BalanceRows(balances model.BalancesByContract, previous map[common.Address]string) [][]string {
	contracts := make([]common.Address, 0, len(balances))
	for contract := range balances {
		contracts = append(contracts, contract)
	}
	sort.Slice(contracts, func(i, j int) bool {
		a, b := balances[contracts[i]], balances[contracts[j]]
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		return bytes.Compare(contracts[i].Bytes(), contracts[j].Bytes()) < 0
	})

	rows := make([][]string, 0, len(contracts)+1)
	rows = append(rows, header)
	for _, contract := range contracts {
		b := balances[contract]
		rows = append(rows, []string{
			defaultString(b.Symbol, "?"),
			defaultString(b.Name, "?"),
			utils.ShortenAddress(contract.Hex()),
			b.BalanceOf,
			defaultString(previous[contract], "-"),
		})
	}
	return rows
}

// RenderBalances writes the balance table for holder to w.
func RenderBalances(w io.Writer, holder common.Address, network string, balances model.BalancesByContract, previous map[common.Address]string) error {
	pterm.DefaultSection.WithWriter(w).Println(fmt.Sprintf("Balances of %s on %s", holder.Hex(), network))
	if len(balances) == 0 {
		pterm.Info.WithWriter(w).Println("No non-zero balances found")
		return nil
	}
	return pterm.DefaultTable.
		WithHasHeader().
		WithWriter(w).
		WithData(BalanceRows(balances, previous)).
		Render()
}

// RenderWarnings prints one warning line per message.
func RenderWarnings(w io.Writer, messages []string) {
	for _, msg := range messages {
		pterm.Warning.WithWriter(w).Println(msg)
	}
}

func defaultString(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
