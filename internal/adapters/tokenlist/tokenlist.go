// Package tokenlist loads Uniswap-style token lists from a URL or a file.
package tokenlist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	apihttp "github.com/ohmynofan/token-balances/internal/adapters/http"
)

type Token struct {
	ChainID  int    `json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
}

type List struct {
	Name   string  `json:"name"`
	Tokens []Token `json:"tokens"`
}

type Loader struct {
	client *apihttp.APIClient
}

func NewLoader(client *apihttp.APIClient) *Loader {
	return &Loader{client: client}
}

// Load reads source as an http(s) URL when it has that scheme and as a file
// path otherwise.
func (l *Loader) Load(ctx context.Context, source string) (*List, error) {
	scope := "[TokenList Load] Error :"
	var list List
	if isURL(source) {
		if l.client == nil {
			return nil, fmt.Errorf("%s no http client for %s", scope, source)
		}
		if err := l.client.FetchJSON(ctx, source, nil, &list); err != nil {
			return nil, fmt.Errorf("%s %w", scope, err)
		}
		return &list, nil
	}

	b, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%s %w", scope, err)
	}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("%s invalid token list %s: %w", scope, source, err)
	}
	return &list, nil
}

// Addresses returns the checksummed, de-duplicated addresses of tokens on
// chainID in list order. A chainID of 0 keeps every token. Entries that are
// not addresses are skipped.
func (l *List) Addresses(chainID int) []common.Address {
	seen := make(map[common.Address]bool, len(l.Tokens))
	out := make([]common.Address, 0, len(l.Tokens))
	for _, t := range l.Tokens {
		if chainID != 0 && t.ChainID != chainID {
			continue
		}
		if !common.IsHexAddress(t.Address) {
			continue
		}
		addr := common.HexToAddress(t.Address)
		if seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

func isURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
