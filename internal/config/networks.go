package config

import "strings"

// ENSChainID is the only chain whose names this tool resolves.
const ENSChainID = 1

type Network struct {
	Name     string
	ChainID  int
	Explorer string
	Symbol   string
	Decimals int
}

// DisplayName is Name with its first letter upper-cased ("matic" -> "Matic").
func (n Network) DisplayName() string {
	if n.Name == "" {
		return ""
	}
	return strings.ToUpper(n.Name[:1]) + n.Name[1:]
}

var Mainnet = Network{
	Name:     "homestead",
	ChainID:  1,
	Explorer: "https://etherscan.io/",
	Symbol:   "ETH",
	Decimals: 18,
}

var Polygon = Network{
	Name:     "matic",
	ChainID:  137,
	Explorer: "https://polygonscan.com/",
	Symbol:   "MATIC",
	Decimals: 18,
}

var Networks = []Network{
	Mainnet,
	{Name: "optimism", ChainID: 10, Explorer: "https://optimistic.etherscan.io/", Symbol: "ETH", Decimals: 18},
	{Name: "bnb", ChainID: 56, Explorer: "https://bscscan.com/", Symbol: "BNB", Decimals: 18},
	{Name: "xdai", ChainID: 100, Explorer: "https://gnosisscan.io/", Symbol: "xDAI", Decimals: 18},
	Polygon,
	{Name: "base", ChainID: 8453, Explorer: "https://basescan.org/", Symbol: "ETH", Decimals: 18},
	{Name: "arbitrum", ChainID: 42161, Explorer: "https://arbiscan.io/", Symbol: "ETH", Decimals: 18},
	{Name: "avalanche", ChainID: 43114, Explorer: "https://snowtrace.io/", Symbol: "AVAX", Decimals: 18},
	{Name: "sepolia", ChainID: 11155111, Explorer: "https://sepolia.etherscan.io/", Symbol: "ETH", Decimals: 18},
}

// NetworkByChainID falls back to a network named "unknown" for chains not
// listed in Networks.
func NetworkByChainID(chainID int) Network {
	for _, n := range Networks {
		if n.ChainID == chainID {
			return n
		}
	}
	return Network{Name: "unknown", ChainID: chainID, Symbol: "ETH", Decimals: 18}
}
