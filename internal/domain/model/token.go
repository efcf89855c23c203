package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type TokenMeta struct {
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	Name     string `json:"name"`
}

type TokenBalance struct {
	TokenMeta
	Raw       *big.Int `json:"-"`
	BalanceOf string  `json:"balanceOf"`
}

type MetaByContract map[common.Address]TokenMeta

type BalancesByContract map[common.Address]TokenBalance
