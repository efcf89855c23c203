package balances

import "fmt"

// InvalidNameError is returned when a name resolves to no address.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return "Invalid ENS domain."
}

// UnsupportedNetworkError is returned when a name is given on a chain other
// than Ethereum mainnet. Network is the display name ("Matic").
type UnsupportedNetworkError struct {
	Network string
	ChainID int
}

func (e *UnsupportedNetworkError) Error() string {
	return fmt.Sprintf("%s does not support ENS. See https://github.com/ethers-io/ethers.js/issues/310", e.Network)
}
