package domain

import "strings"

// Address is an opaque account identifier on the host chain.
// Format checks are left to the signer and the full node.
type Address string

// IsZero reports whether the address is absent.
func (a Address) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

// String returns the address as entered.
func (a Address) String() string {
	return string(a)
}

// Short returns the 0x1234...abcd form used in listings.
func (a Address) Short() string {
	s := string(a)
	if len(s) <= 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

// Network identifies the chain the gateway talks to.
type Network string

const (
	NetworkTestnet Network = "testnet"
	NetworkMainnet Network = "mainnet"
)

// Valid reports whether n is a supported network.
func (n Network) Valid() bool {
	return n == NetworkTestnet || n == NetworkMainnet
}
