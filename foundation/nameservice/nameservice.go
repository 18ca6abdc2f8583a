// Package nameservice derives chain addresses from node names and provides
// a lookup of the names for known addresses.
package nameservice

import (
	"maps"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Address derives the address for the specified name. The name is hashed
// with Keccak-256 and the last 20 bytes are returned as checksummed hex.
func Address(name string) string {
	hash := crypto.Keccak256([]byte(name))
	return common.BytesToAddress(hash[12:]).Hex()
}

// =============================================================================

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	accounts map[string]string
}

// New constructs a name service for the specified names.
func New(names ...string) *NameService {
	ns := NameService{
		accounts: make(map[string]string, len(names)),
	}

	for _, name := range names {
		ns.accounts[Address(name)] = name
	}

	return &ns
}

// Lookup returns the name for the specified address.
func (ns *NameService) Lookup(address string) string {
	name, exists := ns.accounts[address]
	if !exists {
		return address
	}
	return name
}

// Copy returns a copy of the map of addresses and names.
func (ns *NameService) Copy() map[string]string {
	return maps.Clone(ns.accounts)
}
