package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// ID returns the unique id of the chain.
func (s *State) ID() string {
	return s.id
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestBlock
}

// RetrieveLedger returns a copy of the ledger keyed by block hash.
func (s *State) RetrieveLedger() map[string]database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Map()
}

// RetrieveBlocks returns a copy of the blocks in the order they were accepted.
func (s *State) RetrieveBlocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Blocks()
}

// LedgerSize returns the number of blocks including the genesis block.
func (s *State) LedgerSize() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Size()
}
