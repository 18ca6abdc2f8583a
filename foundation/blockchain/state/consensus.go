package state

import (
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/holiman/uint256"
)

// Work returns the cumulative proof of work of the chain. Every block
// contributes the expected number of hash attempts needed to solve its
// difficulty.
func (s *State) Work() *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Work(s.unit)
}

// FindConsensus compares the cumulative work of this chain with the other
// chain and adopts the other chain's ledger when it carries strictly more
// work. It returns true when the ledger was replaced. The diff threshold,
// try limit and redux time of this chain are kept.
//
// The other chain is copied under its own lock first so two chains running
// consensus against each other can't deadlock.
func (s *State) FindConsensus(other *State) bool {
	if other == nil || other == s {
		return false
	}

	if other.unit != s.unit {
		s.evHandler("state: FindConsensus: chain[%s]: IGNORED: unit[%s] differs from unit[%s]", other.id, other.unit, s.unit)
		return false
	}

	ledger, latest, lastAccepted := other.snapshot()
	foreign := ledger.Work(s.unit)

	s.mu.Lock()
	defer s.mu.Unlock()

	own := s.ledger.Work(s.unit)
	if !foreign.Gt(own) {
		s.evHandler("state: FindConsensus: chain[%s]: KEEP: work[%s] >= work[%s]", other.id, own.Dec(), foreign.Dec())
		return false
	}

	s.ledger = ledger
	s.latestBlock = latest
	s.lastAccepted = lastAccepted

	s.evHandler("state: FindConsensus: chain[%s]: ADOPTED: work[%s]: blk[%d]", other.id, foreign.Dec(), latest.ID())

	return true
}

// snapshot returns a private copy of the ledger with the timing state
// that goes with it.
func (s *State) snapshot() (*database.Ledger, database.Block, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Clone(), s.latestBlock, s.lastAccepted
}
