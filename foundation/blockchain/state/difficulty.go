package state

import (
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Difficulty returns the proof of work target the next block is mined with.
//
// The target starts at 1 and is raised by one for every DiffThreshold blocks
// accepted since genesis. It is then lowered by one for every full redux
// time interval that passed without a new block, but never below 1.
func (s *State) Difficulty() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.difficulty()
}

// difficulty calculates the target. The caller must hold the lock.
func (s *State) difficulty() uint {
	base := 1 + (s.ledger.Size()-1)/s.genesis.DiffThreshold

	if s.reduxTime > 0 {
		if elapsed := s.now().Sub(s.lastAccepted); elapsed > 0 {
			steps := uint64(elapsed / s.reduxTime)
			base -= min(steps, base-1)
		}
	}

	return uint(min(base, uint64(s.unit.MaxDifficulty())))
}

// DiffThreshold returns the number of blocks after which the difficulty
// is raised.
func (s *State) DiffThreshold() uint64 {
	return s.genesis.DiffThreshold
}

// TryLimit returns the number of nonces tried when mining one block.
func (s *State) TryLimit() uint64 {
	return s.genesis.TryLimit
}

// ReduxTime returns the stall interval after which the difficulty
// is relaxed.
func (s *State) ReduxTime() time.Duration {
	return s.reduxTime
}

// ReduxTimeMS returns the redux time in milliseconds.
func (s *State) ReduxTimeMS() int64 {
	return s.reduxTime.Milliseconds()
}

// Unit returns what one unit of difficulty counts.
func (s *State) Unit() database.Unit {
	return s.unit
}
