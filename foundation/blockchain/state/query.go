package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// QueryBlockByHash returns the block with the specified hash.
func (s *State) QueryBlockByHash(hash string) (database.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.BlockByHash(hash)
}

// QueryBlockByIndex returns the block at the specified position, where the
// genesis block is at position 0.
func (s *State) QueryBlockByIndex(index uint64) (database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.BlockByIndex(index)
}

// QueryBlocksInRange returns the last n blocks oldest first.
func (s *State) QueryBlocksInRange(n uint64) ([]database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.BlocksInRange(n)
}

// QueryBlocksByMeta returns the blocks tagged with the specified meta data
// in the order they were accepted.
func (s *State) QueryBlocksByMeta(tag string) ([]database.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.BlocksByMeta(tag)
}

// QueryDataByMeta returns the payloads of the blocks tagged with the
// specified meta data.
func (s *State) QueryDataByMeta(tag string) ([]string, error) {
	blocks, err := s.QueryBlocksByMeta(tag)
	if err != nil {
		return nil, err
	}

	data := make([]string, len(blocks))
	for i, block := range blocks {
		data[i] = block.Data()
	}

	return data, nil
}
