package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// ErrStaleBlock is returned when a mined block no longer extends the
// latest block because another block was accepted in the meantime.
var ErrStaleBlock = errors.New("chain moved on while mining")

// =============================================================================

// Mine attempts to create a new block by searching the nonces 0 through
// TryLimit-1 in order. The returned bool is false when no nonce solved the
// puzzle, the context was cancelled or another block took the slot. In
// that case the chain is not changed and the caller may try again.
func (s *State) Mine(ctx context.Context, data string, creatorAddr string, metaData string) (database.Block, bool) {
	s.evHandler("state: Mine: MINING: started")
	defer s.evHandler("state: Mine: MINING: completed")

	nb := s.newCandidate(data, creatorAddr, metaData)

	block, ok := database.POW(ctx, s.unit, nb, s.genesis.TryLimit, s.evHandler)
	if !ok {
		s.evHandler("state: Mine: MINING: no solution: blk[%d]", nb.ID())
		return database.Block{}, false
	}

	return s.accept(ctx, block)
}

// MineConcurrently attempts to create a new block by racing the specified
// number of workers over the shared TryLimit budget. The results are the
// same as for Mine. Every attempt for the same latest block searches the
// next TryLimit nonces, so a retry after a failed attempt covers new ground.
func (s *State) MineConcurrently(ctx context.Context, data string, creatorAddr string, metaData string, workers int) (database.Block, bool) {
	s.evHandler("state: MineConcurrently: MINING: started: workers[%d]", workers)
	defer s.evHandler("state: MineConcurrently: MINING: completed")

	nb, start := s.newConcurrentCandidate(data, creatorAddr, metaData)

	block, ok := database.ConcurrentPOW(ctx, s.unit, nb, start, s.genesis.TryLimit, workers, s.evHandler)
	if !ok {
		s.evHandler("state: MineConcurrently: MINING: no solution: blk[%d]", nb.ID())
		return database.Block{}, false
	}

	return s.accept(ctx, block)
}

// =============================================================================

// newCandidate constructs the block to be mined on top of the latest block
// with the current difficulty.
func (s *State) newCandidate(data string, creatorAddr string, metaData string) database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return database.NewNextBlock(s.latestBlock, data, creatorAddr, metaData, s.difficulty())
}

// newConcurrentCandidate constructs the block to be mined and reserves the
// window of nonces the attempt searches. The window moves forward for every
// attempt on the same latest block and starts over at 0 for a new one.
func (s *State) newConcurrentCandidate(data string, creatorAddr string, metaData string) (database.Block, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot := s.latestBlock.Hash(); s.nonceSlot != slot {
		s.nonceSlot = slot
		s.nonceNext = 0
	}

	start := s.nonceNext
	s.nonceNext += s.genesis.TryLimit

	return database.NewNextBlock(s.latestBlock, data, creatorAddr, metaData, s.difficulty()), start
}

// accept commits a solved block unless mining was cancelled.
func (s *State) accept(ctx context.Context, block database.Block) (database.Block, bool) {

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		s.evHandler("state: accept: MINING: CANCELLED: blk[%d]", block.ID())
		return database.Block{}, false
	}

	if err := s.commit(block); err != nil {
		s.evHandler("state: accept: MINING: WARNING: %s", err)
		return database.Block{}, false
	}

	return block, true
}

// commit appends the block to the ledger. This is the only place a mined
// block enters the ledger, so one slot can only be won once.
func (s *State) commit(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if block.ID() != s.latestBlock.ID()+1 || block.PrevHash() != s.latestBlock.Hash() {
		return fmt.Errorf("blk[%d] parent[%s], latest blk[%d][%s]: %w", block.ID(), block.PrevHash(), s.latestBlock.ID(), s.latestBlock.Hash(), ErrStaleBlock)
	}

	s.ledger.Append(block)
	s.latestBlock = block
	s.lastAccepted = s.now()

	s.evHandler("state: commit: blk[%d]: hash[%s]: difficulty[%d]", block.ID(), block.Hash(), block.Difficulty())

	return nil
}
