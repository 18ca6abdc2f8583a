package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/nameservice"
)

// Set of error variables for writing data.
var (
	ErrEmptyData        = errors.New("data can't be empty")
	ErrRetriesExhausted = errors.New("retries exhausted without mining a block")
)

// DefaultRetries is the number of extra attempts made by WriteData.
const DefaultRetries = 10

// =============================================================================

// Chain represents the behavior a node needs from a chain.
type Chain interface {
	MineConcurrently(ctx context.Context, data string, creatorAddr string, metaData string, workers int) (database.Block, bool)
	QueryBlocksInRange(n uint64) ([]database.Block, error)
}

// Node represents a named participant that writes data to chains.
type Node struct {
	name    string
	address string
	retries int
	workers int
}

// New constructs a node for the specified name.
func New(name string, workers int) *Node {
	return &Node{
		name:    name,
		address: nameservice.Address(name),
		retries: DefaultRetries,
		workers: max(workers, 1),
	}
}

// Name returns the name of the node.
func (n *Node) Name() string {
	return n.name
}

// Address returns the address blocks are mined under.
func (n *Node) Address() string {
	return n.address
}

// SetRetries changes the number of extra attempts made by WriteData.
func (n *Node) SetRetries(retries int) {
	n.retries = max(retries, 0)
}

// WriteData mines a block carrying the data on the chain. An attempt that
// doesn't solve the puzzle is retried until the retries are used up.
func (n *Node) WriteData(ctx context.Context, chain Chain, data string, metaData string) (database.Block, error) {
	if data == "" {
		return database.Block{}, ErrEmptyData
	}

	for attempt := 0; attempt <= n.retries; attempt++ {
		if block, ok := chain.MineConcurrently(ctx, data, n.address, metaData, n.workers); ok {
			return block, nil
		}

		if err := ctx.Err(); err != nil {
			return database.Block{}, err
		}
	}

	return database.Block{}, fmt.Errorf("attempts %d: %w", n.retries+1, ErrRetriesExhausted)
}

// ReadDataByRange returns the payloads of the last n blocks. Unlike a walk
// back from the latest block, the payloads come back oldest first so they
// read in the order they were written.
func (n *Node) ReadDataByRange(chain Chain, size uint64) ([]string, error) {
	blocks, err := chain.QueryBlocksInRange(size)
	if err != nil {
		return nil, err
	}

	data := make([]string, len(blocks))
	for i, block := range blocks {
		data[i] = block.Data()
	}

	return data, nil
}
