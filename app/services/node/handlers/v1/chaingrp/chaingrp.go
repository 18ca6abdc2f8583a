// Package chaingrp maintains the group of handlers for inspecting and
// mining the chain.
package chaingrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ardanlabs/powchain/foundation/node"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of chain endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	Node  *node.Node
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Status returns the settings and the current state of the chain.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := status{
		ChainID:       h.State.ID(),
		GenesisDate:   h.State.RetrieveGenesis().Date,
		Size:          h.State.LedgerSize(),
		Difficulty:    h.State.Difficulty(),
		DiffThreshold: h.State.DiffThreshold(),
		TryLimit:      h.State.TryLimit(),
		ReduxTimeMS:   h.State.ReduxTimeMS(),
		Unit:          h.State.Unit().String(),
		Work:          h.State.Work().Dec(),
		LatestBlock:   toBlock(h.NS, h.State.RetrieveLatestBlock()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// LatestBlock returns the last block of the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlock(h.NS, h.State.RetrieveLatestBlock()), http.StatusOK)
}

// BlockByHash returns the block with the specified hash.
func (h Handlers) BlockByHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash := web.Param(r, "hash")

	b, ok := h.State.QueryBlockByHash(hash)
	if !ok {
		return errs.NewTrusted(fmt.Errorf("hash %s: %w", hash, database.ErrNotContained), http.StatusNotFound)
	}

	return web.Respond(ctx, w, toBlock(h.NS, b), http.StatusOK)
}

// BlockByIndex returns the block at the specified position.
func (h Handlers) BlockByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := parseUint(r, "index")
	if err != nil {
		return err
	}

	b, err := h.State.QueryBlockByIndex(index)
	if err != nil {
		return errs.NewLedgerError(err)
	}

	return web.Respond(ctx, w, toBlock(h.NS, b), http.StatusOK)
}

// BlocksInRange returns the last n blocks oldest first.
func (h Handlers) BlocksInRange(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	n, err := parseUint(r, "n")
	if err != nil {
		return err
	}

	blocks, err := h.State.QueryBlocksInRange(n)
	if err != nil {
		return errs.NewLedgerError(err)
	}

	return web.Respond(ctx, w, toBlocks(h.NS, blocks), http.StatusOK)
}

// BlocksByMeta returns the blocks tagged with the specified meta data.
func (h Handlers) BlocksByMeta(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, err := h.State.QueryBlocksByMeta(web.Param(r, "tag"))
	if err != nil {
		return errs.NewLedgerError(err)
	}

	return web.Respond(ctx, w, toBlocks(h.NS, blocks), http.StatusOK)
}

// DataByMeta returns the payloads of the blocks tagged with the specified
// meta data.
func (h Handlers) DataByMeta(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data, err := h.State.QueryDataByMeta(web.Param(r, "tag"))
	if err != nil {
		return errs.NewLedgerError(err)
	}

	return web.Respond(ctx, w, data, http.StatusOK)
}

// Ledger returns the full ledger keyed by block hash.
func (h Handlers) Ledger(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ledger := h.State.RetrieveLedger()

	resp := make(map[string]block, len(ledger))
	for hash, b := range ledger {
		resp[hash] = toBlock(h.NS, b)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine mines a new block carrying the specified data under the address of
// this node.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req mineRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	h.Log.Infow("mine", "traceid", v.TraceID, "meta_data", req.MetaData, "serial", req.Serial)

	var b database.Block
	switch {
	case req.Serial:
		var ok bool
		if b, ok = h.State.Mine(ctx, req.Data, h.Node.Address(), req.MetaData); !ok {
			return errs.NewTrusted(errors.New("no nonce within the try limit solved the block"), http.StatusServiceUnavailable)
		}

	default:
		if b, err = h.Node.WriteData(ctx, h.State, req.Data, req.MetaData); err != nil {
			if errors.Is(err, node.ErrRetriesExhausted) {
				return errs.NewTrusted(err, http.StatusServiceUnavailable)
			}
			return err
		}
	}

	return web.Respond(ctx, w, toBlock(h.NS, b), http.StatusCreated)
}

// Verify checks the specified block belongs to this chain.
func (h Handlers) Verify(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req verifyRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	resp := verifyResponse{
		Hash:  req.Hash,
		Valid: h.State.VerifyBlock(database.ToBlock(req.BlockData)),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

func parseUint(r *http.Request, key string) (uint64, error) {
	value := web.Param(r, key)

	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errs.NewTrusted(fmt.Errorf("invalid %s %q: %w", key, value, err), http.StatusBadRequest)
	}

	return n, nil
}
