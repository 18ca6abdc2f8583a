package chaingrp

import (
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/nameservice"
)

type block struct {
	database.BlockData
	CreatorName string `json:"creator_name"`
}

func toBlock(ns *nameservice.NameService, b database.Block) block {
	return block{
		BlockData:   database.NewBlockData(b),
		CreatorName: ns.Lookup(b.CreatorAddr()),
	}
}

func toBlocks(ns *nameservice.NameService, blocks []database.Block) []block {
	out := make([]block, len(blocks))
	for i, b := range blocks {
		out[i] = toBlock(ns, b)
	}
	return out
}

type status struct {
	ChainID       string    `json:"chain_id"`
	GenesisDate   time.Time `json:"genesis_date"`
	Size          uint64    `json:"size"`
	Difficulty    uint      `json:"difficulty"`
	DiffThreshold uint64    `json:"diff_threshold"`
	TryLimit      uint64    `json:"try_limit"`
	ReduxTimeMS   int64     `json:"redux_time_ms"`
	Unit          string    `json:"unit"`
	Work          string    `json:"work"`
	LatestBlock   block     `json:"latest_block"`
}

type mineRequest struct {
	Data     string `json:"data" validate:"required"`
	MetaData string `json:"meta_data" validate:"max=256"`
	Serial   bool   `json:"serial"`
}

type verifyRequest struct {
	database.BlockData
	CreatorName string `json:"creator_name,omitempty"`
}

type verifyResponse struct {
	Hash  string `json:"hash"`
	Valid bool   `json:"valid"`
}
