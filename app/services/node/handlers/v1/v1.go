// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/powchain/app/services/node/handlers/v1/chaingrp"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ardanlabs/powchain/foundation/node"
	"github.com/ardanlabs/powchain/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Node  *node.Node
	NS    *nameservice.NameService
	Evts  *events.Events
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	cgh := chaingrp.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Node:  cfg.Node,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/status", cgh.Status)
	app.Handle(http.MethodGet, version, "/events", cgh.Events)
	app.Handle(http.MethodGet, version, "/ledger", cgh.Ledger)
	app.Handle(http.MethodGet, version, "/blocks/last", cgh.LatestBlock)
	app.Handle(http.MethodGet, version, "/blocks/hash/:hash", cgh.BlockByHash)
	app.Handle(http.MethodGet, version, "/blocks/index/:index", cgh.BlockByIndex)
	app.Handle(http.MethodGet, version, "/blocks/range/:n", cgh.BlocksInRange)
	app.Handle(http.MethodGet, version, "/blocks/meta/:tag", cgh.BlocksByMeta)
	app.Handle(http.MethodGet, version, "/data/meta/:tag", cgh.DataByMeta)
	app.Handle(http.MethodPost, version, "/mine", cgh.Mine)
	app.Handle(http.MethodPost, version, "/verify", cgh.Verify)
}
