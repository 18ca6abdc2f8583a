// Package mid contains the set of middleware functions.
package mid

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/ardanlabs/powchain/foundation/web"
)

// Headers and methods a browser client of the node may use.
var (
	corsMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	corsHeaders = "Origin, Accept, Content-Type, Content-Length, Accept-Encoding"
)

// Cors allows browsers served from the listed origins to call the node. A
// "*" entry allows every origin. Preflight requests are answered here with
// no content and never reach the route handler.
func Cors(origins ...string) web.Middleware {
	anyOrigin := slices.Contains(origins, "*")

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			origin := r.Header.Get("Origin")

			switch {
			case anyOrigin:
				w.Header().Set("Access-Control-Allow-Origin", "*")

			case origin != "" && slices.Contains(origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")

			default:
				return handler(ctx, w, r)
			}

			w.Header().Set("Access-Control-Allow-Methods", corsMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsHeaders)

			if r.Method == http.MethodOptions {
				return web.Respond(ctx, w, nil, http.StatusNoContent)
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
