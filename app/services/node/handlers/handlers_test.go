package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/app/services/node/handlers"
	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ardanlabs/powchain/foundation/node"
	"go.uber.org/zap/zaptest"
)

// genesisDate is the date the test chains are created with.
var genesisDate = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type blockResponse struct {
	database.BlockData
	CreatorName string `json:"creator_name"`
}

func newMux(t *testing.T) (http.Handler, *state.State) {
	log := zaptest.NewLogger(t).Sugar()

	n := node.New("miner1", 4)

	g := genesis.Default()
	g.Data = "Fiat Lux!"
	g.CreatorAddr = n.Address()
	g.Date = genesisDate

	st, err := state.New(state.Config{Genesis: g})
	if err != nil {
		t.Fatalf("unable to construct the chain: %v", err)
	}

	mux := handlers.APIMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		State:    st,
		Node:     n,
		NS:       nameservice.New("miner1"),
		Evts:     events.New(),
		Origins:  []string{"*"},
	})

	return mux, st
}

func call(mux http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	return w
}

func Test_Mine(t *testing.T) {
	t.Log("Given the need to mine blocks through the API.")
	{
		mux, st := newMux(t)

		tt := []struct {
			name string
			body string
		}{
			{"concurrent", `{"data": "0", "meta_data": "Meta 0"}`},
			{"serial", `{"data": "1", "meta_data": "Meta 1", "serial": true}`},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen mining a %s block.", testID, tst.name)
			{
				w := call(mux, http.MethodPost, "/v1/mine", tst.body)
				if w.Code != http.StatusCreated {
					t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 201: %d %s", failed, testID, w.Code, w.Body)
				}
				t.Logf("\t%s\tTest %d:\tShould receive a status code of 201.", success, testID)

				var got blockResponse
				if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response: %v", failed, testID, err)
				}

				if got.ID != uint64(testID+1) || got.CreatorName != "miner1" {
					t.Fatalf("\t%s\tTest %d:\tShould get the new block mined by the node: %+v", failed, testID, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get the new block mined by the node.", success, testID)
			}
		}

		t.Logf("\tTest 2:\tWhen mining without data.")
		{
			w := call(mux, http.MethodPost, "/v1/mine", `{"meta_data": "Meta 2"}`)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 2:\tShould receive a status code of 400: %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 2:\tShould receive a status code of 400.", success)

			var resp errs.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to unmarshal the response: %v", failed, err)
			}

			if _, exists := resp.Fields["data"]; !exists {
				t.Fatalf("\t%s\tTest 2:\tShould get a field error for data: %+v", failed, resp)
			}
			t.Logf("\t%s\tTest 2:\tShould get a field error for data.", success)

			if st.LedgerSize() != 3 {
				t.Fatalf("\t%s\tTest 2:\tShould leave the chain unchanged: %d", failed, st.LedgerSize())
			}
			t.Logf("\t%s\tTest 2:\tShould leave the chain unchanged.", success)
		}
	}
}

func Test_Queries(t *testing.T) {
	t.Log("Given the need to query the chain through the API.")
	{
		mux, st := newMux(t)

		for _, body := range []string{`{"data": "0", "meta_data": "Meta 0"}`, `{"data": "1", "meta_data": "Meta 1"}`} {
			if w := call(mux, http.MethodPost, "/v1/mine", body); w.Code != http.StatusCreated {
				t.Fatalf("unable to mine: %d %s", w.Code, w.Body)
			}
		}

		last := st.RetrieveLatestBlock()

		tt := []struct {
			name   string
			method string
			path   string
			status int
		}{
			{"status", http.MethodGet, "/v1/status", http.StatusOK},
			{"last", http.MethodGet, "/v1/blocks/last", http.StatusOK},
			{"ledger", http.MethodGet, "/v1/ledger", http.StatusOK},
			{"hash", http.MethodGet, "/v1/blocks/hash/" + last.Hash(), http.StatusOK},
			{"hash-unknown", http.MethodGet, "/v1/blocks/hash/0x00", http.StatusNotFound},
			{"index", http.MethodGet, "/v1/blocks/index/1", http.StatusOK},
			{"index-past-end", http.MethodGet, "/v1/blocks/index/22", http.StatusNotFound},
			{"index-bad", http.MethodGet, "/v1/blocks/index/abc", http.StatusBadRequest},
			{"range", http.MethodGet, "/v1/blocks/range/3", http.StatusOK},
			{"range-past-end", http.MethodGet, "/v1/blocks/range/4", http.StatusBadRequest},
			{"meta", http.MethodGet, "/v1/blocks/meta/Meta%201", http.StatusOK},
			{"meta-unknown", http.MethodGet, "/v1/blocks/meta/Meta%209", http.StatusNotFound},
			{"data", http.MethodGet, "/v1/data/meta/GENESIS", http.StatusOK},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen calling %s %s.", testID, tst.method, tst.path)
			{
				f := func(t *testing.T) {
					w := call(mux, tst.method, tst.path, "")
					if w.Code != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould receive a status code of %d: %d %s", failed, testID, tst.status, w.Code, w.Body)
					}
					t.Logf("\t%s\tTest %d:\tShould receive a status code of %d.", success, testID, tst.status)
				}

				t.Run(tst.name, f)
			}
		}

		t.Logf("\tTest %d:\tWhen reading payloads by meta data.", len(tt))
		{
			w := call(mux, http.MethodGet, "/v1/data/meta/Meta%201", "")

			var data []string
			if err := json.NewDecoder(w.Body).Decode(&data); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response: %v", failed, len(tt), err)
			}

			if len(data) != 1 || data[0] != "1" {
				t.Fatalf("\t%s\tTest %d:\tShould get the tagged payload: %v", failed, len(tt), data)
			}
			t.Logf("\t%s\tTest %d:\tShould get the tagged payload.", success, len(tt))
		}

		t.Logf("\tTest %d:\tWhen reading the status.", len(tt)+1)
		{
			w := call(mux, http.MethodGet, "/v1/status", "")

			var resp struct {
				GenesisDate time.Time `json:"genesis_date"`
				Size        uint64    `json:"size"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response: %v", failed, len(tt)+1, err)
			}

			if !resp.GenesisDate.Equal(genesisDate) {
				t.Fatalf("\t%s\tTest %d:\tShould report the genesis date: got %v, exp %v", failed, len(tt)+1, resp.GenesisDate, genesisDate)
			}
			t.Logf("\t%s\tTest %d:\tShould report the genesis date.", success, len(tt)+1)

			if resp.Size != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould report the ledger size: %d", failed, len(tt)+1, resp.Size)
			}
			t.Logf("\t%s\tTest %d:\tShould report the ledger size.", success, len(tt)+1)
		}
	}
}

func Test_Verify(t *testing.T) {
	t.Log("Given the need to verify blocks through the API.")
	{
		mux, _ := newMux(t)

		w := call(mux, http.MethodPost, "/v1/mine", `{"data": "0"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("unable to mine: %d %s", w.Code, w.Body)
		}
		mined := w.Body.String()

		tt := []struct {
			name  string
			body  string
			valid bool
		}{
			{"mined", mined, true},
			{"tampered", strings.Replace(mined, `"data":"0"`, `"data":"1"`, 1), false},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen verifying a %s block.", testID, tst.name)
			{
				f := func(t *testing.T) {
					w := call(mux, http.MethodPost, "/v1/verify", tst.body)
					if w.Code != http.StatusOK {
						t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200: %d %s", failed, testID, w.Code, w.Body)
					}

					var resp struct {
						Valid bool `json:"valid"`
					}
					if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to unmarshal the response: %v", failed, testID, err)
					}

					if resp.Valid != tst.valid {
						t.Fatalf("\t%s\tTest %d:\tShould get valid %t.", failed, testID, tst.valid)
					}
					t.Logf("\t%s\tTest %d:\tShould get valid %t.", success, testID, tst.valid)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Debug(t *testing.T) {
	t.Log("Given the need to check the health of the service.")
	{
		_, st := newMux(t)
		mux := handlers.DebugMux("test", zaptest.NewLogger(t).Sugar(), st)

		for testID, path := range []string{"/debug/readiness", "/debug/liveness"} {
			t.Logf("\tTest %d:\tWhen calling %s.", testID, path)
			{
				w := call(mux, http.MethodGet, path, "")
				if w.Code != http.StatusOK {
					t.Fatalf("\t%s\tTest %d:\tShould receive a status code of 200: %d", failed, testID, w.Code)
				}
				t.Logf("\t%s\tTest %d:\tShould receive a status code of 200.", success, testID)
			}
		}
	}
}
