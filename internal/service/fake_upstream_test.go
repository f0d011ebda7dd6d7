package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

// fakeUpstream is an in-memory REST backend keyed by collection path
type fakeUpstream struct {
	mu          sync.Mutex
	collections map[string][]map[string]interface{}
	calls       []recordedCall
	nextID      int
	failList    map[string]bool
	srv         *httptest.Server
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{
		collections: make(map[string][]map[string]interface{}),
		failList:    make(map[string]bool),
		nextID:      100,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeUpstream) client(t *testing.T) *upstream.Client {
	t.Helper()
	c, err := upstream.NewClient(&config.UpstreamConfig{BaseURL: f.srv.URL, Timeout: 5}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func (f *fakeUpstream) seed(path string, records ...map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[path] = append(f.collections[path], records...)
}

func (f *fakeUpstream) lastCall() recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// mutations returns the non-GET calls in order
func (f *fakeUpstream) mutations() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.Method != http.MethodGet {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeUpstream) split(path string) (collection, id, verb string) {
	for known := range f.collections {
		if path == known {
			return known, "", ""
		}
		if strings.HasPrefix(path, known+"/") {
			rest := strings.Split(strings.TrimPrefix(path, known+"/"), "/")
			id = rest[0]
			if len(rest) > 1 {
				verb = rest[1]
			}
			return known, id, verb
		}
	}
	return path, "", ""
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]interface{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	f.calls = append(f.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})

	coll, id, _ := f.split(r.URL.Path)
	records, known := f.collections[coll]
	if !known {
		http.Error(w, `{"message":"no such collection"}`, http.StatusNotFound)
		return
	}

	find := func() int {
		for i, rec := range records {
			if fmt.Sprint(rec["id"]) == id {
				return i
			}
		}
		return -1
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && id == "":
		if f.failList[coll] {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"list unavailable"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": records})
	case r.Method == http.MethodGet:
		i := find()
		if i < 0 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(records[i])
	case r.Method == http.MethodPost:
		f.nextID++
		body["id"] = f.nextID
		f.collections[coll] = append(records, body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	case r.Method == http.MethodPut || r.Method == http.MethodPatch:
		i := find()
		if i < 0 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
			return
		}
		for k, v := range body {
			records[i][k] = v
		}
		_ = json.NewEncoder(w).Encode(records[i])
	case r.Method == http.MethodDelete:
		i := find()
		if i < 0 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
			return
		}
		f.collections[coll] = append(records[:i], records[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func testFormatter(t *testing.T) *pricing.Formatter {
	t.Helper()
	f, err := pricing.NewFormatter(&config.ConsoleConfig{Currency: "INR", CurrencySymbol: "₹"})
	require.NoError(t, err)
	return f
}
