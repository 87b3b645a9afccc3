package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Rana718/hospigen/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// registry is a fake bulario server. pages[category] holds the content of
// each page, failures[category/page] the number of 500s served before it.
type registry struct {
	mu         sync.Mutex
	categories []Category
	pages      map[int64][][]Medication
	failures   map[string]int
	requests   map[string]int
	headers    http.Header
}

func newRegistry() *registry {
	return &registry{
		pages:    make(map[int64][][]Medication),
		failures: make(map[string]int),
		requests: make(map[string]int),
	}
}

func (r *registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers = req.Header.Clone()

	switch req.URL.Path {
	case "/api/tipoCategoriaRegulatoria":
		r.requests["categories"]++
		json.NewEncoder(w).Encode(r.categories)
	case "/api/consulta/bulario":
		cat, _ := strconv.ParseInt(req.URL.Query().Get("filter[categoriasRegulatorias]"), 10, 64)
		page, _ := strconv.Atoi(req.URL.Query().Get("page"))
		key := fmt.Sprintf("%d/%d", cat, page)
		r.requests[key]++

		if r.failures[key] < 0 || r.requests[key] <= r.failures[key] {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}

		pages := r.pages[cat]
		total := 0
		for _, p := range pages {
			total += len(p)
		}
		resp := Page{TotalPages: len(pages), TotalElements: total}
		if page >= 1 && page <= len(pages) {
			resp.Content = pages[page-1]
		}
		json.NewEncoder(w).Encode(resp)
	default:
		http.NotFound(w, req)
	}
}

func (r *registry) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests[key]
}

func meds(ids ...int64) []Medication {
	out := make([]Medication, len(ids))
	for i, id := range ids {
		out[i] = Medication{IDProduto: id, NomeProduto: fmt.Sprintf("MED %d", id), NumeroRegistro: strconv.FormatInt(id*7, 10)}
	}
	return out
}

func newTestFetcher(t *testing.T, reg *registry) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(reg)
	t.Cleanup(srv.Close)

	cfg := &retry.Config{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
	return NewFetcher(NewClient(srv.URL, 100, 5*time.Second), cfg, zap.NewNop())
}

func TestFetchAll_EmptyCategoryShortCircuits(t *testing.T) {
	reg := newRegistry()
	reg.categories = []Category{{ID: 1}, {ID: 2}}
	reg.pages[2] = [][]Medication{meds(10, 11), meds(12)}

	res, err := newTestFetcher(t, reg).FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, reg.count("1/1"), "exactly one page request for an empty category")
	assert.Equal(t, 0, reg.count("1/2"))
	assert.Len(t, res.Items, 3)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 1, reg.count("2/1"))
	assert.Equal(t, 1, reg.count("2/2"))
}

func TestFetchAll_RetrySucceedsAfterTwoFailures(t *testing.T) {
	reg := newRegistry()
	reg.categories = []Category{{ID: 5}}
	reg.pages[5] = [][]Medication{meds(1), meds(2), meds(3)}
	reg.failures["5/2"] = 2

	res, err := newTestFetcher(t, reg).FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, reg.count("5/2"))
	assert.Empty(t, res.Skipped)
	assert.Len(t, res.Items, 3)
	require.Len(t, res.Categories, 1)
	assert.Equal(t, 3, res.Categories[0].Items)
}

func TestFetchAll_ExhaustedPageIsSkipped(t *testing.T) {
	reg := newRegistry()
	reg.categories = []Category{{ID: 7}}
	reg.pages[7] = [][]Medication{meds(1), meds(2), meds(3)}
	reg.failures["7/2"] = -1

	res, err := newTestFetcher(t, reg).FetchAll(context.Background())
	require.NoError(t, err, "page failures never propagate")

	assert.Equal(t, 4, reg.count("7/2"), "one call plus three retries")
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 2, res.Skipped[0].Page)
	assert.Error(t, res.Skipped[0].Err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, []int{2}, res.Categories[0].SkippedPages)
}

func TestFetchAll_FailedFirstPageSkipsCategory(t *testing.T) {
	reg := newRegistry()
	reg.categories = []Category{{ID: 1}, {ID: 2}}
	reg.pages[1] = [][]Medication{meds(1), meds(2)}
	reg.pages[2] = [][]Medication{meds(3)}
	reg.failures["1/1"] = -1

	res, err := newTestFetcher(t, reg).FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, reg.count("1/2"))
	assert.Len(t, res.Items, 1)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, int64(1), res.Skipped[0].CategoryID)
}

func TestFetchAll_CategoryListFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := &retry.Config{MaxRetries: 1, InitialDelay: time.Millisecond, Multiplier: 2}
	f := NewFetcher(NewClient(srv.URL, 100, time.Second), cfg, zap.NewNop())

	_, err := f.FetchAll(context.Background())
	assert.ErrorContains(t, err, "failed to list categories")
}

func TestFetchAll_MalformedJSONIsRetried(t *testing.T) {
	var calls int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tipoCategoriaRegulatoria" {
			w.Write([]byte(`[{"id": 3, "descricao": "Genérico"}]`))
			return
		}
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			w.Write([]byte(`{"content": [`))
			return
		}
		json.NewEncoder(w).Encode(Page{Content: meds(9), TotalPages: 1, TotalElements: 1})
	}))
	defer srv.Close()

	cfg := &retry.Config{MaxRetries: 2, InitialDelay: time.Millisecond, Multiplier: 2}
	res, err := NewFetcher(NewClient(srv.URL, 100, time.Second), cfg, zap.NewNop()).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 2, calls)
}

func TestClient_HeaderProfile(t *testing.T) {
	reg := newRegistry()
	srv := httptest.NewServer(reg)
	defer srv.Close()

	_, err := NewClient(srv.URL, 100, time.Second).ListCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Guest", reg.headers.Get("authorization"))
	assert.Equal(t, "no-cache", reg.headers.Get("pragma"))
	assert.True(t, strings.HasPrefix(reg.headers.Get("accept-language"), "pt-BR"))
	assert.Contains(t, userAgents, reg.headers.Get("User-Agent"))
}

func TestClient_NotFoundIsPermanent(t *testing.T) {
	reg := newRegistry()
	srv := httptest.NewServer(reg)
	defer srv.Close()

	c := NewClient(srv.URL+"/missing", 100, time.Second)
	_, err := c.ListCategories(context.Background())
	assert.True(t, retry.IsPermanent(err))
}

func TestNormalize(t *testing.T) {
	long := strings.Repeat("á", 60)
	items := []Medication{
		{IDProduto: 30, NomeProduto: "C"},
		{IDProduto: 10, NomeProduto: long},
		{IDProduto: 30, NomeProduto: "C duplicate"},
		{IDProduto: 20, NomeProduto: "B"},
	}

	got := Normalize(items)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{0, 1, 2}, []int64{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, []int64{10, 20, 30}, []int64{got[0].ProductID, got[1].ProductID, got[2].ProductID})
	assert.Equal(t, MaxNameLength, len([]rune(got[0].Name)))
	assert.Equal(t, "C", got[2].Name)
}

func TestFetchMedicines_Limit(t *testing.T) {
	reg := newRegistry()
	reg.categories = []Category{{ID: 1}}
	reg.pages[1] = [][]Medication{meds(5, 4, 3), meds(2, 1)}

	got, err := newTestFetcher(t, reg).FetchMedicines(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ProductID)
}
