package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Rana718/hospigen/internal/retry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxNameLength bounds NM_MEDICAMENTO.
const MaxNameLength = 50

// PageResult is the outcome of one page fetch. A non-nil Err means the page
// was given up on after its retries and contributes nothing.
type PageResult struct {
	CategoryID int64
	Page       int
	Items      []Medication
	Err        error
}

// CategoryReport summarizes one category after the fetch.
type CategoryReport struct {
	ID           int64
	Description  string
	TotalPages   int
	Items        int
	SkippedPages []int
}

// Result aggregates every category of a FetchAll call.
type Result struct {
	Items      []Medication
	Categories []CategoryReport
	Skipped    []PageResult
}

// Medicine is a normalized catalog entry with a dense id.
type Medicine struct {
	ID          int64
	ProductID   int64
	Name        string
	Description string
	Barcode     string
}

// Lister is the registry surface the fetcher needs.
type Lister interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListPage(ctx context.Context, categoryID int64, page int) (*Page, error)
}

type Fetcher struct {
	client Lister
	retry  *retry.Config
	logger *zap.Logger
}

func NewFetcher(client Lister, cfg *retry.Config, logger *zap.Logger) *Fetcher {
	if cfg == nil {
		cfg = retry.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, retry: cfg, logger: logger.Named("catalog")}
}

// FetchAll walks every category concurrently, one goroutine per category, and
// each category's pages sequentially. Failing to list categories is fatal.
// Pages that exhaust their retries are skipped and reported in Result.Skipped.
func (f *Fetcher) FetchAll(ctx context.Context) (*Result, error) {
	categories, err := retry.DoWithResult(ctx, f.retry, f.notify("categories"), func() ([]Category, error) {
		return f.client.ListCategories(ctx)
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	f.logger.Info("fetching catalog", zap.Int("categories", len(categories)))

	var (
		mu      sync.Mutex
		results []PageResult
		reports = make([]CategoryReport, len(categories))
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range categories {
		g.Go(func() error {
			pages, report, err := f.fetchCategory(gctx, cat)
			if err != nil {
				return err
			}
			reports[i] = report

			mu.Lock()
			results = append(results, pages...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return f.aggregate(results, reports), nil
}

// aggregate folds page results into one Result. Failed pages are dropped from
// the items here and logged, never silently.
func (f *Fetcher) aggregate(results []PageResult, reports []CategoryReport) *Result {
	sort.Slice(results, func(i, j int) bool {
		if results[i].CategoryID != results[j].CategoryID {
			return results[i].CategoryID < results[j].CategoryID
		}
		return results[i].Page < results[j].Page
	})

	out := &Result{Categories: reports}
	for _, r := range results {
		if r.Err != nil {
			f.logger.Warn("skipping page",
				zap.Int64("category", r.CategoryID),
				zap.Int("page", r.Page),
				zap.Error(r.Err))
			out.Skipped = append(out.Skipped, r)
			continue
		}
		out.Items = append(out.Items, r.Items...)
	}
	return out
}

func (f *Fetcher) fetchCategory(ctx context.Context, cat Category) ([]PageResult, CategoryReport, error) {
	report := CategoryReport{ID: cat.ID, Description: cat.Descricao}

	first, err := f.page(ctx, cat.ID, 1)
	if err != nil {
		if ctx.Err() != nil {
			return nil, report, ctx.Err()
		}
		report.SkippedPages = append(report.SkippedPages, 1)
		return []PageResult{{CategoryID: cat.ID, Page: 1, Err: err}}, report, nil
	}

	if first.TotalElements == 0 {
		f.logger.Debug("empty category", zap.Int64("category", cat.ID))
		return nil, report, nil
	}

	report.TotalPages = first.TotalPages
	results := []PageResult{{CategoryID: cat.ID, Page: 1, Items: first.Content}}
	report.Items += len(first.Content)

	for p := 2; p <= first.TotalPages; p++ {
		page, err := f.page(ctx, cat.ID, p)
		if err != nil {
			if ctx.Err() != nil {
				return nil, report, ctx.Err()
			}
			report.SkippedPages = append(report.SkippedPages, p)
			results = append(results, PageResult{CategoryID: cat.ID, Page: p, Err: err})
			continue
		}
		report.Items += len(page.Content)
		results = append(results, PageResult{CategoryID: cat.ID, Page: p, Items: page.Content})
	}

	f.logger.Debug("category done",
		zap.Int64("category", cat.ID),
		zap.Int("pages", first.TotalPages),
		zap.Int("items", report.Items))
	return results, report, nil
}

func (f *Fetcher) page(ctx context.Context, categoryID int64, page int) (*Page, error) {
	return retry.DoWithResult(ctx, f.retry, f.notify("page"), func() (*Page, error) {
		return f.client.ListPage(ctx, categoryID, page)
	})
}

func (f *Fetcher) notify(what string) retry.Notify {
	return func(attempt int, err error, wait time.Duration) {
		f.logger.Debug("retrying "+what,
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}
}

// FetchMedicines fetches the catalog and normalizes it, returning at most
// limit medicines.
func (f *Fetcher) FetchMedicines(ctx context.Context, limit int) ([]Medicine, error) {
	res, err := f.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	meds := Normalize(res.Items)
	if len(meds) > limit {
		meds = meds[:limit]
	}
	return meds, nil
}

// Normalize de-duplicates items by product id, orders them by product id and
// assigns dense ids from zero. Names are cut to MaxNameLength characters.
func Normalize(items []Medication) []Medicine {
	seen := make(map[int64]Medication, len(items))
	for _, it := range items {
		if _, ok := seen[it.IDProduto]; !ok {
			seen[it.IDProduto] = it
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Medicine, len(ids))
	for i, id := range ids {
		it := seen[id]
		out[i] = Medicine{
			ID:          int64(i),
			ProductID:   id,
			Name:        truncate(it.NomeProduto, MaxNameLength),
			Description: it.Expediente,
			Barcode:     it.NumeroRegistro,
		}
	}
	return out
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
