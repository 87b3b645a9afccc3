package seeder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rana718/hospigen/internal/catalog"
	"github.com/Rana718/hospigen/internal/geography"
	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/types"
	"go.uber.org/zap"
)

// ErrConfiguration marks a run that cannot succeed with the given sizes or
// reference data. It is never retried.
var ErrConfiguration = errors.New("configuration error")

// Request is what a generator is asked for: Target rows with ids starting at
// StartID.
type Request struct {
	Target  int
	StartID int64
}

// GenerateFunc produces one table. It reads parents through the GenContext
// and must not write to them.
type GenerateFunc func(ctx context.Context, gc *GenContext, req Request) (*types.Table, error)

// TableSpec describes one table: its physical layout, the tables it reads and
// the columns children read from it.
type TableSpec struct {
	Name     string
	Physical string
	Key      string
	Columns  []string
	Deps     []string
	Retain   []string
	Gen      GenerateFunc
}

// GeographySource serves the remote locality hierarchy.
type GeographySource interface {
	States(ctx context.Context) ([]geography.UF, error)
	Cities(ctx context.Context) ([]geography.Municipio, error)
	Districts(ctx context.Context) ([]geography.Distrito, error)
}

// MedicineSource serves the external medicine catalog, at most limit entries.
type MedicineSource interface {
	FetchMedicines(ctx context.Context, limit int) ([]catalog.Medicine, error)
}

// GenContext is shared by every generator of a run. Parent tables are
// published once and read-only afterwards.
type GenContext struct {
	Seed      uint64
	CreatedBy string
	Now       time.Time
	Targets   planner.Targets
	Geography GeographySource
	Dialing   *geography.DialingCodes
	Medicines MedicineSource
	Employees *IDPool
	Logger    *zap.Logger

	mu      sync.RWMutex
	parents map[string]*types.Table
}

func newGenContext(opts Options) *GenContext {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &GenContext{
		Seed:      opts.Seed,
		CreatedBy: opts.CreatedBy,
		Now:       now.UTC().Truncate(time.Second),
		Targets:   opts.Targets,
		Geography: opts.Geography,
		Dialing:   opts.Dialing,
		Medicines: opts.Medicines,
		Employees: NewIDPool(),
		Logger:    opts.Logger,
		parents:   make(map[string]*types.Table),
	}
}

// Parent returns the published row set of a table. A missing or empty parent
// is a configuration error: there is nothing to reference.
func (gc *GenContext) Parent(name string) (*types.Table, error) {
	gc.mu.RLock()
	t, ok := gc.parents[name]
	gc.mu.RUnlock()
	if !ok || t.Len() == 0 {
		return nil, fmt.Errorf("%w: parent table %s has no rows", ErrConfiguration, name)
	}
	return t, nil
}

func (gc *GenContext) publish(name string, t *types.Table) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if prev, ok := gc.parents[name]; ok && prev.Len() > 0 {
		merged := types.NewTable(prev.Name, prev.Columns, prev.Len()+t.Len())
		merged.Rows = append(append(merged.Rows, prev.Rows...), t.Rows...)
		t = merged
	}
	gc.parents[name] = t
}

// stamp returns the audit columns every table ends with.
func (gc *GenContext) stamp() (types.Value, types.Value) {
	return types.Time(gc.Now), types.Text(gc.CreatedBy)
}

// IDPool hands out ids exactly once. Take and TakeLast draw from opposite ends
// so two consumers in the same stage get deterministic, disjoint ranges.
type IDPool struct {
	mu  sync.Mutex
	ids []int64
}

func NewIDPool() *IDPool {
	return &IDPool{}
}

func (p *IDPool) Add(ids ...int64) {
	p.mu.Lock()
	p.ids = append(p.ids, ids...)
	p.mu.Unlock()
}

// Take removes and returns the first n ids.
func (p *IDPool) Take(n int) ([]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > len(p.ids) {
		return nil, fmt.Errorf("%w: requested %d ids from a pool of %d", ErrConfiguration, n, len(p.ids))
	}
	out := make([]int64, n)
	copy(out, p.ids[:n])
	p.ids = p.ids[n:]
	return out, nil
}

// TakeLast removes and returns the last n ids.
func (p *IDPool) TakeLast(n int) ([]int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > len(p.ids) {
		return nil, fmt.Errorf("%w: requested %d ids from a pool of %d", ErrConfiguration, n, len(p.ids))
	}
	cut := len(p.ids) - n
	out := make([]int64, n)
	copy(out, p.ids[cut:])
	p.ids = p.ids[:cut]
	return out, nil
}

func (p *IDPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}
