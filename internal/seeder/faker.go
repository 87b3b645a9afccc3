package seeder

import (
	"context"
	"fmt"
	"hash/fnv"
	"runtime"
	"time"

	"github.com/Rana718/hospigen/internal/types"
	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/sync/errgroup"
)

// ValueSource produces atomic fake values. One instance is owned by a single
// goroutine; it is not safe for concurrent use.
type ValueSource struct {
	f *gofakeit.Faker
}

func NewValueSource(seed uint64) *ValueSource {
	if seed == 0 {
		seed = 1
	}
	return &ValueSource{f: gofakeit.New(seed)}
}

func (v *ValueSource) Name() string       { return v.f.Name() }
func (v *ValueSource) LastName() string   { return v.f.LastName() }
func (v *ValueSource) Company() string    { return v.f.Company() }
func (v *ValueSource) City() string       { return v.f.City() }
func (v *ValueSource) StreetName() string { return v.f.StreetName() }
func (v *ValueSource) Email() string      { return v.f.Email() }
func (v *ValueSource) JobTitle() string   { return v.f.JobTitle() }
func (v *ValueSource) Word() string       { return v.f.Word() }
func (v *ValueSource) Bool() bool         { return v.f.Bool() }
func (v *ValueSource) Pick(s []string) string {
	return v.f.RandomString(s)
}

// Intn returns a value in [0, n).
func (v *ValueSource) Intn(n int) int {
	return v.f.IntRange(0, n-1)
}

// Between returns a value in [lo, hi].
func (v *ValueSource) Between(lo, hi int) int {
	return v.f.IntRange(lo, hi)
}

func (v *ValueSource) Float(lo, hi float64) float64 {
	return v.f.Float64Range(lo, hi)
}

func (v *ValueSource) Date(from, to time.Time) time.Time {
	return v.f.DateRange(from, to)
}

func (v *ValueSource) digits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + v.f.IntRange(0, 9))
	}
	return string(b)
}

// CPF returns an 11-digit individual taxpayer number.
func (v *ValueSource) CPF() string { return v.digits(11) }

// RG returns a 9-digit identity document number.
func (v *ValueSource) RG() string { return v.digits(9) }

// CNPJ returns a 14-digit company taxpayer number.
func (v *ValueSource) CNPJ() string { return v.digits(14) }

// CEP returns a postal code shaped #####-###.
func (v *ValueSource) CEP() string {
	return v.digits(5) + "-" + v.digits(3)
}

// Phone returns a 9-digit mobile number starting with 9.
func (v *ValueSource) Phone() int64 {
	return int64(v.f.IntRange(900_000_000, 999_999_999))
}

// chunkSize is the number of rows one ValueSource fills. Fixed so output does
// not depend on the number of CPUs.
const chunkSize = 8192

func chunkSeed(seed uint64, table string, startID int64, chunk int) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s/%d/%d", table, startID, chunk)
	return seed ^ h.Sum64()
}

// rows fills n rows in parallel chunks. fn gets the row offset within the
// request and a ValueSource private to the chunk.
func (gc *GenContext) rows(ctx context.Context, spec *TableSpec, req Request, fn func(vs *ValueSource, i int) types.Row) (*types.Table, error) {
	t := types.NewTable(spec.Physical, spec.Columns, 0)
	if req.Target <= 0 {
		return t, nil
	}
	t.Rows = make([]types.Row, req.Target)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	chunks := (req.Target + chunkSize - 1) / chunkSize
	for c := 0; c < chunks; c++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vs := NewValueSource(chunkSeed(gc.Seed, spec.Name, req.StartID, c))
			lo := c * chunkSize
			hi := min(lo+chunkSize, req.Target)
			for i := lo; i < hi; i++ {
				t.Rows[i] = fn(vs, i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}
