package seeder

import "sync/atomic"

// Progress counts rows written per table. Counters are created up front so
// the map itself is never written during a run.
type Progress struct {
	counts map[string]*atomic.Int64
	total  atomic.Int64
}

func NewProgress(tables []string) *Progress {
	p := &Progress{counts: make(map[string]*atomic.Int64, len(tables))}
	for _, t := range tables {
		p.counts[t] = new(atomic.Int64)
	}
	return p
}

func (p *Progress) Add(table string, n int) {
	if c, ok := p.counts[table]; ok {
		c.Add(int64(n))
	}
	p.total.Add(int64(n))
}

// Produced is the number of rows written so far across all tables.
func (p *Progress) Produced() int {
	return int(p.total.Load())
}

func (p *Progress) Table(name string) int {
	if c, ok := p.counts[name]; ok {
		return int(c.Load())
	}
	return 0
}

// Snapshot copies the per-table counts.
func (p *Progress) Snapshot() map[string]int {
	out := make(map[string]int, len(p.counts))
	for name, c := range p.counts {
		out[name] = int(c.Load())
	}
	return out
}
