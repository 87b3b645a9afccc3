package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/Rana718/hospigen/internal/types"
)

// Sink receives finished tables. Write may be called more than once for the
// same table in a run; later calls append.
type Sink interface {
	Write(ctx context.Context, t *types.Table) error
	Close() error
}

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func checkIdentifiers(t *types.Table) error {
	if !validIdentifier.MatchString(t.Name) {
		return fmt.Errorf("invalid table name: %s", t.Name)
	}
	for _, c := range t.Columns {
		if !validIdentifier.MatchString(c) {
			return fmt.Errorf("invalid column name in table %s: %s", t.Name, c)
		}
	}
	return nil
}

// MultiSink writes every table to each of its sinks in order.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, t *types.Table) error {
	for _, s := range m {
		if err := s.Write(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
