package geography

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// DialingCodes maps IBGE municipal codes to national dialing-code prefixes.
type DialingCodes struct {
	byCity map[string]int
	all    []int
}

// ReadDialingCodes loads the semicolon-delimited reference file wholesale.
// It needs the CO_MUNICIPIO and CN columns and every CN must be numeric.
func ReadDialingCodes(path string) (*DialingCodes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dialing-code file: %w", err)
	}
	defer f.Close()
	return parseDialingCodes(f, path)
}

func parseDialingCodes(r io.Reader, name string) (*DialingCodes, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}

	codeCol, ddCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case "CO_MUNICIPIO":
			codeCol = i
		case "CN":
			ddCol = i
		}
	}
	if codeCol < 0 || ddCol < 0 {
		return nil, fmt.Errorf("%s: missing CO_MUNICIPIO or CN column", name)
	}

	dc := &DialingCodes{byCity: make(map[string]int)}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		if len(record) <= codeCol || len(record) <= ddCol {
			return nil, fmt.Errorf("%s line %d: too few fields", name, line)
		}

		ddd, err := strconv.Atoi(strings.TrimSpace(record[ddCol]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid CN %q", name, line, record[ddCol])
		}
		dc.byCity[strings.TrimSpace(record[codeCol])] = ddd
		dc.all = append(dc.all, ddd)
	}

	if len(dc.all) == 0 {
		return nil, fmt.Errorf("%s: no dialing codes", name)
	}
	return dc, nil
}

// Lookup returns the dialing code of an IBGE municipal code.
func (d *DialingCodes) Lookup(cityCode int64) (int, bool) {
	v, ok := d.byCity[strconv.FormatInt(cityCode, 10)]
	return v, ok
}

// All returns every dialing code in file order, duplicates included.
func (d *DialingCodes) All() []int {
	return d.all
}

func (d *DialingCodes) Len() int {
	return len(d.all)
}

// NewDialingCodes builds a table in memory; used by tests and offline runs.
func NewDialingCodes(byCity map[int64]int) *DialingCodes {
	codes := make([]int64, 0, len(byCity))
	for code := range byCity {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	dc := &DialingCodes{byCity: make(map[string]int, len(byCity))}
	for _, code := range codes {
		dc.byCity[strconv.FormatInt(code, 10)] = byCity[code]
		dc.all = append(dc.all, byCity[code])
	}
	return dc
}
