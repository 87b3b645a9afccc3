package planner

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Logical table names. Generators, weights and targets are keyed by these.
const (
	State               = "state"
	City                = "city"
	Neighborhood        = "neighborhood"
	Street              = "street"
	Hospital            = "hospital"
	HospitalAddress     = "hospital_address"
	Employee            = "employee"
	Doctor              = "doctor"
	Driver              = "driver"
	Patient             = "patient"
	ContactType         = "contact_type"
	PatientContact      = "patient_contact"
	PatientEmail        = "patient_email"
	PatientPhone        = "patient_phone"
	PatientAddress      = "patient_address"
	HealthPlan          = "health_plan"
	PatientHealthPlan   = "patient_health_plan"
	Consultation        = "consultation"
	PaymentMethod       = "payment_method"
	ConsultationPayment = "consultation_payment"
	Medicine            = "medicine"
	Prescription        = "prescription"
)

// Tables lists every logical table in declaration order.
var Tables = []string{
	State, City, Neighborhood, Street,
	Hospital, HospitalAddress, Employee, Doctor, Driver,
	Patient, ContactType, PatientContact, PatientEmail, PatientPhone, PatientAddress,
	HealthPlan, PatientHealthPlan,
	Consultation, PaymentMethod, ConsultationPayment,
	Medicine, Prescription,
}

// Weights maps a logical table to its fraction of the global total.
type Weights map[string]float64

// Targets maps a logical table to its exact row count.
type Targets map[string]int

// epsilon absorbs binary error such as 0.29*100 = 28.999...
const epsilon = 1e-9

// FixedRows sizes the lookup tables. They do not scale with the total and
// take no weight.
var FixedRows = map[string]int{
	State:         27,
	ContactType:   3,
	PaymentMethod: 5,
}

// FixedTotal is the number of rows the lookup tables always contribute.
func FixedTotal() int {
	var n int
	for _, rows := range FixedRows {
		n += rows
	}
	return n
}

// IsFixed reports whether a table has a fixed size.
func IsFixed(name string) bool {
	_, ok := FixedRows[name]
	return ok
}

// DefaultWeights is the canonical weighting of the scaled tables. Together
// with the fixed lookup rows it yields exactly 10,000,000 rows at that total.
func DefaultWeights() Weights {
	return Weights{
		City:                0.000557,
		Neighborhood:        0.001067,
		Street:              0.03201,
		Hospital:            0.00002,
		HospitalAddress:     0.00002,
		Employee:            0.002,
		Doctor:              0.0004,
		Driver:              0.0001,
		HealthPlan:          0.00001,
		Medicine:            0.00081,
		Patient:             0.10,
		PatientContact:      0.10,
		PatientEmail:        0.10,
		PatientPhone:        0.12,
		PatientAddress:      0.10,
		PatientHealthPlan:   0.08,
		Consultation:        0.13,
		ConsultationPayment: 0.13,
		Prescription:        0.1030025,
	}
}

// LoadWeights reads a YAML profile of table: weight pairs. Tables missing from
// the file keep their default weight.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}

	var overrides map[string]float64
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse weights file %s: %w", path, err)
	}

	weights := DefaultWeights()
	for name, w := range overrides {
		if rows, ok := FixedRows[name]; ok {
			return nil, fmt.Errorf("weights file %s: table %q has a fixed size of %d rows", path, name, rows)
		}
		if _, ok := weights[name]; !ok {
			return nil, fmt.Errorf("weights file %s: unknown table %q", path, name)
		}
		weights[name] = w
	}
	return weights, nil
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	var s float64
	for _, name := range w.names() {
		s += w[name]
	}
	return s
}

func (w Weights) names() []string {
	names := make([]string, 0, len(w))
	for n := range w {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Allocate converts a total row budget into per-table targets with
// floor(weight * total). A table with a positive weight gets at least one
// row, so small totals still give every child a parent. Lookup tables get
// their FixedRows and any weight for them is ignored. A zero total plans
// nothing. The result depends only on its inputs.
func Allocate(total int, weights Weights) (Targets, error) {
	if total < 0 {
		return nil, fmt.Errorf("total cannot be negative: %d", total)
	}

	targets := make(Targets, len(weights)+len(FixedRows))
	for _, name := range weights.names() {
		w := weights[name]
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("invalid weight for table %s: %v", name, w)
		}
		if IsFixed(name) {
			continue
		}
		n := int(math.Floor(w*float64(total) + epsilon))
		if w > 0 && total > 0 {
			n = max(n, 1)
		}
		targets[name] = n
	}
	for name, rows := range FixedRows {
		if total > 0 {
			targets[name] = rows
		} else {
			targets[name] = 0
		}
	}
	return targets, nil
}

// Sum returns the total number of rows the targets describe.
func (t Targets) Sum() int {
	var s int
	for _, n := range t {
		s += n
	}
	return s
}

// Get returns the target for a table, zero when it is not planned.
func (t Targets) Get(name string) int {
	return t[name]
}
