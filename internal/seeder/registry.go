package seeder

import (
	"fmt"

	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/types"
)

// Specs lists every generated table.
func Specs() []*TableSpec {
	return []*TableSpec{
		stateSpec(),
		citySpec(),
		neighborhoodSpec(),
		streetSpec(),
		hospitalSpec(),
		hospitalAddressSpec(),
		employeeSpec(),
		doctorSpec(),
		driverSpec(),
		patientSpec(),
		contactTypeSpec(),
		patientContactSpec(),
		patientEmailSpec(),
		patientPhoneSpec(),
		patientAddressSpec(),
		healthPlanSpec(),
		patientHealthPlanSpec(),
		consultationSpec(),
		paymentMethodSpec(),
		consultationPaymentSpec(),
		medicineSpec(),
		prescriptionSpec(),
	}
}

// withAudit appends the audit columns shared by every table.
func withAudit(cols ...string) []string {
	return append(cols, "DT_CADASTRO", "NM_USUARIO")
}

// row closes a record with the audit stamp.
func (gc *GenContext) row(vals ...types.Value) types.Row {
	created, by := gc.stamp()
	return append(types.Row(vals), created, by)
}

func (gc *GenContext) dialingCodes() ([]int, error) {
	if gc.Dialing == nil || gc.Dialing.Len() == 0 {
		return nil, fmt.Errorf("%w: dialing codes are not loaded", ErrConfiguration)
	}
	return gc.Dialing.All(), nil
}

var usesDialingCodes = []string{planner.City, planner.PatientContact, planner.PatientPhone}

// remoteSized reports whether a table's size comes from the remote
// geography source instead of its target.
func remoteSized(name string, opts Options) bool {
	if opts.Geography == nil {
		return false
	}
	switch name {
	case planner.State, planner.City, planner.Neighborhood:
		return true
	}
	return false
}

// scheduled reports whether a table is generated in this run.
func scheduled(name string, targets planner.Targets, opts Options) bool {
	return targets.Get(name) > 0 || remoteSized(name, opts)
}

// Validate rejects target sets that could only be met by truncation or by
// sampling from an empty parent. It runs before any generator.
func Validate(specs []*TableSpec, targets planner.Targets, opts Options) error {
	employees := targets.Get(planner.Employee)
	doctors := targets.Get(planner.Doctor)
	drivers := targets.Get(planner.Driver)
	if doctors+drivers > employees {
		return fmt.Errorf("%w: %d doctors and %d drivers need %d employees, only %d planned",
			ErrConfiguration, doctors, drivers, doctors+drivers, employees)
	}
	if addrs, hospitals := targets.Get(planner.HospitalAddress), targets.Get(planner.Hospital); addrs > hospitals {
		return fmt.Errorf("%w: %d hospital addresses for %d hospitals",
			ErrConfiguration, addrs, hospitals)
	}

	for _, spec := range specs {
		if !scheduled(spec.Name, targets, opts) {
			continue
		}
		for _, dep := range spec.Deps {
			if dep == spec.Name {
				continue
			}
			if !scheduled(dep, targets, opts) {
				return fmt.Errorf("%w: %s has a target of %d but its parent %s has none",
					ErrConfiguration, spec.Name, targets.Get(spec.Name), dep)
			}
		}
	}

	if opts.Dialing == nil || opts.Dialing.Len() == 0 {
		for _, name := range usesDialingCodes {
			if scheduled(name, targets, opts) {
				return fmt.Errorf("%w: %s needs the dialing code reference file", ErrConfiguration, name)
			}
		}
	}
	return nil
}
