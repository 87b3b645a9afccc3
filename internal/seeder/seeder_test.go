package seeder

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rana718/hospigen/internal/catalog"
	"github.com/Rana718/hospigen/internal/geography"
	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/types"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// memorySink keeps every written table, appending repeated writes.
type memorySink struct {
	mu     sync.Mutex
	tables map[string]*types.Table
}

func newMemorySink() *memorySink {
	return &memorySink{tables: make(map[string]*types.Table)}
}

func (m *memorySink) Write(_ context.Context, t *types.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.tables[t.Name]; ok {
		prev.Rows = append(prev.Rows, t.Rows...)
		return nil
	}
	own := types.NewTable(t.Name, t.Columns, t.Len())
	own.Rows = append(own.Rows, t.Rows...)
	m.tables[t.Name] = own
	return nil
}

func (m *memorySink) Close() error { return nil }

func (m *memorySink) table(t *testing.T, name string) *types.Table {
	t.Helper()
	tbl, ok := m.tables[name]
	require.True(t, ok, "table %s was not written", name)
	return tbl
}

// testWeights plus the fixed lookup rows gives exactly 1000 rows at T=1000,
// so no top-up is needed.
func testWeights() planner.Weights {
	return planner.Weights{
		planner.City:                0.01,
		planner.Neighborhood:        0.02,
		planner.Street:              0.05,
		planner.Hospital:            0.005,
		planner.HospitalAddress:     0.005,
		planner.Employee:            0.10,
		planner.Doctor:              0.05,
		planner.Driver:              0.05,
		planner.Patient:             0.10,
		planner.PatientContact:      0.05,
		planner.PatientEmail:        0.05,
		planner.PatientPhone:        0.05,
		planner.PatientAddress:      0.10,
		planner.HealthPlan:          0.005,
		planner.PatientHealthPlan:   0.05,
		planner.Consultation:        0.10,
		planner.ConsultationPayment: 0.05,
		planner.Medicine:            0.01,
		planner.Prescription:        0.110,
	}
}

func testDialing() *geography.DialingCodes {
	return geography.NewDialingCodes(map[int64]int{3550308: 11, 3304557: 21, 5300108: 61})
}

func testOptions(t *testing.T, total int, targets planner.Targets, sink *memorySink) Options {
	t.Helper()
	return Options{
		Total:     total,
		Targets:   targets,
		FillTable: planner.Patient,
		Seed:      42,
		CreatedBy: "1",
		Now:       fixedNow,
		Dialing:   testDialing(),
		Sink:      sink,
		Logger:    zap.NewNop(),
		Quiet:     true,
	}
}

func runFull(t *testing.T, seed uint64) (*memorySink, *Summary) {
	t.Helper()
	targets, err := planner.Allocate(1000, testWeights())
	require.NoError(t, err)
	require.Equal(t, 1000, targets.Sum())

	sink := newMemorySink()
	opts := testOptions(t, 1000, targets, sink)
	opts.Seed = seed

	s, err := New(opts)
	require.NoError(t, err)
	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	return sink, summary
}

func idSet(tbl *types.Table, col string) map[int64]bool {
	out := make(map[int64]bool, tbl.Len())
	for _, id := range tbl.Ints(col) {
		out[id] = true
	}
	return out
}

func assertRefs(t *testing.T, child *types.Table, col string, parent *types.Table, parentCol string) {
	t.Helper()
	known := idSet(parent, parentCol)
	for i, id := range child.Ints(col) {
		if !known[id] {
			t.Fatalf("%s row %d: %s=%d not found in %s.%s", child.Name, i, col, id, parent.Name, parentCol)
		}
	}
}

func TestSeeder_Stages(t *testing.T) {
	targets, err := planner.Allocate(1000, testWeights())
	require.NoError(t, err)

	s, err := New(testOptions(t, 1000, targets, newMemorySink()))
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"contact_type", "employee", "health_plan", "hospital", "medicine", "patient", "payment_method", "state"},
		{"city", "doctor", "driver", "patient_contact", "patient_email", "patient_health_plan", "patient_phone"},
		{"consultation", "neighborhood"},
		{"consultation_payment", "prescription", "street"},
		{"hospital_address", "patient_address"},
	}, s.Stages())
}

func TestSeeder_EndToEndReferentialIntegrity(t *testing.T) {
	sink, summary := runFull(t, 42)

	assert.Equal(t, 1000, summary.Produced)
	assert.Equal(t, 0, summary.TopUp)
	assert.Equal(t, 0, summary.Remaining())

	state := sink.table(t, "T_RHSTU_ESTADO")
	city := sink.table(t, "T_RHSTU_CIDADE")
	hood := sink.table(t, "T_RHSTU_BAIRRO")
	street := sink.table(t, "T_RHSTU_LOGRADOURO")
	hospital := sink.table(t, "T_RHSTU_UNID_HOSPITALAR")
	hospitalAddr := sink.table(t, "T_RHSTU_ENDERECO_UNIDHOSP")
	employee := sink.table(t, "T_RHSTU_FUNCIONARIO")
	doctor := sink.table(t, "T_RHSTU_MEDICO")
	driver := sink.table(t, "T_RHSTU_MOTORISTA")
	patient := sink.table(t, "T_RHSTU_PACIENTE")
	contactType := sink.table(t, "T_RHSTU_TIPO_CONTATO")
	contact := sink.table(t, "T_RHSTU_CONTATO_PACIENTE")
	email := sink.table(t, "T_RHSTU_EMAIL_PACIENTE")
	phone := sink.table(t, "T_RHSTU_TELEFONE_PACIENTE")
	patientAddr := sink.table(t, "T_RHSTU_ENDERECO_PACIENTE")
	plan := sink.table(t, "T_RHSTU_PLANO_SAUDE")
	patientPlan := sink.table(t, "T_RHSTU_PACIENTE_PLANO_SAUDE")
	consultation := sink.table(t, "T_RHSTU_CONSULTA")
	method := sink.table(t, "T_RHSTU_FORMA_PAGAMENTO")
	payment := sink.table(t, "T_RHSTU_CONSULTA_FORMA_PAGTO")
	medicine := sink.table(t, "T_RHSTU_MEDICAMENTO")
	prescription := sink.table(t, "T_RHSTU_PRESCRICAO_MEDICA")

	// 10% of 1000 patients, unique ids in [0, 100).
	require.Equal(t, 100, patient.Len())
	seen := make(map[int64]bool)
	for _, id := range patient.Ints("ID_PACIENTE") {
		assert.GreaterOrEqual(t, id, int64(0))
		assert.Less(t, id, int64(100))
		assert.False(t, seen[id], "duplicate patient id %d", id)
		seen[id] = true
	}

	assertRefs(t, city, "ID_ESTADO", state, "ID_ESTADO")
	assertRefs(t, hood, "ID_CIDADE", city, "ID_CIDADE")
	assertRefs(t, street, "ID_BAIRRO", hood, "ID_BAIRRO")
	assertRefs(t, hospitalAddr, "ID_UNID_HOSPITAL", hospital, "ID_UNID_HOSPITAL")
	assertRefs(t, hospitalAddr, "ID_LOGRADOURO", street, "ID_LOGRADOURO")
	assertRefs(t, hospitalAddr, "ID_CIDADE", city, "ID_CIDADE")
	assertRefs(t, hospitalAddr, "ID_ESTADO", state, "ID_ESTADO")
	assertRefs(t, employee, "ID_SUPERIOR", employee, "ID_FUNC")
	assertRefs(t, doctor, "ID_FUNC", employee, "ID_FUNC")
	assertRefs(t, driver, "ID_FUNC", employee, "ID_FUNC")
	assertRefs(t, contact, "ID_PACIENTE", patient, "ID_PACIENTE")
	assertRefs(t, contact, "ID_TIPO_CONTATO", contactType, "ID_TIPO_CONTATO")
	assertRefs(t, email, "ID_PACIENTE", patient, "ID_PACIENTE")
	assertRefs(t, phone, "ID_PACIENTE", patient, "ID_PACIENTE")
	assertRefs(t, patientAddr, "ID_PACIENTE", patient, "ID_PACIENTE")
	assertRefs(t, patientAddr, "ID_LOGRADOURO", street, "ID_LOGRADOURO")
	assertRefs(t, patientPlan, "ID_PACIENTE", patient, "ID_PACIENTE")
	assertRefs(t, patientPlan, "ID_PLANO_SAUDE", plan, "ID_PLANO_SAUDE")
	assertRefs(t, consultation, "ID_UNID_HOSPITAL", hospital, "ID_UNID_HOSPITAL")
	assertRefs(t, consultation, "ID_PACIENTE", patient, "ID_PACIENTE")
	assertRefs(t, consultation, "ID_FUNC", doctor, "ID_FUNC")
	assertRefs(t, payment, "ID_CONSULTA", consultation, "ID_CONSULTA")
	assertRefs(t, payment, "ID_PACIENTE_PS", patientPlan, "ID_PACIENTE_PS")
	assertRefs(t, payment, "ID_FORMA_PAGTO", method, "ID_FORMA_PAGTO")
	assertRefs(t, prescription, "ID_CONSULTA", consultation, "ID_CONSULTA")
	assertRefs(t, prescription, "ID_MEDICAMENTO", medicine, "ID_MEDICAMENTO")

	t.Run("hospital address geography is derived from the street", func(t *testing.T) {
		hoodOf := make(map[int64]int64)
		for _, r := range street.Rows {
			hoodOf[r[street.Col("ID_LOGRADOURO")].AsInt()] = r[street.Col("ID_BAIRRO")].AsInt()
		}
		cityOf := make(map[int64]int64)
		for _, r := range hood.Rows {
			cityOf[r[hood.Col("ID_BAIRRO")].AsInt()] = r[hood.Col("ID_CIDADE")].AsInt()
		}
		stateOf := make(map[int64]int64)
		for _, r := range city.Rows {
			stateOf[r[city.Col("ID_CIDADE")].AsInt()] = r[city.Col("ID_ESTADO")].AsInt()
		}
		for i := range hospitalAddr.Rows {
			s := hospitalAddr.Int(i, "ID_LOGRADOURO")
			c := cityOf[hoodOf[s]]
			assert.Equal(t, c, hospitalAddr.Int(i, "ID_CIDADE"))
			assert.Equal(t, stateOf[c], hospitalAddr.Int(i, "ID_ESTADO"))
		}
	})

	t.Run("payments and prescriptions keep the consultation hospital", func(t *testing.T) {
		hospitalOf := make(map[int64]int64)
		for i := range consultation.Rows {
			hospitalOf[consultation.Int(i, "ID_CONSULTA")] = consultation.Int(i, "ID_UNID_HOSPITAL")
		}
		for _, child := range []*types.Table{payment, prescription} {
			for i := range child.Rows {
				assert.Equal(t, hospitalOf[child.Int(i, "ID_CONSULTA")], child.Int(i, "ID_UNID_HOSPITAL"))
			}
		}
	})

	t.Run("doctors and drivers partition the employees", func(t *testing.T) {
		doctors := idSet(doctor, "ID_FUNC")
		for _, id := range driver.Ints("ID_FUNC") {
			assert.False(t, doctors[id], "employee %d is both doctor and driver", id)
		}
		assert.LessOrEqual(t, doctor.Len()+driver.Len(), employee.Len())
	})

	t.Run("every row carries the audit stamp", func(t *testing.T) {
		for _, tbl := range sink.tables {
			n := len(tbl.Columns)
			require.Equal(t, "DT_CADASTRO", tbl.Columns[n-2], tbl.Name)
			require.Equal(t, "NM_USUARIO", tbl.Columns[n-1], tbl.Name)
			for _, r := range tbl.Rows {
				require.Len(t, r, n, tbl.Name)
				assert.Equal(t, fixedNow, r[n-2].AsTime())
				assert.Equal(t, "1", r[n-1].AsString())
			}
		}
	})
}

func TestSeeder_DefaultWeightsSmallTotal(t *testing.T) {
	targets, err := planner.Allocate(1000, planner.DefaultWeights())
	require.NoError(t, err)

	sink := newMemorySink()
	s, err := New(testOptions(t, 1000, targets, sink))
	require.NoError(t, err)
	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100, sink.table(t, "T_RHSTU_PACIENTE").Len())
	assert.Equal(t, 27, sink.table(t, "T_RHSTU_ESTADO").Len())
	assert.Equal(t, 3, sink.table(t, "T_RHSTU_TIPO_CONTATO").Len())
	assert.Equal(t, 5, sink.table(t, "T_RHSTU_FORMA_PAGAMENTO").Len())
	assert.GreaterOrEqual(t, summary.Produced, 1000)
	assert.Equal(t, 0, summary.TopUp)

	method := sink.table(t, "T_RHSTU_FORMA_PAGAMENTO")
	assertRefs(t, sink.table(t, "T_RHSTU_CONSULTA_FORMA_PAGTO"), "ID_FORMA_PAGTO", method, "ID_FORMA_PAGTO")
	assertRefs(t, sink.table(t, "T_RHSTU_CIDADE"), "ID_ESTADO", sink.table(t, "T_RHSTU_ESTADO"), "ID_ESTADO")
}

func TestSeeder_Deterministic(t *testing.T) {
	a, _ := runFull(t, 7)
	b, _ := runFull(t, 7)
	require.Equal(t, len(a.tables), len(b.tables))
	for name, tbl := range a.tables {
		assert.Equal(t, tbl.Rows, b.tables[name].Rows, name)
	}

	c, _ := runFull(t, 8)
	assert.NotEqual(t, a.tables["T_RHSTU_PACIENTE"].Rows, c.tables["T_RHSTU_PACIENTE"].Rows)
}

func TestSeeder_EmployeePool(t *testing.T) {
	tests := []struct {
		name            string
		doctors, driver int
		wantErr         bool
	}{
		{"exact split drains the pool", 50, 50, false},
		{"doctors and drivers exceed the pool", 80, 40, true},
		{"drivers push past the pool", 50, 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets := planner.Targets{
				planner.Employee: 100,
				planner.Doctor:   tt.doctors,
				planner.Driver:   tt.driver,
			}
			sink := newMemorySink()
			opts := testOptions(t, 0, targets, sink)

			s, err := New(opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrConfiguration)
				assert.Nil(t, s)
				assert.Empty(t, sink.tables, "nothing may be generated")
				return
			}
			require.NoError(t, err)
			_, err = s.Run(context.Background())
			require.NoError(t, err)

			doctors := sink.table(t, "T_RHSTU_MEDICO").Ints("ID_FUNC")
			drivers := sink.table(t, "T_RHSTU_MOTORISTA").Ints("ID_FUNC")
			union := make(map[int64]bool)
			for _, id := range append(doctors, drivers...) {
				assert.False(t, union[id], "id %d assigned twice", id)
				union[id] = true
			}
			assert.Len(t, union, 100)
		})
	}
}

func TestIDPool(t *testing.T) {
	p := NewIDPool()
	p.Add(0, 1, 2, 3, 4)

	front, err := p.Take(2)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1}, front)

	back, err := p.TakeLast(2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, back)
	assert.Equal(t, 1, p.Len())

	_, err = p.Take(2)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 1, p.Len(), "a failed take removes nothing")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		targets planner.Targets
		dialing *geography.DialingCodes
	}{
		{"more addresses than hospitals", planner.Targets{planner.Hospital: 2, planner.HospitalAddress: 3}, testDialing()},
		{"child without parent rows", planner.Targets{planner.PatientEmail: 10}, testDialing()},
		{"phones without dialing codes", planner.Targets{planner.Patient: 10, planner.PatientPhone: 10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Specs(), tt.targets, Options{Dialing: tt.dialing})
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}

	assert.NoError(t, Validate(Specs(), planner.Targets{planner.Employee: 5}, Options{}),
		"the employee self reference needs no other parent")

	t.Run("remote geography parents need no target", func(t *testing.T) {
		opts := Options{Geography: fakeGeography{}, Dialing: testDialing()}
		assert.NoError(t, Validate(Specs(), planner.Targets{planner.Street: 10}, opts))
	})

	t.Run("remote cities need dialing codes", func(t *testing.T) {
		err := Validate(Specs(), planner.Targets{}, Options{Geography: fakeGeography{}})
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestSeeder_TopUp(t *testing.T) {
	t.Run("patient", func(t *testing.T) {
		sink := newMemorySink()
		opts := testOptions(t, 25, planner.Targets{planner.Patient: 10}, sink)

		s, err := New(opts)
		require.NoError(t, err)
		summary, err := s.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 15, summary.TopUp)
		assert.Equal(t, 25, summary.Produced)
		patients := sink.table(t, "T_RHSTU_PACIENTE")
		require.Equal(t, 25, patients.Len())
		assert.Len(t, idSet(patients, "ID_PACIENTE"), 25, "top-up ids continue after the planned ones")
		assert.Equal(t, int64(24), patients.MaxInt("ID_PACIENTE"))
	})

	t.Run("employee", func(t *testing.T) {
		sink := newMemorySink()
		opts := testOptions(t, 15, planner.Targets{planner.Employee: 10}, sink)
		opts.FillTable = planner.Employee

		s, err := New(opts)
		require.NoError(t, err)
		summary, err := s.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 5, summary.TopUp)
		employees := sink.table(t, "T_RHSTU_FUNCIONARIO")
		assert.Equal(t, 15, employees.Len())
		assertRefs(t, employees, "ID_SUPERIOR", employees, "ID_FUNC")
	})

	t.Run("disabled", func(t *testing.T) {
		sink := newMemorySink()
		opts := testOptions(t, 25, planner.Targets{planner.Patient: 10}, sink)
		opts.FillTable = ""

		s, err := New(opts)
		require.NoError(t, err)
		summary, err := s.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, summary.TopUp)
		assert.Equal(t, 15, summary.Remaining())
	})
}

func simpleSpec(name string, gen GenerateFunc, deps ...string) *TableSpec {
	spec := &TableSpec{
		Name:     name,
		Physical: "T_" + name,
		Key:      "ID",
		Columns:  []string{"ID"},
		Deps:     deps,
		Retain:   []string{"ID"},
	}
	spec.Gen = gen
	if gen == nil {
		spec.Gen = func(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
			return gc.rows(ctx, spec, req, func(_ *ValueSource, i int) types.Row {
				return types.Row{types.Int(req.StartID + int64(i))}
			})
		}
	}
	return spec
}

func TestSeeder_FailFast(t *testing.T) {
	var laterRan atomic.Bool
	specs := []*TableSpec{
		simpleSpec("a", nil),
		simpleSpec("b", func(context.Context, *GenContext, Request) (*types.Table, error) {
			return nil, errors.New("boom")
		}, "a"),
		simpleSpec("c", func(context.Context, *GenContext, Request) (*types.Table, error) {
			laterRan.Store(true)
			return nil, nil
		}, "b"),
	}
	sink := newMemorySink()
	opts := testOptions(t, 15, planner.Targets{"a": 5, "b": 5, "c": 5}, sink)

	s, err := newWithSpecs(specs, opts)
	require.NoError(t, err)
	_, err = s.Run(context.Background())

	require.Error(t, err)
	assert.EqualError(t, err, "stage 1 (b): table b: boom")
	assert.False(t, laterRan.Load(), "no stage may start after a failure")
	assert.Equal(t, 5, sink.table(t, "T_a").Len())
}

func TestSeeder_Cycle(t *testing.T) {
	specs := []*TableSpec{simpleSpec("x", nil, "y"), simpleSpec("y", nil, "x")}
	_, err := newWithSpecs(specs, testOptions(t, 0, planner.Targets{}, newMemorySink()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestSeeder_Canceled(t *testing.T) {
	targets, err := planner.Allocate(1000, testWeights())
	require.NoError(t, err)
	s, err := New(testOptions(t, 1000, targets, newMemorySink()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeGeography struct{}

func uf(id int64, sigla string) geography.UF {
	return geography.UF{ID: id, Sigla: sigla, Nome: sigla}
}

func municipio(id int64, name string, state geography.UF) geography.Municipio {
	m := geography.Municipio{ID: id, Nome: name}
	m.Microrregiao.Mesorregiao.UF = state
	return m
}

var (
	sp = uf(35, "SP")
	rj = uf(33, "RJ")
)

func (fakeGeography) States(context.Context) ([]geography.UF, error) {
	return []geography.UF{sp, rj}, nil
}

func (fakeGeography) Cities(context.Context) ([]geography.Municipio, error) {
	return []geography.Municipio{
		municipio(3550308, "São Paulo", sp),
		municipio(3304557, "Rio de Janeiro", rj),
		municipio(9999999, "Sem Estado", uf(99, "XX")),
	}, nil
}

func (fakeGeography) Districts(context.Context) ([]geography.Distrito, error) {
	return []geography.Distrito{
		{ID: 1, Nome: "Sé", Municipio: municipio(3550308, "São Paulo", sp)},
		{ID: 2, Nome: "Copacabana", Municipio: municipio(3304557, "Rio de Janeiro", rj)},
		{ID: 3, Nome: "Perdido", Municipio: municipio(9999999, "Sem Estado", uf(99, "XX"))},
	}, nil
}

func TestSeeder_RemoteGeography(t *testing.T) {
	sink := newMemorySink()
	// Remote tables run without a target; their size comes from the source.
	opts := testOptions(t, 0, planner.Targets{planner.Street: 10}, sink)
	opts.Geography = fakeGeography{}
	opts.Dialing = geography.NewDialingCodes(map[int64]int{3550308: 11})

	s, err := New(opts)
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)

	states := sink.table(t, "T_RHSTU_ESTADO")
	assert.ElementsMatch(t, []int64{35, 33}, states.Ints("ID_ESTADO"))

	cities := sink.table(t, "T_RHSTU_CIDADE")
	assert.ElementsMatch(t, []int64{3550308, 3304557}, cities.Ints("ID_CIDADE"), "cities without a state are dropped")
	assert.Equal(t, []int64{11, 11}, cities.Ints("NR_DDD"), "missing codes fall back to a known one")

	hoods := sink.table(t, "T_RHSTU_BAIRRO")
	assert.Equal(t, []int64{0, 1}, hoods.Ints("ID_BAIRRO"))
	assertRefs(t, hoods, "ID_CIDADE", cities, "ID_CIDADE")

	streets := sink.table(t, "T_RHSTU_LOGRADOURO")
	assert.Equal(t, 10, streets.Len())
	assertRefs(t, streets, "ID_BAIRRO", hoods, "ID_BAIRRO")
}

type fakeMedicines struct {
	meds  []catalog.Medicine
	limit int
}

func (f *fakeMedicines) FetchMedicines(_ context.Context, limit int) ([]catalog.Medicine, error) {
	f.limit = limit
	return f.meds, nil
}

func TestSeeder_MedicineShortfall(t *testing.T) {
	source := &fakeMedicines{meds: catalog.Normalize([]catalog.Medication{
		{IDProduto: 30, NomeProduto: "DIPIRONA", NumeroRegistro: "100"},
		{IDProduto: 10, NomeProduto: "AMOXICILINA", NumeroRegistro: "200"},
		{IDProduto: 20, NomeProduto: "O'BRIEN FORTE", NumeroRegistro: "300"},
	})}
	sink := newMemorySink()
	opts := testOptions(t, 0, planner.Targets{planner.Medicine: 8}, sink)
	opts.Medicines = source

	s, err := New(opts)
	require.NoError(t, err)
	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, source.limit)
	medicines := sink.table(t, "T_RHSTU_MEDICAMENTO")
	assert.Equal(t, []int64{0, 1, 2}, medicines.Ints("ID_MEDICAMENTO"))
	assert.Equal(t, 3, summary.Tables[planner.Medicine])
}

func TestSummary_Print(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	(&Summary{Target: 10_000, Produced: 9_500, TopUp: 0, Elapsed: 1500 * time.Millisecond, RunID: "run-1"}).Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Generated: 9,500 of 10,000 (95.00%)")
	assert.Contains(t, out, "Remaining: 500")
	assert.Contains(t, out, "Run:       run-1")
	assert.NotContains(t, out, "Top-up")
}
