package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/types"
)

var (
	birthFrom  = time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC)
	birthTo    = time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC)
	recentFrom = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	recentTo   = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	futureTo   = time.Date(2035, 12, 31, 0, 0, 0, 0, time.UTC)

	complements    = []string{"Bloco A", "Bloco B", "Sala 1", "Sala 12", "Andar 3", "Fundos", "Loja 2", "Casa 2"}
	landmarks      = []string{"Próximo ao metrô", "Em frente à praça", "Ao lado do mercado", "Esquina com a avenida", "Perto da escola"}
	specialties    = []string{"Cardiologia", "Pediatria", "Ortopedia", "Dermatologia", "Neurologia", "Clínica Geral", "Ginecologia", "Oftalmologia", "Psiquiatria", "Oncologia"}
	cnhCategories  = []string{"A", "B", "C", "D", "E"}
	activeInactive = []string{"A", "I"}
)

func hospitalSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Hospital,
		Physical: "T_RHSTU_UNID_HOSPITALAR",
		Key:      "ID_UNID_HOSPITAL",
		Columns: withAudit("ID_UNID_HOSPITAL", "NM_UNID_HOSPITALAR", "NM_RAZAO_SOCIAL_UNID_HOSP",
			"DT_FUNDACAO", "NR_LOGRADOURO", "DS_COMPLEMENTO_NUMERO", "DS_PONTO_REFERENCIA",
			"DT_INICIO", "DT_TERMINO"),
		Retain: []string{"ID_UNID_HOSPITAL"},
		Gen:    genHospitals,
	}
}

func genHospitals(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	return gc.rows(ctx, hospitalSpec(), req, func(vs *ValueSource, i int) types.Row {
		company := vs.Company()
		founded := vs.Date(birthFrom, recentFrom)
		return gc.row(
			types.Int(req.StartID+int64(i)),
			types.Text("Hospital "+company),
			types.Text(company+" Serviços Médicos"),
			types.Time(founded),
			types.Int(int64(vs.Between(1, 9999))),
			types.Text(vs.Pick(complements)),
			types.Text(vs.Pick(landmarks)),
			types.Time(founded),
			types.Time(vs.Date(recentTo, futureTo)),
		)
	})
}

func hospitalAddressSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.HospitalAddress,
		Physical: "T_RHSTU_ENDERECO_UNIDHOSP",
		Key:      "ID_END_UNIDHOSP",
		Columns: withAudit("ID_END_UNIDHOSP", "ID_UNID_HOSPITAL", "ID_LOGRADOURO", "ID_CIDADE", "ID_ESTADO",
			"NR_LOGRADOURO", "DS_COMPLEMENTO_NUMERO", "DS_PONTO_REFERENCIA", "DT_INICIO", "DT_FIM"),
		Deps: []string{planner.Hospital, planner.Street, planner.Neighborhood, planner.City},
		Gen:  genHospitalAddresses,
	}
}

// genHospitalAddresses gives hospital i its address i. The city and state are
// derived from the sampled street through its neighborhood, never sampled on
// their own.
func genHospitalAddresses(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	hospitals, err := gc.Parent(planner.Hospital)
	if err != nil {
		return nil, err
	}
	if int(req.StartID)+req.Target > hospitals.Len() {
		return nil, fmt.Errorf("%w: %d hospital addresses requested for %d hospitals",
			ErrConfiguration, int(req.StartID)+req.Target, hospitals.Len())
	}
	streets, err := gc.Parent(planner.Street)
	if err != nil {
		return nil, err
	}
	neighborhoods, err := gc.Parent(planner.Neighborhood)
	if err != nil {
		return nil, err
	}
	cities, err := gc.Parent(planner.City)
	if err != nil {
		return nil, err
	}

	hospitalIDs := hospitals.Ints("ID_UNID_HOSPITAL")
	streetIDs := streets.Ints("ID_LOGRADOURO")
	streetHood := streets.Ints("ID_BAIRRO")
	hoodByID := neighborhoods.IndexBy("ID_BAIRRO")
	hoodCity := neighborhoods.Col("ID_CIDADE")
	cityByID := cities.IndexBy("ID_CIDADE")
	cityState := cities.Col("ID_ESTADO")

	return gc.rows(ctx, hospitalAddressSpec(), req, func(vs *ValueSource, i int) types.Row {
		id := req.StartID + int64(i)
		s := vs.Intn(len(streetIDs))
		city := neighborhoods.Rows[hoodByID[streetHood[s]]][hoodCity]
		state := cities.Rows[cityByID[city.AsInt()]][cityState]
		return gc.row(
			types.Int(id),
			types.Int(hospitalIDs[id]),
			types.Int(streetIDs[s]),
			city,
			state,
			types.Int(int64(vs.Between(1, 9999))),
			types.Text(vs.Pick(complements)),
			types.Text(vs.Pick(landmarks)),
			types.Time(vs.Date(recentFrom, recentTo)),
			types.Time(vs.Date(recentTo, futureTo)),
		)
	})
}

func employeeSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Employee,
		Physical: "T_RHSTU_FUNCIONARIO",
		Key:      "ID_FUNC",
		Columns: withAudit("ID_FUNC", "ID_SUPERIOR", "NM_FUNC", "DS_CARGO", "DT_NASCIMENTO",
			"VL_SALARIO", "NR_RG", "NR_CPF", "ST_FUNC"),
		Deps:   []string{planner.Employee},
		Retain: []string{"ID_FUNC"},
		Gen:    genEmployees,
	}
}

// genEmployees fills the employee id pool consumed by doctors and drivers.
// A supervisor is any employee with a lower id; the first employee
// supervises itself.
func genEmployees(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	t, err := gc.rows(ctx, employeeSpec(), req, func(vs *ValueSource, i int) types.Row {
		id := req.StartID + int64(i)
		supervisor := id
		if id > 0 {
			supervisor = int64(vs.Intn(int(id)))
		}
		return gc.row(
			types.Int(id),
			types.Int(supervisor),
			types.Text(vs.Name()),
			types.Text(vs.JobTitle()),
			types.Time(vs.Date(birthFrom, birthTo)),
			types.Float(float64(vs.Between(100_000, 1_000_000))/100),
			types.Text(vs.RG()),
			types.Text(vs.CPF()),
			types.Text(vs.Pick(activeInactive)),
		)
	})
	if err != nil {
		return nil, err
	}
	gc.Employees.Add(t.Ints("ID_FUNC")...)
	return t, nil
}

func doctorSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Doctor,
		Physical: "T_RHSTU_MEDICO",
		Key:      "ID_FUNC",
		Columns:  withAudit("ID_FUNC", "NR_CRM", "DS_ESPECIALIDADE"),
		Deps:     []string{planner.Employee},
		Retain:   []string{"ID_FUNC"},
		Gen:      genDoctors,
	}
}

// genDoctors takes its ids from the front of the employee pool.
func genDoctors(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	ids, err := gc.Employees.Take(req.Target)
	if err != nil {
		return nil, fmt.Errorf("doctors: %w", err)
	}
	return gc.rows(ctx, doctorSpec(), req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(ids[i]),
			types.Int(int64(vs.Between(100_000, 999_999))),
			types.Text(vs.Pick(specialties)),
		)
	})
}

func driverSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Driver,
		Physical: "T_RHSTU_MOTORISTA",
		Key:      "ID_FUNC",
		Columns:  withAudit("ID_FUNC", "NR_CNH", "NM_CATEGORIA_CNH", "DT_VALIDADE_CNH"),
		Deps:     []string{planner.Employee},
		Gen:      genDrivers,
	}
}

// genDrivers takes its ids from the back of the employee pool.
func genDrivers(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	ids, err := gc.Employees.TakeLast(req.Target)
	if err != nil {
		return nil, fmt.Errorf("drivers: %w", err)
	}
	return gc.rows(ctx, driverSpec(), req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(ids[i]),
			types.Text(vs.digits(11)),
			types.Text(vs.Pick(cnhCategories)),
			types.Time(vs.Date(recentTo, futureTo)),
		)
	})
}
