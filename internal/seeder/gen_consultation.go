package seeder

import (
	"context"
	"strconv"

	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/types"
)

var (
	paymentMethods = [][2]string{
		{"Dinheiro", "Pagamento em espécie no balcão"},
		{"Cartão de Crédito", "Crédito à vista ou parcelado"},
		{"Cartão de Débito", "Débito em conta no ato"},
		{"PIX", "Transferência instantânea"},
		{"Boleto", "Boleto bancário com vencimento em 3 dias"},
		{"Convênio", "Cobrança direta ao plano de saúde"},
	}
	paymentStatus = []string{"Ativo", "Inativo"}
	paidStatus    = []string{"PAGO", "PENDENTE", "CANCELADO", "ESTORNADO"}
)

func consultationSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Consultation,
		Physical: "T_RHSTU_CONSULTA",
		Key:      "ID_CONSULTA",
		Columns: withAudit("ID_UNID_HOSPITAL", "ID_CONSULTA", "ID_PACIENTE", "ID_FUNC",
			"DT_HR_CONSULTA", "NR_CONSULTORIO"),
		Deps:   []string{planner.Hospital, planner.Patient, planner.Doctor},
		Retain: []string{"ID_CONSULTA", "ID_UNID_HOSPITAL"},
		Gen:    genConsultations,
	}
}

func genConsultations(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	hospitals, err := gc.Parent(planner.Hospital)
	if err != nil {
		return nil, err
	}
	patients, err := gc.Parent(planner.Patient)
	if err != nil {
		return nil, err
	}
	doctors, err := gc.Parent(planner.Doctor)
	if err != nil {
		return nil, err
	}
	hospitalIDs := hospitals.Ints("ID_UNID_HOSPITAL")
	patientIDs := patients.Ints("ID_PACIENTE")
	doctorIDs := doctors.Ints("ID_FUNC")

	return gc.rows(ctx, consultationSpec(), req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(hospitalIDs[vs.Intn(len(hospitalIDs))]),
			types.Int(req.StartID+int64(i)),
			types.Int(patientIDs[vs.Intn(len(patientIDs))]),
			types.Int(doctorIDs[vs.Intn(len(doctorIDs))]),
			types.Time(vs.Date(recentFrom, recentTo)),
			types.Text(strconv.Itoa(vs.Between(1, 99))),
		)
	})
}

func paymentMethodSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.PaymentMethod,
		Physical: "T_RHSTU_FORMA_PAGAMENTO",
		Key:      "ID_FORMA_PAGTO",
		Columns:  withAudit("ID_FORMA_PAGTO", "NM_FORMA_PAGTO", "DS_FORMA_PAGTO", "ST_FORMA_PAGTO"),
		Retain:   []string{"ID_FORMA_PAGTO"},
		Gen:      genPaymentMethods,
	}
}

func genPaymentMethods(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	return gc.rows(ctx, paymentMethodSpec(), req, func(vs *ValueSource, i int) types.Row {
		id := req.StartID + int64(i)
		m := paymentMethods[id%int64(len(paymentMethods))]
		return gc.row(
			types.Int(id),
			types.Text(m[0]),
			types.Text(m[1]),
			types.Text(vs.Pick(paymentStatus)),
		)
	})
}

func consultationPaymentSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.ConsultationPayment,
		Physical: "T_RHSTU_CONSULTA_FORMA_PAGTO",
		Key:      "ID_CONSULTA_FORMA_PAGTO",
		Columns: withAudit("ID_CONSULTA_FORMA_PAGTO", "ID_UNID_HOSPITAL", "ID_CONSULTA",
			"ID_PACIENTE_PS", "ID_FORMA_PAGTO", "DT_PAGTO_CONSULTA", "ST_PAGTO_CONSULTA"),
		Deps: []string{planner.Consultation, planner.PatientHealthPlan, planner.PaymentMethod},
		Gen:  genConsultationPayments,
	}
}

// genConsultationPayments copies the hospital of the sampled consultation so
// the composite reference stays consistent.
func genConsultationPayments(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	consultations, err := gc.Parent(planner.Consultation)
	if err != nil {
		return nil, err
	}
	plans, err := gc.Parent(planner.PatientHealthPlan)
	if err != nil {
		return nil, err
	}
	methods, err := gc.Parent(planner.PaymentMethod)
	if err != nil {
		return nil, err
	}
	consultationCol := consultations.Col("ID_CONSULTA")
	hospitalCol := consultations.Col("ID_UNID_HOSPITAL")
	planIDs := plans.Ints("ID_PACIENTE_PS")
	methodIDs := methods.Ints("ID_FORMA_PAGTO")

	return gc.rows(ctx, consultationPaymentSpec(), req, func(vs *ValueSource, i int) types.Row {
		c := consultations.Rows[vs.Intn(consultations.Len())]
		return gc.row(
			types.Int(req.StartID+int64(i)),
			c[hospitalCol],
			c[consultationCol],
			types.Int(planIDs[vs.Intn(len(planIDs))]),
			types.Int(methodIDs[vs.Intn(len(methodIDs))]),
			types.Time(vs.Date(recentFrom, recentTo)),
			types.Text(vs.Pick(paidStatus)),
		)
	})
}
