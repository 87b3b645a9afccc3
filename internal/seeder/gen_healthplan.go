package seeder

import (
	"context"

	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/types"
)

var planTiers = []string{"Básico", "Enfermaria", "Apartamento", "Executivo", "Premium"}

func healthPlanSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.HealthPlan,
		Physical: "T_RHSTU_PLANO_SAUDE",
		Key:      "ID_PLANO_SAUDE",
		Columns: withAudit("ID_PLANO_SAUDE", "DS_RAZAO_SOCIAL", "NM_FANTASIA_PLANO_SAUDE",
			"DS_PLANO_SAUDE", "NR_CNPJ", "NM_CONTATO", "DS_TELEFONE", "DT_INICIO", "DT_FIM"),
		Retain: []string{"ID_PLANO_SAUDE"},
		Gen:    genHealthPlans,
	}
}

func genHealthPlans(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	return gc.rows(ctx, healthPlanSpec(), req, func(vs *ValueSource, i int) types.Row {
		company := vs.Company()
		return gc.row(
			types.Int(req.StartID+int64(i)),
			types.Text(company+" Saúde S.A."),
			types.Text(company+" Saúde"),
			types.Text("Plano "+vs.Pick(planTiers)),
			types.Text(vs.CNPJ()),
			types.Text(vs.Name()),
			types.Int(vs.Phone()),
			types.Time(vs.Date(recentFrom, recentTo)),
			types.Time(vs.Date(recentTo, futureTo)),
		)
	})
}

func patientHealthPlanSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.PatientHealthPlan,
		Physical: "T_RHSTU_PACIENTE_PLANO_SAUDE",
		Key:      "ID_PACIENTE_PS",
		Columns: withAudit("ID_PACIENTE_PS", "ID_PACIENTE", "ID_PLANO_SAUDE", "NR_CARTEIRA_PS",
			"DT_INICIO", "DT_FIM"),
		Deps:   []string{planner.Patient, planner.HealthPlan},
		Retain: []string{"ID_PACIENTE_PS"},
		Gen:    genPatientHealthPlans,
	}
}

func genPatientHealthPlans(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	patients, err := gc.Parent(planner.Patient)
	if err != nil {
		return nil, err
	}
	plans, err := gc.Parent(planner.HealthPlan)
	if err != nil {
		return nil, err
	}
	patientIDs := patients.Ints("ID_PACIENTE")
	planIDs := plans.Ints("ID_PLANO_SAUDE")

	return gc.rows(ctx, patientHealthPlanSpec(), req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(req.StartID+int64(i)),
			types.Int(patientIDs[vs.Intn(len(patientIDs))]),
			types.Int(planIDs[vs.Intn(len(planIDs))]),
			types.Text(vs.digits(16)),
			types.Time(vs.Date(recentFrom, recentTo)),
			types.Time(vs.Date(recentTo, futureTo)),
		)
	})
}
