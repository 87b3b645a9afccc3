package seeder

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rana718/hospigen/internal/catalog"
	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/types"
	"go.uber.org/zap"
)

var (
	dosageForms = []string{"comprimido", "cápsula", "xarope", "solução injetável", "pomada", "gotas"}
	strengths   = []string{"5mg", "10mg", "25mg", "50mg", "100mg", "250mg", "500mg", "1g"}
	posology    = []string{
		"1 comprimido a cada 8 horas",
		"1 comprimido a cada 12 horas",
		"2 comprimidos ao dia após as refeições",
		"10 gotas 3 vezes ao dia",
		"Aplicar 1 vez ao dia",
		"5 ml a cada 6 horas",
	}
	routes       = []string{"Oral", "Intravenosa", "Intramuscular", "Subcutânea", "Tópica", "Sublingual"}
	usageRemarks = []string{
		"Tomar com água",
		"Não ingerir bebida alcoólica",
		"Suspender em caso de reação alérgica",
		"Manter em local fresco",
		"Uso contínuo",
	}
)

func medicineSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Medicine,
		Physical: "T_RHSTU_MEDICAMENTO",
		Key:      "ID_MEDICAMENTO",
		Columns:  withAudit("ID_MEDICAMENTO", "NM_MEDICAMENTO", "DS_DETALHADA_MEDICAMENTO", "NR_CODIGO_BARRAS"),
		Retain:   []string{"ID_MEDICAMENTO"},
		Gen:      genMedicines,
	}
}

// genMedicines uses the external catalog when one is configured. A catalog
// smaller than the target is a declared shortfall, not an error.
func genMedicines(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	spec := medicineSpec()
	if gc.Medicines == nil {
		return gc.rows(ctx, spec, req, func(vs *ValueSource, i int) types.Row {
			name := fmt.Sprintf("%s %s", strings.ToUpper(vs.Word()), vs.Pick(strengths))
			return gc.row(
				types.Int(req.StartID+int64(i)),
				types.Text(name),
				types.Text(fmt.Sprintf("%s em %s", name, vs.Pick(dosageForms))),
				types.Text(vs.digits(13)),
			)
		})
	}

	meds, err := gc.Medicines.FetchMedicines(ctx, req.Target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medicine catalog: %w", err)
	}
	if len(meds) < req.Target {
		gc.Logger.Warn("medicine catalog shortfall",
			zap.Int("target", req.Target),
			zap.Int("available", len(meds)))
	}
	return medicineTable(gc, spec, req, meds), nil
}

func medicineTable(gc *GenContext, spec *TableSpec, req Request, meds []catalog.Medicine) *types.Table {
	t := types.NewTable(spec.Physical, spec.Columns, len(meds))
	for _, m := range meds {
		t.Rows = append(t.Rows, gc.row(
			types.Int(req.StartID+m.ID),
			types.Text(m.Name),
			types.Text(m.Description),
			types.Text(m.Barcode),
		))
	}
	return t
}

func prescriptionSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Prescription,
		Physical: "T_RHSTU_PRESCRICAO_MEDICA",
		Key:      "ID_PRESCRICAO_MEDICA",
		Columns: withAudit("ID_PRESCRICAO_MEDICA", "ID_UNID_HOSPITAL", "ID_CONSULTA", "ID_MEDICAMENTO",
			"DS_POSOLOGIA", "DS_VIA", "DS_OBSERVACAO_USO", "QT_MEDICAMENTO"),
		Deps: []string{planner.Consultation, planner.Medicine},
		Gen:  genPrescriptions,
	}
}

func genPrescriptions(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	consultations, err := gc.Parent(planner.Consultation)
	if err != nil {
		return nil, err
	}
	medicines, err := gc.Parent(planner.Medicine)
	if err != nil {
		return nil, err
	}
	consultationCol := consultations.Col("ID_CONSULTA")
	hospitalCol := consultations.Col("ID_UNID_HOSPITAL")
	medicineIDs := medicines.Ints("ID_MEDICAMENTO")

	return gc.rows(ctx, prescriptionSpec(), req, func(vs *ValueSource, i int) types.Row {
		c := consultations.Rows[vs.Intn(consultations.Len())]
		return gc.row(
			types.Int(req.StartID+int64(i)),
			c[hospitalCol],
			c[consultationCol],
			types.Int(medicineIDs[vs.Intn(len(medicineIDs))]),
			types.Text(vs.Pick(posology)),
			types.Text(vs.Pick(routes)),
			types.Text(vs.Pick(usageRemarks)),
			types.Int(int64(vs.Between(1, 100))),
		)
	})
}
