package seeder

import (
	"context"
	"fmt"

	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/types"
)

var (
	biologicalSex = []string{"M", "F"}
	education     = []string{"Ensino Fundamental", "Ensino Médio", "Ensino Superior", "Pós-graduação"}
	maritalStatus = []string{"Solteiro", "Casado", "Divorciado", "Viúvo"}
	bloodGroups   = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	contactKinds  = []string{"Pessoal", "Trabalho", "Emergência"}
	emailKinds    = []string{"Pessoal", "Trabalho"}
	phoneKinds    = []string{"CELULAR", "COMERCIAL", "CONTATO OU RECADO", "RESIDENCIAL"}
)

// brazilDDI is the country calling code stamped on every phone number.
const brazilDDI = 55

func patientSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Patient,
		Physical: "T_RHSTU_PACIENTE",
		Key:      "ID_PACIENTE",
		Columns: withAudit("ID_PACIENTE", "NM_PACIENTE", "NR_CPF", "NM_RG", "DT_NASCIMENTO",
			"FL_SEXO_BIOLOGICO", "DS_ESCOLARIDADE", "DS_ESTADO_CIVIL", "NM_GRUPO_SANGUINEO",
			"NR_ALTURA", "NR_PESO"),
		Retain: []string{"ID_PACIENTE"},
		Gen:    genPatients,
	}
}

func genPatients(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	return gc.rows(ctx, patientSpec(), req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(req.StartID+int64(i)),
			types.Text(vs.Name()),
			types.Text(vs.CPF()),
			types.Text(vs.RG()),
			types.Time(vs.Date(birthFrom, birthTo)),
			types.Text(vs.Pick(biologicalSex)),
			types.Text(vs.Pick(education)),
			types.Text(vs.Pick(maritalStatus)),
			types.Text(vs.Pick(bloodGroups)),
			types.Float(float64(vs.Between(140, 200))/100),
			types.Int(int64(vs.Between(40, 130))),
		)
	})
}

func contactTypeSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.ContactType,
		Physical: "T_RHSTU_TIPO_CONTATO",
		Key:      "ID_TIPO_CONTATO",
		Columns:  withAudit("ID_TIPO_CONTATO", "NM_TIPO_CONTATO", "DT_INICIO", "DT_FIM"),
		Retain:   []string{"ID_TIPO_CONTATO"},
		Gen:      genContactTypes,
	}
}

func genContactTypes(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	return gc.rows(ctx, contactTypeSpec(), req, func(vs *ValueSource, i int) types.Row {
		id := req.StartID + int64(i)
		return gc.row(
			types.Int(id),
			types.Text(contactKinds[id%int64(len(contactKinds))]),
			types.Time(vs.Date(recentFrom, recentTo)),
			types.Time(vs.Date(recentTo, futureTo)),
		)
	})
}

func patientContactSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.PatientContact,
		Physical: "T_RHSTU_CONTATO_PACIENTE",
		Key:      "ID_CONTATO",
		Columns: withAudit("ID_PACIENTE", "ID_CONTATO", "ID_TIPO_CONTATO", "NM_CONTATO",
			"NR_DDI", "NR_DDD", "NR_TELEFONE"),
		Deps: []string{planner.Patient, planner.ContactType},
		Gen:  genPatientContacts,
	}
}

func genPatientContacts(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	patients, err := gc.Parent(planner.Patient)
	if err != nil {
		return nil, err
	}
	kinds, err := gc.Parent(planner.ContactType)
	if err != nil {
		return nil, err
	}
	ddds, err := gc.dialingCodes()
	if err != nil {
		return nil, err
	}
	patientIDs := patients.Ints("ID_PACIENTE")
	kindIDs := kinds.Ints("ID_TIPO_CONTATO")

	return gc.rows(ctx, patientContactSpec(), req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(patientIDs[vs.Intn(len(patientIDs))]),
			types.Int(req.StartID+int64(i)),
			types.Int(kindIDs[vs.Intn(len(kindIDs))]),
			types.Text(vs.Name()),
			types.Int(brazilDDI),
			types.Int(int64(ddds[vs.Intn(len(ddds))])),
			types.Text(fmt.Sprint(vs.Phone())),
		)
	})
}

func patientEmailSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.PatientEmail,
		Physical: "T_RHSTU_EMAIL_PACIENTE",
		Key:      "ID_EMAIL",
		Columns:  withAudit("ID_EMAIL", "ID_PACIENTE", "DS_EMAIL", "TP_EMAIL", "ST_EMAIL"),
		Deps:     []string{planner.Patient},
		Gen:      genPatientEmails,
	}
}

func genPatientEmails(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	patients, err := gc.Parent(planner.Patient)
	if err != nil {
		return nil, err
	}
	patientIDs := patients.Ints("ID_PACIENTE")

	return gc.rows(ctx, patientEmailSpec(), req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(req.StartID+int64(i)),
			types.Int(patientIDs[vs.Intn(len(patientIDs))]),
			types.Text(vs.Email()),
			types.Text(vs.Pick(emailKinds)),
			types.Text(vs.Pick(activeInactive)),
		)
	})
}

func patientPhoneSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.PatientPhone,
		Physical: "T_RHSTU_TELEFONE_PACIENTE",
		Key:      "ID_TELEFONE",
		Columns: withAudit("ID_PACIENTE", "ID_TELEFONE", "NR_DDI", "NR_DDD", "NR_TELEFONE",
			"TP_TELEFONE", "ST_TELEFONE"),
		Deps: []string{planner.Patient},
		Gen:  genPatientPhones,
	}
}

func genPatientPhones(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	patients, err := gc.Parent(planner.Patient)
	if err != nil {
		return nil, err
	}
	ddds, err := gc.dialingCodes()
	if err != nil {
		return nil, err
	}
	patientIDs := patients.Ints("ID_PACIENTE")

	return gc.rows(ctx, patientPhoneSpec(), req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(patientIDs[vs.Intn(len(patientIDs))]),
			types.Int(req.StartID+int64(i)),
			types.Int(brazilDDI),
			types.Int(int64(ddds[vs.Intn(len(ddds))])),
			types.Int(vs.Phone()),
			types.Text(vs.Pick(phoneKinds)),
			types.Text(vs.Pick(activeInactive)),
		)
	})
}

func patientAddressSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.PatientAddress,
		Physical: "T_RHSTU_ENDERECO_PACIENTE",
		Key:      "ID_ENDERECO",
		Columns: withAudit("ID_ENDERECO", "ID_PACIENTE", "ID_LOGRADOURO", "NR_LOGRADOURO",
			"DS_COMPLEMENTO_NUMERO", "DS_PONTO_REFERENCIA", "DT_INICIO", "DT_FIM"),
		Deps: []string{planner.Patient, planner.Street},
		Gen:  genPatientAddresses,
	}
}

func genPatientAddresses(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	patients, err := gc.Parent(planner.Patient)
	if err != nil {
		return nil, err
	}
	streets, err := gc.Parent(planner.Street)
	if err != nil {
		return nil, err
	}
	patientIDs := patients.Ints("ID_PACIENTE")
	streetIDs := streets.Ints("ID_LOGRADOURO")

	return gc.rows(ctx, patientAddressSpec(), req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(req.StartID+int64(i)),
			types.Int(patientIDs[vs.Intn(len(patientIDs))]),
			types.Int(streetIDs[vs.Intn(len(streetIDs))]),
			types.Int(int64(vs.Between(1, 9999))),
			types.Text(vs.Pick(complements)),
			types.Text(vs.Pick(landmarks)),
			types.Time(vs.Date(recentFrom, recentTo)),
			types.Time(vs.Date(recentTo, futureTo)),
		)
	})
}
