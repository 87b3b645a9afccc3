package seeder

import (
	"context"
	"fmt"

	"github.com/Rana718/hospigen/internal/planner"
	"github.com/Rana718/hospigen/internal/types"
	"go.uber.org/zap"
)

var brazilianStates = [][2]string{
	{"AC", "Acre"}, {"AL", "Alagoas"}, {"AP", "Amapá"}, {"AM", "Amazonas"},
	{"BA", "Bahia"}, {"CE", "Ceará"}, {"DF", "Distrito Federal"}, {"ES", "Espírito Santo"},
	{"GO", "Goiás"}, {"MA", "Maranhão"}, {"MT", "Mato Grosso"}, {"MS", "Mato Grosso do Sul"},
	{"MG", "Minas Gerais"}, {"PA", "Pará"}, {"PB", "Paraíba"}, {"PR", "Paraná"},
	{"PE", "Pernambuco"}, {"PI", "Piauí"}, {"RJ", "Rio de Janeiro"}, {"RN", "Rio Grande do Norte"},
	{"RS", "Rio Grande do Sul"}, {"RO", "Rondônia"}, {"RR", "Roraima"}, {"SC", "Santa Catarina"},
	{"SP", "São Paulo"}, {"SE", "Sergipe"}, {"TO", "Tocantins"},
}

var (
	zones              = []string{"CENTRO", "ZONA LESTE", "ZONA NORTE", "ZONA OESTE", "ZONA SUL"}
	neighborhoodPrefix = []string{"Jardim", "Vila", "Parque", "Conjunto", "Alto do", "Recanto"}
	streetPrefix       = []string{"Rua", "Avenida", "Travessa", "Alameda", "Praça"}
)

func stateSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.State,
		Physical: "T_RHSTU_ESTADO",
		Key:      "ID_ESTADO",
		Columns:  withAudit("ID_ESTADO", "SG_ESTADO", "NM_ESTADO"),
		Retain:   []string{"ID_ESTADO"},
		Gen:      genStates,
	}
}

func genStates(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	spec := stateSpec()
	if gc.Geography != nil {
		return remoteStates(ctx, gc, spec)
	}
	return gc.rows(ctx, spec, req, func(vs *ValueSource, i int) types.Row {
		id := req.StartID + int64(i)
		uf := brazilianStates[id%int64(len(brazilianStates))]
		name := uf[1]
		if round := id / int64(len(brazilianStates)); round > 0 {
			name = fmt.Sprintf("%s %d", name, round)
		}
		return gc.row(types.Int(id), types.Text(uf[0]), types.Text(name))
	})
}

func remoteStates(ctx context.Context, gc *GenContext, spec *TableSpec) (*types.Table, error) {
	states, err := gc.Geography.States(ctx)
	if err != nil {
		return nil, err
	}
	t := types.NewTable(spec.Physical, spec.Columns, len(states))
	for _, uf := range states {
		t.Rows = append(t.Rows, gc.row(types.Int(uf.ID), types.Text(uf.Sigla), types.Text(uf.Nome)))
	}
	return t, nil
}

func citySpec() *TableSpec {
	return &TableSpec{
		Name:     planner.City,
		Physical: "T_RHSTU_CIDADE",
		Key:      "ID_CIDADE",
		Columns:  withAudit("ID_CIDADE", "ID_ESTADO", "NM_CIDADE", "CD_IBGE", "NR_DDD"),
		Deps:     []string{planner.State},
		Retain:   []string{"ID_CIDADE", "ID_ESTADO"},
		Gen:      genCities,
	}
}

func genCities(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	spec := citySpec()
	states, err := gc.Parent(planner.State)
	if err != nil {
		return nil, err
	}
	if gc.Dialing == nil {
		return nil, fmt.Errorf("%w: dialing codes are not loaded", ErrConfiguration)
	}
	ddds := gc.Dialing.All()

	if gc.Geography != nil {
		return remoteCities(ctx, gc, spec, states, ddds)
	}

	stateIDs := states.Ints("ID_ESTADO")
	return gc.rows(ctx, spec, req, func(vs *ValueSource, i int) types.Row {
		id := req.StartID + int64(i)
		return gc.row(
			types.Int(id),
			types.Int(stateIDs[vs.Intn(len(stateIDs))]),
			types.Text(vs.City()),
			types.Int(1_000_000+id),
			types.Int(int64(ddds[vs.Intn(len(ddds))])),
		)
	})
}

func remoteCities(ctx context.Context, gc *GenContext, spec *TableSpec, states *types.Table, ddds []int) (*types.Table, error) {
	cities, err := gc.Geography.Cities(ctx)
	if err != nil {
		return nil, err
	}
	known := states.IndexBy("ID_ESTADO")
	vs := NewValueSource(chunkSeed(gc.Seed, spec.Name, 0, 0))

	t := types.NewTable(spec.Physical, spec.Columns, len(cities))
	var orphans, missingDDD int
	for _, m := range cities {
		if _, ok := known[m.StateID()]; !ok {
			orphans++
			continue
		}
		ddd, ok := gc.Dialing.Lookup(m.ID)
		if !ok {
			missingDDD++
			ddd = ddds[vs.Intn(len(ddds))]
		}
		t.Rows = append(t.Rows, gc.row(
			types.Int(m.ID),
			types.Int(m.StateID()),
			types.Text(m.Nome),
			types.Int(m.ID),
			types.Int(int64(ddd)),
		))
	}
	if orphans > 0 || missingDDD > 0 {
		gc.Logger.Warn("remote cities adjusted",
			zap.Int("dropped_without_state", orphans),
			zap.Int("sampled_dialing_code", missingDDD))
	}
	return t, nil
}

func neighborhoodSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Neighborhood,
		Physical: "T_RHSTU_BAIRRO",
		Key:      "ID_BAIRRO",
		Columns:  withAudit("ID_BAIRRO", "ID_CIDADE", "NM_BAIRRO", "NM_ZONA_BAIRRO"),
		Deps:     []string{planner.City},
		Retain:   []string{"ID_BAIRRO", "ID_CIDADE"},
		Gen:      genNeighborhoods,
	}
}

func genNeighborhoods(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	spec := neighborhoodSpec()
	cities, err := gc.Parent(planner.City)
	if err != nil {
		return nil, err
	}

	if gc.Geography != nil {
		return remoteNeighborhoods(ctx, gc, spec, cities, req)
	}

	cityIDs := cities.Ints("ID_CIDADE")
	return gc.rows(ctx, spec, req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(req.StartID+int64(i)),
			types.Int(cityIDs[vs.Intn(len(cityIDs))]),
			types.Text(vs.Pick(neighborhoodPrefix)+" "+vs.LastName()),
			types.Text(vs.Pick(zones)),
		)
	})
}

func remoteNeighborhoods(ctx context.Context, gc *GenContext, spec *TableSpec, cities *types.Table, req Request) (*types.Table, error) {
	districts, err := gc.Geography.Districts(ctx)
	if err != nil {
		return nil, err
	}
	known := cities.IndexBy("ID_CIDADE")
	vs := NewValueSource(chunkSeed(gc.Seed, spec.Name, 0, 0))

	t := types.NewTable(spec.Physical, spec.Columns, len(districts))
	next := req.StartID
	for _, d := range districts {
		if _, ok := known[d.Municipio.ID]; !ok {
			continue
		}
		t.Rows = append(t.Rows, gc.row(
			types.Int(next),
			types.Int(d.Municipio.ID),
			types.Text(d.Nome),
			types.Text(vs.Pick(zones)),
		))
		next++
	}
	if dropped := len(districts) - t.Len(); dropped > 0 {
		gc.Logger.Warn("remote districts without a known city dropped", zap.Int("count", dropped))
	}
	return t, nil
}

func streetSpec() *TableSpec {
	return &TableSpec{
		Name:     planner.Street,
		Physical: "T_RHSTU_LOGRADOURO",
		Key:      "ID_LOGRADOURO",
		Columns:  withAudit("ID_LOGRADOURO", "ID_BAIRRO", "NM_LOGRADOURO", "NR_CEP"),
		Deps:     []string{planner.Neighborhood},
		Retain:   []string{"ID_LOGRADOURO", "ID_BAIRRO"},
		Gen:      genStreets,
	}
}

func genStreets(ctx context.Context, gc *GenContext, req Request) (*types.Table, error) {
	spec := streetSpec()
	neighborhoods, err := gc.Parent(planner.Neighborhood)
	if err != nil {
		return nil, err
	}
	ids := neighborhoods.Ints("ID_BAIRRO")

	return gc.rows(ctx, spec, req, func(vs *ValueSource, i int) types.Row {
		return gc.row(
			types.Int(req.StartID+int64(i)),
			types.Int(ids[vs.Intn(len(ids))]),
			types.Text(vs.Pick(streetPrefix)+" "+vs.StreetName()),
			types.Text(vs.CEP()),
		)
	})
}
