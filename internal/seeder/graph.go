package seeder

import (
	"fmt"
	"sort"
)

type DependencyGraph struct {
	tables map[string]*TableSpec
	order  []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		tables: make(map[string]*TableSpec),
	}
}

func (g *DependencyGraph) AddTable(table *TableSpec) {
	g.tables[table.Name] = table
}

func (g *DependencyGraph) names() []string {
	names := make([]string, 0, len(g.tables))
	for name := range g.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildInsertionOrder returns a topological order, parents first.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("circular dependency detected involving table: %s", tableName)
		}
		if visited[tableName] {
			return nil
		}

		table, ok := g.tables[tableName]
		if !ok {
			return fmt.Errorf("unknown table referenced: %s", tableName)
		}

		temp[tableName] = true
		for _, dep := range table.Deps {
			if dep != tableName { // Skip self-references
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	for _, tableName := range g.names() {
		if !visited[tableName] {
			if err := visit(tableName); err != nil {
				return nil, err
			}
		}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) GetOrder() []string {
	return g.order
}

// BuildStages groups tables by level: a table's level is one more than the
// highest level among its dependencies. Tables in a stage are sorted by name.
func (g *DependencyGraph) BuildStages() ([][]string, error) {
	order, err := g.BuildInsertionOrder()
	if err != nil {
		return nil, err
	}

	level := make(map[string]int, len(order))
	depth := 0
	for _, name := range order {
		l := 0
		for _, dep := range g.tables[name].Deps {
			if dep != name && level[dep]+1 > l {
				l = level[dep] + 1
			}
		}
		level[name] = l
		depth = max(depth, l+1)
	}

	stages := make([][]string, depth)
	for _, name := range order {
		stages[level[name]] = append(stages[level[name]], name)
	}
	for _, s := range stages {
		sort.Strings(s)
	}
	return stages, nil
}
