package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stefanpenner/tandem/pkg/store"
)

// ErrDependencyCycle is returned by OrderGoals when the dependency graph is not a DAG.
var ErrDependencyCycle = errors.New("dependency cycle")

// DependencyGraph is the prerequisite graph over a basket. Nodes are goal ids
// in basket order.
type DependencyGraph struct {
	Nodes []string               `json:"nodes"`
	Edges []store.DependencyEdge `json:"edges"`
}

type categoryPair struct {
	prerequisite store.Category
	dependent    store.Category
}

// dependencyRules maps prerequisite -> dependent category pairs to the reason
// shown to the user.
var dependencyRules = map[categoryPair]string{
	{store.CategoryFinancial, store.CategoryHome}:     "A savings cushion makes the down payment and closing costs reachable",
	{store.CategoryFinancial, store.CategoryBusiness}: "Personal finances should be stable before taking on business risk",
	{store.CategoryWedding, store.CategoryHome}:       "Couples often buy a home once the wedding is behind them",
	{store.CategoryLearning, store.CategoryBusiness}:  "Skills picked up first lower the cost of starting the business",
	{store.CategoryLearning, store.CategoryCareer}:    "New skills open the door to the career move",
	{store.CategoryFinancial, store.CategoryFamily}:   "An emergency fund should be in place before growing the family",
}

// categoryPriority breaks ties between goals that are ready at the same time.
// Lower goes first.
var categoryPriority = map[store.Category]int{
	store.CategoryFinancial:    1,
	store.CategoryLearning:     2,
	store.CategoryHealth:       3,
	store.CategoryRelationship: 4,
	store.CategoryWedding:      5,
	store.CategoryFamily:       6,
	store.CategoryHome:         7,
	store.CategoryCareer:       8,
	store.CategoryBusiness:     9,
	store.CategoryTravel:       10,
	store.CategoryCreative:     11,
	store.CategoryCustom:       12,
}

// CategoryPriority returns the ordering priority of c. Unknown categories sort last.
func CategoryPriority(c store.Category) int {
	if p, ok := categoryPriority[c]; ok {
		return p
	}
	return len(categoryPriority) + 1
}

// DependencyReason returns the reason a goal of category prerequisite should
// come before one of category dependent, if the pair is a known rule.
func DependencyReason(prerequisite, dependent store.Category) (string, bool) {
	reason, ok := dependencyRules[categoryPair{prerequisite, dependent}]
	return reason, ok
}

// BuildDependencyGraph derives prerequisite edges between the goals from the
// static category rules. Edges are ordered by prerequisite then dependent
// position in the basket.
func BuildDependencyGraph(goals []store.Goal) DependencyGraph {
	g := DependencyGraph{
		Nodes: make([]string, 0, len(goals)),
		Edges: []store.DependencyEdge{},
	}
	for _, goal := range goals {
		g.Nodes = append(g.Nodes, goal.ID)
	}

	for _, a := range goals {
		for _, b := range goals {
			if a.ID == b.ID {
				continue
			}
			if reason, ok := DependencyReason(a.Category, b.Category); ok {
				g.Edges = append(g.Edges, store.DependencyEdge{From: a.ID, To: b.ID, Reason: reason})
			}
		}
	}
	return g
}

// EdgesTouching returns the edges with id at either end.
func (g DependencyGraph) EdgesTouching(id string) []store.DependencyEdge {
	edges := []store.DependencyEdge{}
	for _, e := range g.Edges {
		if e.From == id || e.To == id {
			edges = append(edges, e)
		}
	}
	return edges
}

// Prerequisites returns the ids that must come before id.
func (g DependencyGraph) Prerequisites(id string) []string {
	var ids []string
	for _, e := range g.Edges {
		if e.To == id {
			ids = append(ids, e.From)
		}
	}
	return ids
}

// DetectCycle walks the graph depth first and reports the first cycle found
// as an error wrapping ErrDependencyCycle.
func DetectCycle(g DependencyGraph) error {
	adjacency := make(map[string][]string)
	for _, e := range g.Edges {
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}

	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, next := range adjacency[id] {
			if !visited[next] {
				if err := visit(next, path); err != nil {
					return err
				}
			} else if onStack[next] {
				return fmt.Errorf("%w: %s", ErrDependencyCycle, strings.Join(append(path, next), " -> "))
			}
		}

		onStack[id] = false
		return nil
	}

	for _, id := range g.Nodes {
		if !visited[id] {
			if err := visit(id, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// OrderGoals sorts the goals topologically. Among goals whose prerequisites
// are all placed, the lowest category priority goes first, then basket order.
// Edges naming ids outside goals are ignored. If the graph has a cycle the
// goals are returned in basket order along with ErrDependencyCycle.
func OrderGoals(goals []store.Goal, g DependencyGraph) ([]string, error) {
	index := make(map[string]int, len(goals))
	var unique []store.Goal
	for _, goal := range goals {
		if _, dup := index[goal.ID]; dup {
			continue
		}
		index[goal.ID] = len(unique)
		unique = append(unique, goal)
	}

	known := DependencyGraph{Nodes: make([]string, 0, len(unique))}
	for _, goal := range unique {
		known.Nodes = append(known.Nodes, goal.ID)
	}
	for _, e := range g.Edges {
		_, fromOK := index[e.From]
		_, toOK := index[e.To]
		if fromOK && toOK && e.From != e.To {
			known.Edges = append(known.Edges, e)
		}
	}

	if err := DetectCycle(known); err != nil {
		return known.Nodes, err
	}

	inDegree := make([]int, len(unique))
	dependents := make([][]int, len(unique))
	for _, e := range known.Edges {
		from, to := index[e.From], index[e.To]
		dependents[from] = append(dependents[from], to)
		inDegree[to]++
	}

	var ready []int
	for i := range unique {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]string, 0, len(unique))
	for len(ready) > 0 {
		best := 0
		for k := 1; k < len(ready); k++ {
			if before(unique, ready[k], ready[best]) {
				best = k
			}
		}
		next := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		order = append(order, unique[next].ID)

		for _, d := range dependents[next] {
			inDegree[d]--
			if inDegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	return order, nil
}

// OptimalGoalOrder is OrderGoals without the cycle error; a cyclic graph
// yields basket order.
func OptimalGoalOrder(goals []store.Goal, g DependencyGraph) []string {
	order, _ := OrderGoals(goals, g)
	return order
}

func before(goals []store.Goal, i, j int) bool {
	pi, pj := CategoryPriority(goals[i].Category), CategoryPriority(goals[j].Category)
	if pi != pj {
		return pi < pj
	}
	return i < j
}
