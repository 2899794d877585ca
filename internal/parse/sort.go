package parse

import (
	"fmt"
	"strings"

	"github.com/Plork/PSDepend/internal/dependency"
)

// sortByDependsOn orders dependencies so that every DependsOn prerequisite
// appears before its dependents. The sort is stable: records with no
// ordering constraint between them keep their parsed order. References are
// matched against dependency keys, case-insensitively, across all parsed
// files. Unknown references and cycles are errors.
func sortByDependsOn(deps []dependency.Dependency) ([]dependency.Dependency, error) {
	if len(deps) <= 1 {
		return deps, nil
	}

	index := make(map[string]int, len(deps))
	for i, d := range deps {
		index[strings.ToLower(d.Key)] = i
	}

	// Kahn's algorithm over declaration order keeps the sort stable.
	indegree := make([]int, len(deps))
	dependents := make([][]int, len(deps))
	for i, d := range deps {
		for _, ref := range d.DependsOn {
			j, ok := index[strings.ToLower(ref)]
			if !ok {
				return nil, fmt.Errorf("dependency %q (in %s) depends on unknown dependency %q", d.Key, d.DefinitionFile, ref)
			}
			dependents[j] = append(dependents[j], i)
			indegree[i]++
		}
	}

	out := make([]dependency.Dependency, 0, len(deps))
	done := make([]bool, len(deps))
	for len(out) < len(deps) {
		progressed := false
		for i := range deps {
			if done[i] || indegree[i] > 0 {
				continue
			}
			out = append(out, deps[i])
			done[i] = true
			progressed = true
			for _, dep := range dependents[i] {
				indegree[dep]--
			}
		}
		if !progressed {
			var stuck []string
			for i, d := range deps {
				if !done[i] {
					stuck = append(stuck, d.Key)
				}
			}
			return nil, fmt.Errorf("circular DependsOn chain involving: %s", strings.Join(stuck, ", "))
		}
	}
	return out, nil
}
