// Package design models combinatorial design spaces for structural component
// libraries. A Space owns an ordered set of design variables and derives the
// full Cartesian expansion of their candidate values; every downstream
// generation and verification step consumes that expansion.
package design

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/floats"

	"structset/domain/core"
)

// Params is one concrete assignment of every design variable to a single
// candidate value.
type Params map[string]interface{}

// Variable is one named design variable with its ordered candidate values.
type Variable struct {
	Name   string
	Values []interface{}
}

// Space owns the design variables and their derived Cartesian expansion.
// The expansion is recomputed synchronously on construction and after every
// mutation; it is never partially stale.
type Space struct {
	variables []Variable
	expansion []Params
}

// NewSpace creates a space from ordered design variables and expands it.
// An empty variable list yields an empty expansion, not an error.
func NewSpace(variables ...Variable) *Space {
	s := &Space{variables: append([]Variable(nil), variables...)}
	s.expand()
	return s
}

// FromJSON loads a design-variable specification from a JSON document of the
// shape {"variable": [values...], ...}. Declaration order in the document is
// preserved as the variable order.
func FromJSON(filename string) (*Space, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open design variable file: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadJSON parses a design-variable document from a reader, preserving the
// declared variable order.
func ReadJSON(r io.Reader) (*Space, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse design variables: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("design variable document must be a JSON object of arrays")
	}

	var variables []Variable
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse design variables: %w", err)
		}
		name := keyTok.(string)

		var values []interface{}
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("failed to parse values for variable %q: %w", name, err)
		}
		variables = append(variables, Variable{Name: name, Values: values})
	}

	return NewSpace(variables...), nil
}

// Variables returns a copy of the variable declarations in order.
func (s *Space) Variables() []Variable {
	return append([]Variable(nil), s.variables...)
}

// Expansion returns the Cartesian expansion: one Params per combination,
// first-declared variable varying slowest.
func (s *Space) Expansion() []Params {
	return s.expansion
}

// Size returns the number of parameter records in the expansion.
func (s *Space) Size() int {
	return len(s.expansion)
}

// Replace applies a transform to every candidate value of one variable, then
// rebuilds the full expansion. Unknown variable names are fatal.
func (s *Space) Replace(name string, transform func(interface{}) interface{}) error {
	for i := range s.variables {
		if s.variables[i].Name != name {
			continue
		}
		for j, v := range s.variables[i].Values {
			s.variables[i].Values[j] = transform(v)
		}
		s.expand()
		return nil
	}
	return core.NewVariableNotFoundError(name)
}

// Merge concatenates the expansions of multiple spaces, preserving each
// space's internal order and the space order. No deduplication.
func Merge(spaces ...*Space) []Params {
	var merged []Params
	for _, sp := range spaces {
		merged = append(merged, sp.expansion...)
	}
	return merged
}

// ValueFunction builds descending per-variable preference weights: the first
// candidate of an N-value variable scores 1, the last scores 1/N.
func (s *Space) ValueFunction() map[string]map[interface{}]float64 {
	fn := make(map[string]map[interface{}]float64, len(s.variables))
	for _, v := range s.variables {
		n := len(v.Values)
		scores := make(map[interface{}]float64, n)
		switch n {
		case 0:
		case 1:
			scores[v.Values[0]] = 1
		default:
			weights := make([]float64, n)
			floats.Span(weights, 1, 1/float64(n))
			for i, val := range v.Values {
				scores[val] = weights[i]
			}
		}
		fn[v.Name] = scores
	}
	return fn
}

// expand recomputes the Cartesian product with an odometer walk: the
// rightmost-declared variable cycles fastest.
func (s *Space) expand() {
	if len(s.variables) == 0 {
		s.expansion = nil
		return
	}

	total := 1
	for _, v := range s.variables {
		total *= len(v.Values)
	}
	if total == 0 {
		s.expansion = nil
		return
	}

	expansion := make([]Params, 0, total)
	odometer := make([]int, len(s.variables))
	for {
		p := make(Params, len(s.variables))
		for i, v := range s.variables {
			p[v.Name] = v.Values[odometer[i]]
		}
		expansion = append(expansion, p)

		i := len(odometer) - 1
		for ; i >= 0; i-- {
			odometer[i]++
			if odometer[i] < len(s.variables[i].Values) {
				break
			}
			odometer[i] = 0
		}
		if i < 0 {
			break
		}
	}
	s.expansion = expansion
}
