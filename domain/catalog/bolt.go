// Package catalog carries the built-in reference components the command-line
// tools can generate libraries for. Components implement the generate.Factory
// and generate.Record interfaces; their engineering formulas are deliberately
// simple and are not validated here beyond construction.
package catalog

import (
	"fmt"
	"math"

	"structset/domain/core"
	"structset/domain/design"
	"structset/domain/generate"
)

// Bolt is one structural bolt instance with its section properties and
// design capacities.
type Bolt struct {
	Name            string
	Designation     string // e.g. "M20"
	Category        string // e.g. "8.8/S"
	ThreadsIncluded bool
	Diameter        float64 // shank diameter d_f, mm
	HoleDiameter    float64 // standard hole d_h, mm
	CoreArea        float64 // shear plane area, mm^2
	TensileArea     float64 // tensile stress area, mm^2
	ShearCapacity   float64 // phiV_f, kN
	TensileCapacity float64 // phiN_tf, kN
}

// Attribute reads one reportable attribute by name.
func (b *Bolt) Attribute(name string) (interface{}, error) {
	switch name {
	case "name":
		return b.Name, nil
	case "bolt_des":
		return b.Designation, nil
	case "bolt_cat":
		return b.Category, nil
	case "threads_included":
		return b.ThreadsIncluded, nil
	case "d_f":
		return b.Diameter, nil
	case "d_h":
		return b.HoleDiameter, nil
	case "phiV_f":
		return b.ShearCapacity, nil
	case "phiN_tf":
		return b.TensileCapacity, nil
	default:
		return nil, core.NewAttributeNotFoundError(name)
	}
}

// boltGrades maps grade designation to ultimate tensile strength, MPa.
var boltGrades = map[string]float64{
	"4.6": 400,
	"8.8": 830,
}

// BoltFactory builds bolts from design variables d_f, grade, category and
// threads_included.
type BoltFactory struct{}

// ReportAttributes advertises the default report columns.
func (BoltFactory) ReportAttributes() []string {
	return []string{
		"name", "bolt_des", "bolt_cat", "threads_included",
		"d_f", "d_h", "phiV_f", "phiN_tf",
	}
}

// New constructs one bolt. Unknown grades and non-positive diameters are
// construction failures; the generator skips them and carries on.
func (BoltFactory) New(p design.Params) (generate.Record, error) {
	d, ok := asFloat(p["d_f"])
	if !ok || d <= 0 {
		return nil, fmt.Errorf("invalid bolt diameter: %v", p["d_f"])
	}
	grade, _ := p["grade"].(string)
	fuf, ok := boltGrades[grade]
	if !ok {
		return nil, fmt.Errorf("unknown bolt grade: %v", p["grade"])
	}
	category, _ := p["category"].(string)
	if category == "" {
		category = grade + "/S"
	}
	threads, _ := p["threads_included"].(bool)

	shank := math.Pi / 4 * d * d
	coreArea := 0.62 * shank
	tensileArea := 0.78 * shank
	shearArea := shank
	if threads {
		shearArea = coreArea
	}

	// Capacity reduction factor 0.8 per AS 4100 bolt design.
	const phi = 0.8
	b := &Bolt{
		Name:            fmt.Sprintf("M%.0f_%s", d, grade),
		Designation:     fmt.Sprintf("M%.0f", d),
		Category:        category,
		ThreadsIncluded: threads,
		Diameter:        d,
		HoleDiameter:    d + 2,
		CoreArea:        coreArea,
		TensileArea:     tensileArea,
		ShearCapacity:   phi * 0.62 * fuf * shearArea / 1000,
		TensileCapacity: phi * fuf * tensileArea / 1000,
	}
	return b, nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
