package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structset/domain/core"
	"structset/domain/design"
)

func TestBoltConstruction(t *testing.T) {
	record, err := BoltFactory{}.New(design.Params{
		"d_f": 20.0, "grade": "8.8", "threads_included": true,
	})
	require.NoError(t, err)

	bolt := record.(*Bolt)
	assert.Equal(t, "M20_8.8", bolt.Name)
	assert.Equal(t, "M20", bolt.Designation)
	assert.Equal(t, "8.8/S", bolt.Category)
	assert.True(t, bolt.ThreadsIncluded)
	assert.Equal(t, 22.0, bolt.HoleDiameter)

	shank := math.Pi / 4 * 400
	assert.InDelta(t, 0.62*shank, bolt.CoreArea, 1e-9)
	assert.InDelta(t, 0.78*shank, bolt.TensileArea, 1e-9)
	// threads in the shear plane use the core area
	assert.InDelta(t, 0.8*0.62*830*bolt.CoreArea/1000, bolt.ShearCapacity, 1e-9)
	assert.InDelta(t, 0.8*830*bolt.TensileArea/1000, bolt.TensileCapacity, 1e-9)
}

func TestBoltThreadsExcluded(t *testing.T) {
	record, err := BoltFactory{}.New(design.Params{"d_f": 20, "grade": "4.6"})
	require.NoError(t, err)

	bolt := record.(*Bolt)
	assert.False(t, bolt.ThreadsIncluded)
	shank := math.Pi / 4 * 400
	assert.InDelta(t, 0.8*0.62*400*shank/1000, bolt.ShearCapacity, 1e-9)
}

func TestBoltInvalidInputs(t *testing.T) {
	_, err := BoltFactory{}.New(design.Params{"d_f": -1.0, "grade": "8.8"})
	assert.Error(t, err)

	_, err = BoltFactory{}.New(design.Params{"d_f": "twenty", "grade": "8.8"})
	assert.Error(t, err)

	_, err = BoltFactory{}.New(design.Params{"d_f": 20.0, "grade": "10.9"})
	assert.Error(t, err)
}

func TestBoltAttribute(t *testing.T) {
	record, err := BoltFactory{}.New(design.Params{
		"d_f": 12.0, "grade": "4.6", "category": "4.6/X",
	})
	require.NoError(t, err)

	for _, name := range (BoltFactory{}).ReportAttributes() {
		v, err := record.Attribute(name)
		require.NoError(t, err, name)
		assert.NotNil(t, v, name)
	}

	cat, err := record.Attribute("bolt_cat")
	require.NoError(t, err)
	assert.Equal(t, "4.6/X", cat)

	_, err = record.Attribute("nonsense")
	assert.ErrorIs(t, err, core.ErrAttributeNotFound)
}
