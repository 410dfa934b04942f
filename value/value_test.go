package value_test

import (
	"math"
	"testing"

	"github.com/arvidw/vela/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "nil", value.KindNil.String())
	assert.Equal(t, "table", value.KindTable.String())
	assert.Equal(t, "unknown", value.Kind(0xFF).String())
}

func TestIsNaN(t *testing.T) {
	assert.True(t, value.Float64(math.NaN()).IsNaN())
	assert.True(t, value.Float32(float32(math.NaN())).IsNaN())
	assert.False(t, value.Int(1).IsNaN())
	assert.False(t, value.Float64(0).IsNaN())
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, value.Int(1).IsNumeric())
	assert.True(t, value.Float32(1).IsNumeric())
	assert.True(t, value.Float64(1).IsNumeric())
	assert.False(t, value.String("x").IsNumeric())
	assert.False(t, value.Nil.IsNumeric())
}

func TestIdentityDistinguishesTablesByPointer(t *testing.T) {
	t1 := value.NewTable()
	t2 := value.NewTable()

	v1 := value.FromTable(t1)
	v2 := value.FromTable(t2)

	assert.NotEqual(t, v1.Identity(), v2.Identity())
	assert.Equal(t, v1.Identity(), value.FromTable(t1).Identity())
}

func TestIdentityForScalarsIsValueEquality(t *testing.T) {
	a := value.String("x")
	b := value.String("x")

	assert.Equal(t, a.Identity(), b.Identity())
}

func TestTableIsArrayDetection(t *testing.T) {
	arr := value.NewArray(value.Int(1), value.Int(2), value.Int(3))
	assert.True(t, arr.IsArray())

	m := value.NewTable()
	m.Set(value.String("x"), value.Int(1))
	assert.False(t, m.IsArray())

	sparse := value.NewTable()
	sparse.Set(value.Int(1), value.Int(10))
	sparse.Set(value.Int(3), value.Int(30))
	assert.False(t, sparse.IsArray())
}

func TestTableSetOverwritesExistingKey(t *testing.T) {
	tbl := value.NewTable()
	tbl.Set(value.String("k"), value.Int(1))
	tbl.Set(value.String("k"), value.Int(2))

	require.Equal(t, 1, tbl.Len())

	v, ok := tbl.Get(value.String("k"))
	require.True(t, ok)
	assert.Equal(t, int64(2), v.IntVal())
}

func TestTableAppendBuildsArray(t *testing.T) {
	tbl := value.NewTable()
	tbl.Append(value.Int(10))
	tbl.Append(value.Int(20))

	require.True(t, tbl.IsArray())
	vals := tbl.ArrayValues()
	require.Len(t, vals, 2)
	assert.Equal(t, int64(10), vals[0].IntVal())
	assert.Equal(t, int64(20), vals[1].IntVal())
}

func TestEmptyTableIsArray(t *testing.T) {
	assert.True(t, value.NewTable().IsArray())
}
