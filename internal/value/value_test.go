package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualNilOnlyEqualsItself(t *testing.T) {
	assert.True(t, Equal(Nil, Nil))
	assert.False(t, Equal(Nil, I32(0)))
	assert.False(t, Equal(Nil, Bool(false)))
}

func TestEqualFloatNaNNeverEqual(t *testing.T) {
	nan := F64(math.NaN())
	assert.False(t, Equal(nan, nan))
}

func TestEqualFloatBitExact(t *testing.T) {
	assert.True(t, Equal(F64(1.5), F64(1.5)))
	assert.False(t, Equal(F64(1.5), F64(1.5000001)))
}

func TestEqualStringsStructural(t *testing.T) {
	a := FromObject(NewStringObject("hi"))
	b := FromObject(NewStringObject("hi"))
	assert.True(t, Equal(a, b))
}

func TestEqualClosuresPointerIdentity(t *testing.T) {
	c1 := FromObject(NewClosureObject(nil, "f", 0, nil))
	c2 := FromObject(NewClosureObject(nil, "f", 0, nil))
	assert.False(t, Equal(c1, c2))
	assert.True(t, Equal(c1, c1))
}

func TestToStringArray(t *testing.T) {
	arr := FromObject(NewArrayObject([]Value{I32(1), I32(2), I32(3)}))
	assert.Equal(t, "[1, 2, 3]", ToString(arr))
}

func TestToStringScalars(t *testing.T) {
	assert.Equal(t, "true", ToString(Bool(true)))
	assert.Equal(t, "nil", ToString(Nil))
	assert.Equal(t, "14", ToString(I32(14)))
}

func TestCoerceIntToIntValuePreserving(t *testing.T) {
	v, err := CoerceIntToInt(I64(42), KindI32)
	require.NoError(t, err)
	n, _ := v.AsI32()
	assert.Equal(t, int32(42), n)
}

func TestCoerceIntToIntOverflowErrors(t *testing.T) {
	_, err := CoerceIntToInt(I64(math.MaxInt32+1), KindI32)
	require.Error(t, err)
}

func TestCoerceFloatToIntTruncatesTowardZero(t *testing.T) {
	v, err := CoerceFloatToInt(F64(-3.9), KindI32)
	require.NoError(t, err)
	n, _ := v.AsI32()
	assert.Equal(t, int32(-3), n)
}

func TestCoerceFloatToIntNaNErrors(t *testing.T) {
	_, err := CoerceFloatToInt(F64(math.NaN()), KindI32)
	require.Error(t, err)
}

func TestCoerceBoolInt(t *testing.T) {
	v, _ := CoerceBoolToInt(Bool(true))
	n, _ := v.AsI32()
	assert.Equal(t, int32(1), n)

	b, _ := CoerceIntToBool(I32(0))
	bv, _ := b.AsBool()
	assert.False(t, bv)
}

func TestCoerceSignedUnsignedSameWidth(t *testing.T) {
	v, err := CoerceSignedUnsigned(I32(-1), KindU32)
	require.NoError(t, err)
	u, _ := v.AsU32()
	assert.Equal(t, uint32(math.MaxUint32), u)
}
