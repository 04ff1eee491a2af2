package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orus-lang/orus/internal/regfile"
	"github.com/orus-lang/orus/internal/value"
)

func TestSnapshotRestoreWindowRoundTrips(t *testing.T) {
	f := regfile.New()
	f.Write(frameWindowBase, value.I32(7))
	f.Write(frameWindowBase+1, value.I32(8))

	snap := snapshotWindow(f)

	f.Write(frameWindowBase, value.I32(999))
	assert.Equal(t, int32(999), mustI32(f.Read(frameWindowBase)))

	restoreWindow(f, snap)
	assert.Equal(t, int32(7), mustI32(f.Read(frameWindowBase)))
	assert.Equal(t, int32(8), mustI32(f.Read(frameWindowBase+1)))
}

func TestClearWindowZeroesFrameAndTempBands(t *testing.T) {
	f := regfile.New()
	f.Write(frameWindowBase, value.I32(1))
	f.Write(frameWindowBase+regfile.FrameSize, value.I32(2)) // first temp-band slot

	clearWindow(f)

	assert.Equal(t, value.Nil, f.Read(frameWindowBase))
	assert.Equal(t, value.Nil, f.Read(frameWindowBase+regfile.FrameSize))
}

func TestClearWindowLeavesGlobalBandUntouched(t *testing.T) {
	f := regfile.New()
	f.Write(0, value.I32(42))

	clearWindow(f)

	assert.Equal(t, int32(42), mustI32(f.Read(0)))
}

func mustI32(v value.Value) int32 {
	n, _ := v.AsI32()
	return n
}
