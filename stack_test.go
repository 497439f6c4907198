package fiber

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNewStackMinimumSize(t *testing.T) {
	require.Panics(t, func() { NewStack(0) })
	require.Panics(t, func() { NewStack(SizeMinimum - 1) })
	require.NotPanics(t, func() { NewStack(SizeMinimum) })
}

func TestStackAlignment(t *testing.T) {
	s := NewStack(256)
	require.Equal(t, uintptr(0), uintptr(unsafe.Pointer(&s.Memory()[0]))%Alignment)
}

func TestStackWatermarkUsage(t *testing.T) {
	s := NewStack(256)
	require.False(t, s.overflowed())
	require.Equal(t, uintptr(0), s.usage())

	mem := s.Memory()
	for i := range mem[:64] {
		mem[i] = 0x42
	}
	require.GreaterOrEqual(t, s.usage(), uintptr(64))

	s.fillSentinel()
	require.Equal(t, uintptr(0), s.usage())
}

func TestStackOverflowDetection(t *testing.T) {
	s := NewStack(256)
	mem := s.Memory()
	mem[0] = 0
	require.True(t, s.overflowed())
}
