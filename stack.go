package fiber

import "unsafe"

// PointerWidth is the size in bytes of a native pointer on this platform, the
// "word" size used throughout the stack layout contract.
const PointerWidth = unsafe.Sizeof(uintptr(0))

// Alignment is the minimum alignment, in bytes, that a Stack's memory must
// satisfy. It mirrors the ABI requirement of at least two pointer widths.
const Alignment = PointerWidth * 2

// SizeMinimum is the smallest stack size this runtime accepts, enough room
// for the bookkeeping a Task keeps alongside its watermark sentinel.
const SizeMinimum = Alignment * 4

// sentinelByte is the fill pattern written into unused stack space so that
// StackUsage and StackOverflow can later reconstruct how deep a stack grew.
// 0xA5 is the classic embedded-RTOS stack-canary byte (e.g. FreeRTOS'
// tskSTACK_FILL_BYTE), chosen so the pattern reads the same on this port as
// it would on the bare-metal target this library was ported from.
const sentinelByte = 0xA5

// A Stack is a fixed-capacity, aligned memory region a Task uses for its
// watermark and overflow bookkeeping.
//
// On the bare-metal target this library was ported from, a Stack<N> is the
// actual memory a fiber executes on and the context switch swaps the CPU
// stack pointer into it. Go does not expose a stack pointer to user code, so
// in this port a Task instead runs on a real goroutine stack managed by the
// Go runtime; Stack remains a real, caller-owned, sized and aligned buffer
// so that the watermark/overflow contract (§4.2) and the capacity/alignment
// contract (§4.1) still hold, exercised independently of whatever stack the
// goroutine itself happens to be using.
//
// A Stack must be unique per Task; no sharing.
type Stack struct {
	raw    []byte
	memory []byte
}

// NewStack allocates a Stack with capacity for at least size bytes, aligned
// to Alignment. It panics if size is below SizeMinimum.
func NewStack(size uintptr) *Stack {
	if size < SizeMinimum {
		panic("fiber: stack size below SizeMinimum")
	}
	raw := make([]byte, size+Alignment-1)
	base := uintptr(unsafe.Pointer(&raw[0]))
	offset := alignUp(base, Alignment) - base
	s := &Stack{raw: raw, memory: raw[offset : offset+size]}
	s.fillSentinel()
	return s
}

func alignUp(v, align uintptr) uintptr {
	return (v + align - 1) &^ (align - 1)
}

// Memory returns the stack's backing byte slice, base first.
func (s *Stack) Memory() []byte { return s.memory }

// Words returns the stack's capacity in pointer-sized words.
func (s *Stack) Words() uintptr { return uintptr(len(s.memory)) / PointerWidth }

// Size returns the stack's capacity in bytes.
func (s *Stack) Size() uintptr { return uintptr(len(s.memory)) }

func (s *Stack) fillSentinel() {
	mem := s.memory
	for i := range mem {
		mem[i] = sentinelByte
	}
}

// usage returns the number of bytes from the bottom of the stack up to, but
// not including, the first intact sentinel word.
func (s *Stack) usage() uintptr {
	mem := s.memory
	n := uintptr(len(mem))
	word := PointerWidth
	for off := uintptr(0); off+word <= n; off += word {
		if isSentinelWord(mem[off : off+word]) {
			return off
		}
	}
	return n
}

// overflowed reports whether the bottom word of the stack no longer holds
// the sentinel pattern.
func (s *Stack) overflowed() bool {
	word := PointerWidth
	if uintptr(len(s.memory)) < word {
		return false
	}
	return !isSentinelWord(s.memory[:word])
}

func isSentinelWord(w []byte) bool {
	for _, b := range w {
		if b != sentinelByte {
			return false
		}
	}
	return true
}
