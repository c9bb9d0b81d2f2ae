// Package simd provides SIMD-flavored byte and substring search primitives
// used by the classifier's specialized fast-path scanners: Literal,
// QuotedString, and the LiteralPlus* shapes all bottom out in Memchr/Memmem
// here instead of a byte-by-byte Go loop.
//
// The package probes CPU features via golang.org/x/sys/cpu, mirroring
// coregx/coregex's simd package, but always executes the portable SWAR
// (SIMD-within-a-register) code path: AVX2 acceleration in the pack this
// was grounded on lives in hand-written amd64 assembly that this module
// does not carry (see DESIGN.md). SWAR already processes 8 bytes per
// iteration via uint64 bitwise tricks, which is a meaningful improvement
// over a naive loop.
package simd

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// Features reports which CPU-accelerated code paths are available on the
// current machine. Matching behavior never depends on this — it exists so
// callers/tests can assert what the runtime detected, exactly as the
// teacher's simd package exposes hasAVX2 for its own dispatch.
type Features struct {
	AVX2 bool
}

// DetectFeatures probes the CPU once and returns the detected features.
func DetectFeatures() Features {
	return Features{AVX2: cpu.X86.HasAVX2}
}

// Memchr returns the index of the first occurrence of needle in haystack,
// or -1 if absent.
func Memchr(haystack []byte, needle byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	mask := uint64(needle) * 0x0101010101010101
	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		x := chunk ^ mask
		// Zero-byte detection: a byte is zero iff (x-0x01..01) & ^x & 0x80..80 != 0.
		y := (x - 0x0101010101010101) & ^x & 0x8080808080808080
		if y != 0 {
			return i + bits.TrailingZeros64(y)/8
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// Memchr2 returns the index of the first occurrence of either needle1 or
// needle2 in haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	for i := 0; i < n; i++ {
		if haystack[i] == needle1 || haystack[i] == needle2 {
			return i
		}
	}
	return -1
}

// IsASCII reports whether every byte in data is < 0x80.
func IsASCII(data []byte) bool {
	n := len(data)
	i := 0
	for ; i+8 <= n; i += 8 {
		if binary.LittleEndian.Uint64(data[i:])&0x8080808080808080 != 0 {
			return false
		}
	}
	for ; i < n; i++ {
		if data[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Memmem returns the index of the first occurrence of needle in haystack,
// or -1 if absent. Empty needle matches at offset 0, mirroring bytes.Index.
//
// Algorithm (grounded on coregx-coregex/simd/memmem.go): pick the rarest
// byte of needle (its last byte, a cheap and effective heuristic), scan for
// candidate positions of that byte with Memchr, and verify each candidate.
func Memmem(haystack, needle []byte) int {
	nLen, hLen := len(needle), len(haystack)
	if nLen == 0 {
		return 0
	}
	if hLen == 0 || nLen > hLen {
		return -1
	}
	if nLen == 1 {
		return Memchr(haystack, needle[0])
	}

	rareIdx := nLen - 1
	rareByte := needle[rareIdx]

	searchStart := 0
	for {
		cand := Memchr(haystack[searchStart:], rareByte)
		if cand == -1 {
			return -1
		}
		cand += searchStart

		start := cand - rareIdx
		if start < 0 || start+nLen > hLen {
			searchStart = cand + 1
			if searchStart >= hLen {
				return -1
			}
			continue
		}

		if bytesEqual(haystack[start:start+nLen], needle) {
			return start
		}
		searchStart = cand + 1
		if searchStart >= hLen {
			return -1
		}
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
