package common

import "testing"

// buildTable constructs a HuffmanTable from length counts and the
// symbols in code order, mirroring a DHT segment's layout.
func buildTable(bits [16]int, values []byte) *HuffmanTable {
	h := &HuffmanTable{Bits: bits, Values: values}
	h.Build()
	return h
}

func TestHuffmanRoundTrip(t *testing.T) {
	// Three symbols: one of length 2, two of length 3.
	bits := [16]int{0, 1, 2}
	values := []byte{0x05, 0x07, 0x09}
	h := buildTable(bits, values)

	// Canonical codes: length 2 -> 00; length 3 -> 010, 011.
	cases := []struct {
		code   []int
		symbol byte
	}{
		{[]int{0, 0}, 0x05},
		{[]int{0, 1, 0}, 0x07},
		{[]int{0, 1, 1}, 0x09},
	}

	for _, c := range cases {
		bitstream := make([]byte, 0, 1)
		var cur byte
		var nbits int
		for _, b := range c.code {
			cur = cur<<1 | byte(b)
			nbits++
		}
		for nbits < 8 {
			cur <<= 1
			nbits++
		}
		bitstream = append(bitstream, cur)

		r := NewBitReader(bitstream)
		got, ok := h.Decode(r)
		if !ok {
			t.Fatalf("code %v: Decode failed", c.code)
		}
		if got != c.symbol {
			t.Errorf("code %v: got symbol %#x, want %#x", c.code, got, c.symbol)
		}
	}
}

func TestHuffmanUniqueSymbols(t *testing.T) {
	bits := [16]int{2, 0, 1}
	values := []byte{0x01, 0x02, 0x03}
	h := buildTable(bits, values)

	seen := map[byte]bool{}
	for _, v := range h.Values {
		if seen[v] {
			t.Fatalf("symbol %#x appears more than once in table", v)
		}
		seen[v] = true
	}
}

func TestSignExtend(t *testing.T) {
	cases := []struct {
		length, bits, want int
	}{
		{0, 0, 0},
		{1, 0, -1},
		{1, 1, 1},
		{2, 0, -3},
		{2, 3, 3},
		{11, 0, -2047},
		{11, (1 << 11) - 1, 2047},
	}

	for _, c := range cases {
		got := SignExtend(c.length, c.bits)
		if got != c.want {
			t.Errorf("SignExtend(%d, %d) = %d, want %d", c.length, c.bits, got, c.want)
		}
	}
}
