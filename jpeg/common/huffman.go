package common

// HuffmanTable is a canonical Huffman table as defined by a DHT segment:
// for each code length 1..16, the symbols of that length in the order
// they appeared in the file (Values, grouped by Bits[length-1]) and the
// canonical codes assigned to them (spec.md §3, §4.3).
type HuffmanTable struct {
	Bits   [16]int // number of codes of each length, 1..16
	Values []byte  // symbols in code order, grouped by length

	minCode [16]int32
	maxCode [16]int32
	valPtr  [16]int32
	Set     bool
}

// Build assigns canonical codes to h.Values per spec.md §4.3: starting
// from code 0, each length's codes are consecutive, and the code space
// shifts left by one bit between lengths.
func (h *HuffmanTable) Build() {
	code := int32(0)
	p := 0
	for l := 0; l < 16; l++ {
		if h.Bits[l] == 0 {
			h.maxCode[l] = -1
		} else {
			h.valPtr[l] = int32(p)
			h.minCode[l] = code
			p += h.Bits[l]
			code += int32(h.Bits[l])
			h.maxCode[l] = code - 1
		}
		code <<= 1
	}
	h.Set = true
}

// Decode reads the next Huffman symbol from r using table h: one bit at a
// time, accumulating a code value, checking after each bit whether it
// falls within that length's assigned code range (spec.md §4.3).
func (h *HuffmanTable) Decode(r *BitReader) (byte, bool) {
	code := int32(0)
	for l := 0; l < 16; l++ {
		bit := r.ReadBit()
		if bit == -1 {
			return 0, false
		}
		code = (code << 1) | int32(bit)

		if h.maxCode[l] >= 0 && code <= h.maxCode[l] && code >= h.minCode[l] {
			idx := h.valPtr[l] + (code - h.minCode[l])
			if idx >= 0 && int(idx) < len(h.Values) {
				return h.Values[idx], true
			}
		}
	}
	return 0, false
}

// SignExtend implements the JPEG amplitude-category rule (spec.md §4.4,
// the sign-extension law tested in §8 property 7): given a category
// length and its raw bits, returns the signed value in
// [-(2^length-1), -2^(length-1)] ∪ [2^(length-1), 2^length-1], or 0 when
// length is 0.
func SignExtend(length, bits int) int {
	if length == 0 {
		return 0
	}
	if bits < (1 << uint(length-1)) {
		return bits - (1 << uint(length)) + 1
	}
	return bits
}
