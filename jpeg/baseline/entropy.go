package baseline

import (
	"github.com/cocosip/go-jpeg-baseline/jpeg/common"
)

// decodeMCUs walks the entropy payload MCU-by-MCU, raster order, per
// spec.md §4.4. Entropy decoding is strictly serial: each component's DC
// coefficient is predicted from its own running total across the whole
// scan, so MCU N cannot be decoded before MCU N-1 of the same component.
func (ctx *DecodeContext) decodeMCUs() ([]MCU, error) {
	r := common.NewBitReader(ctx.entropy)
	mcus := make([]MCU, ctx.MCUWidth*ctx.MCUHeight)
	prevDC := make([]int, ctx.NumComponents)

	for i := range mcus {
		for c := 0; c < ctx.NumComponents; c++ {
			comp := &ctx.Components[c]
			block := mcus[i].At(c)

			diff, err := ctx.decodeDC(r, comp)
			if err != nil {
				return nil, err
			}
			prevDC[c] += diff
			block[0] = int32(prevDC[c])

			if err := ctx.decodeAC(r, comp, block); err != nil {
				return nil, err
			}
		}
	}

	return mcus, nil
}

func (ctx *DecodeContext) decodeDC(r *common.BitReader, comp *Component) (int, error) {
	table := &ctx.DCTables[comp.DCTableID]
	sym, ok := table.Decode(r)
	if !ok {
		return 0, common.NewError(ctx.SessionID, "decodeDC", common.BitstreamError, "undecodable DC Huffman code", nil)
	}

	length := int(sym)
	if length > 11 {
		return 0, common.NewError(ctx.SessionID, "decodeDC", common.BitstreamError, "DC amplitude category exceeds 11", nil)
	}

	bits := r.ReadBits(length)
	if length > 0 && bits == -1 {
		return 0, common.NewError(ctx.SessionID, "decodeDC", common.BitstreamError, "entropy payload exhausted reading DC bits", nil)
	}

	return common.SignExtend(length, bits), nil
}

func (ctx *DecodeContext) decodeAC(r *common.BitReader, comp *Component, block *[64]int32) error {
	table := &ctx.ACTables[comp.ACTableID]

	k := 1
	for k < 64 {
		sym, ok := table.Decode(r)
		if !ok {
			return common.NewError(ctx.SessionID, "decodeAC", common.BitstreamError, "undecodable AC Huffman code", nil)
		}

		run := int(sym >> 4)
		length := int(sym & 0x0F)

		if length == 0 {
			if run == 15 {
				k += 16 // ZRL
				continue
			}
			break // EOB
		}
		if length > 10 {
			return common.NewError(ctx.SessionID, "decodeAC", common.BitstreamError, "AC amplitude category exceeds 10", nil)
		}

		k += run
		if k >= 64 {
			return common.NewError(ctx.SessionID, "decodeAC", common.BitstreamError, "AC zero run overruns the block", nil)
		}

		bits := r.ReadBits(length)
		if bits == -1 {
			return common.NewError(ctx.SessionID, "decodeAC", common.BitstreamError, "entropy payload exhausted reading AC bits", nil)
		}

		block[common.ZigZag[k]] = int32(common.SignExtend(length, bits))
		k++
	}

	return nil
}
