// Package bmp serializes a decoded MCU grid as an uncompressed 24-bit
// BMP, the BITMAPCOREHEADER variant described in spec.md §6.
package bmp

import (
	"encoding/binary"
	"io"

	"github.com/cocosip/go-jpeg-baseline/jpeg/baseline"
	"github.com/cocosip/go-jpeg-baseline/jpeg/common"
)

const (
	fileHeaderSize = 14
	dibHeaderSize  = 12
	pixelOffset    = fileHeaderSize + dibHeaderSize
)

// WriteBMP writes ctx's decoded pixels (mcus, already color-converted by
// Decode) to w as a 24-bit BMP: "BM" signature, 14-byte file header,
// 12-byte BITMAPCOREHEADER, then pixel rows bottom-to-top, BGR, each row
// padded to a 4-byte boundary.
//
// Row padding uses (4 - (3*w) mod 4) mod 4 — the corrected formula; the
// source's `(w%4)*h` both multiplies by the wrong factor and applies it
// to the whole image instead of per row (spec.md §9 note #3).
func WriteBMP(w io.Writer, ctx *baseline.DecodeContext, mcus []baseline.MCU) error {
	width, height := ctx.Width, ctx.Height
	rowPadding := rowPaddingBytes(width)
	rowBytes := width*3 + rowPadding
	pixelBytes := rowBytes * height
	fileSize := pixelOffset + pixelBytes

	header := make([]byte, pixelOffset)
	header[0] = 'B'
	header[1] = 'M'
	binary.LittleEndian.PutUint32(header[2:6], uint32(fileSize))
	// bytes 6:8 and 8:10 are the two reserved fields, left zero
	binary.LittleEndian.PutUint32(header[10:14], uint32(pixelOffset))

	binary.LittleEndian.PutUint32(header[14:18], uint32(dibHeaderSize))
	binary.LittleEndian.PutUint16(header[18:20], uint16(width))
	binary.LittleEndian.PutUint16(header[20:22], uint16(height))
	binary.LittleEndian.PutUint16(header[22:24], 1)  // planes
	binary.LittleEndian.PutUint16(header[24:26], 24) // bits per pixel

	if _, err := w.Write(header); err != nil {
		return common.NewError(ctx.SessionID, "WriteBMP", common.IOFailure, "writing BMP header", err)
	}

	row := make([]byte, rowBytes)
	for y := height - 1; y >= 0; y-- {
		for x := 0; x < width; x++ {
			r, g, b := pixelAt(ctx, mcus, x, y)
			off := x * 3
			row[off+0] = b
			row[off+1] = g
			row[off+2] = r
		}
		for i := width * 3; i < rowBytes; i++ {
			row[i] = 0
		}
		if _, err := w.Write(row); err != nil {
			return common.NewError(ctx.SessionID, "WriteBMP", common.IOFailure, "writing BMP pixel row", err)
		}
	}

	return nil
}

func rowPaddingBytes(width int) int {
	return (4 - (3*width)%4) % 4
}

// pixelAt reads one already-color-converted sample from the MCU grid:
// Decode leaves R in the Y slot, G in Cb, B in Cr (spec.md §4.7's
// storage-reuse convention).
func pixelAt(ctx *baseline.DecodeContext, mcus []baseline.MCU, x, y int) (r, g, b byte) {
	mcuX, mcuY := x/8, y/8
	inX, inY := x%8, y%8
	mcu := &mcus[mcuY*ctx.MCUWidth+mcuX]
	idx := inY*8 + inX
	return byte(mcu.Y[idx]), byte(mcu.Cb[idx]), byte(mcu.Cr[idx])
}
