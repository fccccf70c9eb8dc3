package bmp

import (
	"bytes"
	"testing"

	"github.com/cocosip/go-jpeg-baseline/jpeg/baseline"
	"github.com/google/uuid"
)

func TestWriteBMPHeaderAndPadding(t *testing.T) {
	ctx := &baseline.DecodeContext{
		SessionID:     uuid.New(),
		Width:         3,
		Height:        2,
		MCUWidth:      1,
		MCUHeight:     1,
		NumComponents: 3,
	}

	var mcu baseline.MCU
	for i := 0; i < 64; i++ {
		mcu.Y[i] = 10
		mcu.Cb[i] = 20
		mcu.Cr[i] = 30
	}
	mcus := []baseline.MCU{mcu}

	var buf bytes.Buffer
	if err := WriteBMP(&buf, ctx, mcus); err != nil {
		t.Fatalf("WriteBMP: %v", err)
	}

	out := buf.Bytes()
	if out[0] != 'B' || out[1] != 'M' {
		t.Fatalf("missing BM signature")
	}

	rowPadding := rowPaddingBytes(3)
	if rowPadding != 3 {
		t.Fatalf("rowPaddingBytes(3) = %d, want 3", rowPadding)
	}

	wantSize := pixelOffset + (3*3+rowPadding)*2
	gotSize := int(out[2]) | int(out[3])<<8 | int(out[4])<<16 | int(out[5])<<24
	if gotSize != wantSize {
		t.Errorf("file size = %d, want %d", gotSize, wantSize)
	}

	offset := int(out[10]) | int(out[11])<<8 | int(out[12])<<16 | int(out[13])<<24
	if offset != pixelOffset {
		t.Errorf("pixel offset = %d, want %d", offset, pixelOffset)
	}

	firstPixel := out[pixelOffset : pixelOffset+3]
	if firstPixel[0] != 30 || firstPixel[1] != 20 || firstPixel[2] != 10 {
		t.Errorf("first pixel BGR = %v, want (30,20,10)", firstPixel)
	}
}

func TestRowPaddingBytes(t *testing.T) {
	cases := []struct{ width, want int }{
		{1, 1}, {2, 2}, {3, 3}, {4, 0}, {5, 1}, {8, 0},
	}
	for _, c := range cases {
		if got := rowPaddingBytes(c.width); got != c.want {
			t.Errorf("rowPaddingBytes(%d) = %d, want %d", c.width, got, c.want)
		}
	}
}
