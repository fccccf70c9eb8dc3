package common

// IDCT performs the separable 8x8 inverse DCT described in spec.md §4.6,
// using the teacher's fixed-point row/column factorization (a scaled
// integer form of the AAN fast IDCT) rather than the 4096-multiply
// direct double sum — the spec explicitly permits this as long as
// results match the direct definition within ±1 per sample.
//
// block holds 64 dequantized coefficients in natural order on entry and
// 64 signed spatial-domain samples in natural order on return. Unlike
// the teacher's version, IDCT performs no level shift and no clamp: both
// belong to color conversion (spec.md §4.6 vs §4.7 are separate stages,
// so each is independently testable — see spec.md §8 property 5).
func IDCT(block *[64]int32) {
	const (
		w1 = 2841 // 2048*sqrt(2)*cos(1*pi/16)
		w2 = 2676 // 2048*sqrt(2)*cos(2*pi/16)
		w3 = 2408 // 2048*sqrt(2)*cos(3*pi/16)
		w5 = 1609 // 2048*sqrt(2)*cos(5*pi/16)
		w6 = 1108 // 2048*sqrt(2)*cos(6*pi/16)
		w7 = 565  // 2048*sqrt(2)*cos(7*pi/16)
		r2 = 181  // 256/sqrt(2)
	)

	var tmp [64]int32

	for y := 0; y < 8; y++ {
		row := y * 8

		if block[row+1] == 0 && block[row+2] == 0 && block[row+3] == 0 &&
			block[row+4] == 0 && block[row+5] == 0 && block[row+6] == 0 && block[row+7] == 0 {
			dc := block[row] << 3
			for x := 0; x < 8; x++ {
				tmp[row+x] = dc
			}
			continue
		}

		x0 := (block[row+0] << 11) + 128
		x1 := block[row+4] << 11
		x2 := block[row+6]
		x3 := block[row+2]
		x4 := block[row+1]
		x5 := block[row+7]
		x6 := block[row+5]
		x7 := block[row+3]

		x8 := w7 * (x4 + x5)
		x4 = x8 + w1*x4
		x5 = x8 - w5*x5
		x8 = w3 * (x6 + x7)
		x6 = x8 - w3*x6
		x7 = x8 - w7*x7

		x8 = x0 + x1
		x0 -= x1
		x1 = w6 * (x3 + x2)
		x2 = x1 - w2*x2
		x3 = x1 + w6*x3
		x1 = x4 + x6
		x4 -= x6
		x6 = x5 + x7
		x5 -= x7

		x7 = x8 + x3
		x8 -= x3
		x3 = x0 + x2
		x0 -= x2
		x2 = (r2 * (x4 + x5)) >> 8
		x4 = (r2 * (x4 - x5)) >> 8

		tmp[row+0] = (x7 + x1) >> 8
		tmp[row+1] = (x3 + x2) >> 8
		tmp[row+2] = (x0 + x4) >> 8
		tmp[row+3] = (x8 + x6) >> 8
		tmp[row+4] = (x8 - x6) >> 8
		tmp[row+5] = (x0 - x4) >> 8
		tmp[row+6] = (x3 - x2) >> 8
		tmp[row+7] = (x7 - x1) >> 8
	}

	for x := 0; x < 8; x++ {
		if tmp[8+x] == 0 && tmp[16+x] == 0 && tmp[24+x] == 0 &&
			tmp[32+x] == 0 && tmp[40+x] == 0 && tmp[48+x] == 0 && tmp[56+x] == 0 {
			v := (tmp[x] + 32) >> 6
			for y := 0; y < 8; y++ {
				block[y*8+x] = v
			}
			continue
		}

		x0 := (tmp[0+x] << 8) + 8192
		x1 := tmp[32+x] << 8
		x2 := tmp[48+x]
		x3 := tmp[16+x]
		x4 := tmp[8+x]
		x5 := tmp[56+x]
		x6 := tmp[40+x]
		x7 := tmp[24+x]

		x8 := w7 * (x4 + x5)
		x4 = x8 + w1*x4
		x5 = x8 - w5*x5
		x8 = w3 * (x6 + x7)
		x6 = x8 - w3*x6
		x7 = x8 - w7*x7

		x8 = x0 + x1
		x0 -= x1
		x1 = w6 * (x3 + x2)
		x2 = x1 - w2*x2
		x3 = x1 + w6*x3
		x1 = x4 + x6
		x4 -= x6
		x6 = x5 + x7
		x5 -= x7

		x7 = x8 + x3
		x8 -= x3
		x3 = x0 + x2
		x0 -= x2
		x2 = (r2 * (x4 + x5)) >> 8
		x4 = (r2 * (x4 - x5)) >> 8

		block[0*8+x] = (x7 + x1) >> 14
		block[1*8+x] = (x3 + x2) >> 14
		block[2*8+x] = (x0 + x4) >> 14
		block[3*8+x] = (x8 + x6) >> 14
		block[4*8+x] = (x8 - x6) >> 14
		block[5*8+x] = (x0 - x4) >> 14
		block[6*8+x] = (x3 - x2) >> 14
		block[7*8+x] = (x7 - x1) >> 14
	}
}
