package baseline

import (
	"runtime"
	"sync"

	"github.com/cocosip/go-jpeg-baseline/jpeg/common"
)

// Decode runs entropy decoding, dequantization, IDCT, and color
// conversion over a parsed DecodeContext and returns the MCU grid in
// raster order (spec.md §6's decode(Context) -> MCU[]).
//
// Entropy decoding is strictly sequential (DC prediction). Once every
// MCU's raw coefficients exist, dequant/IDCT/color conversion run
// independently per MCU, so this stage fans them out across a fixed
// worker pool sized to GOMAXPROCS, grounded in the plain WaitGroup +
// buffered job channel pattern used for per-unit parallel work in the
// pack's lepton_jpeg_go verifier.
func Decode(ctx *DecodeContext) ([]MCU, error) {
	mcus, err := ctx.decodeMCUs()
	if err != nil {
		return nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(mcus) {
		workers = len(mcus)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, len(mcus))
	for i := range mcus {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				ctx.postProcess(&mcus[i])
			}
		}()
	}
	wg.Wait()

	return mcus, nil
}

// postProcess dequantizes, inverse-transforms, and color-converts a
// single MCU in place. No two MCUs share state, so this requires no
// synchronization beyond the caller's WaitGroup.
func (ctx *DecodeContext) postProcess(mcu *MCU) {
	for c := 0; c < ctx.NumComponents; c++ {
		comp := &ctx.Components[c]
		block := mcu.At(c)
		dequantize(block, &ctx.QuantTables[comp.QuantTableID])
		common.IDCT(block)
	}

	if ctx.NumComponents == 1 {
		for i := 0; i < 64; i++ {
			gray := common.GrayToRGB(mcu.Y[i])
			mcu.Y[i] = int32(gray)
			mcu.Cb[i] = int32(gray)
			mcu.Cr[i] = int32(gray)
		}
		return
	}

	for i := 0; i < 64; i++ {
		r, g, b := common.YCbCrToRGB(mcu.Y[i], mcu.Cb[i], mcu.Cr[i])
		mcu.Y[i] = int32(r)
		mcu.Cb[i] = int32(g)
		mcu.Cr[i] = int32(b)
	}
}
