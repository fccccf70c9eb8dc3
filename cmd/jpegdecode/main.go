// Command jpegdecode decodes a baseline sequential JPEG and writes it out
// as an uncompressed 24-bit BMP.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cocosip/go-jpeg-baseline/jpeg/baseline"
	"github.com/cocosip/go-jpeg-baseline/jpeg/bmp"
)

func main() {
	var in, out string
	flag.StringVar(&in, "i", "", "Input JPEG file path")
	flag.StringVar(&out, "o", "", "Output BMP file path")
	flag.Parse()

	if in == "" || out == "" {
		fmt.Fprintln(os.Stderr, "both -i and -o must be specified")
		os.Exit(1)
	}

	if err := run(in, out); err != nil {
		log.Fatalf("jpegdecode: %v", err)
	}
}

func run(in, out string) error {
	start := time.Now()

	inFile, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("cant open input %s: %w", in, err)
	}
	defer inFile.Close()

	ctx, err := baseline.ReadJPEG(inFile)
	if err != nil {
		return fmt.Errorf("cant parse input %s: %w", in, err)
	}

	mcus, err := baseline.Decode(ctx)
	if err != nil {
		return fmt.Errorf("cant decode input %s: %w", in, err)
	}

	outFile, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("cant open output %s: %w", out, err)
	}
	defer outFile.Close()

	if err := bmp.WriteBMP(outFile, ctx, mcus); err != nil {
		return fmt.Errorf("cant write output %s: %w", out, err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("decoded %d x %d, %d component(s), %d MCUs in %s (session %s)\n",
		ctx.Width, ctx.Height, ctx.NumComponents, len(mcus), time.Since(start), ctx.SessionID)

	return nil
}
