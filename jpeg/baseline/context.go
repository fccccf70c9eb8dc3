package baseline

import (
	"io"

	"github.com/google/uuid"

	"github.com/cocosip/go-jpeg-baseline/jpeg/common"
)

// QuantTable is one of the four quantization tables, in natural
// (row-major) order. Set is false until a DQT segment populates it.
type QuantTable struct {
	Values [64]int32
	Set    bool
}

// Component is one color component's parsed SOF/SOS state (spec.md §3's
// ColorComponent).
type Component struct {
	ID  int // effective id, 1..3 after the zero-based adjustment
	HSF int
	VSF int

	QuantTableID int
	DCTableID    int
	ACTableID    int

	used bool // transient: set while processing the current SOS
}

// DecodeContext is spec.md §3's JPGFile/DecodeContext: everything a file
// yields at parse time, owned for the life of one decode. It is
// constructed by ReadJPEG and passed by pointer through every later
// stage — no package-level mutable state.
type DecodeContext struct {
	SessionID uuid.UUID

	Width, Height       int
	MCUWidth, MCUHeight int // grid dimensions, ⌈w/8⌉ x ⌈h/8⌉
	NumComponents       int
	ZeroBased           bool
	RestartInterval     int

	QuantTables [4]QuantTable
	DCTables    [4]common.HuffmanTable
	ACTables    [4]common.HuffmanTable

	Components [3]Component

	entropy []byte // byte-unstuffed entropy payload, SOS..EOI exclusive
}

type parser struct {
	data []byte
	pos  int

	ctx    *DecodeContext
	sawSOF bool
}

// ReadJPEG parses a JPEG byte stream into a DecodeContext per spec.md
// §4.1: framing, every header segment, and the byte-unstuffed entropy
// payload. It does not perform entropy decoding; see Decode.
func ReadJPEG(r io.Reader) (*DecodeContext, error) {
	sessionID := uuid.New()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.NewError(sessionID, "ReadJPEG", common.IOFailure, "reading input stream", err)
	}

	p := &parser{
		data: data,
		ctx:  &DecodeContext{SessionID: sessionID},
	}

	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.ctx, nil
}

func (p *parser) fail(op string, kind common.Kind, context string) error {
	return common.NewError(p.ctx.SessionID, op, kind, context, nil)
}

func (p *parser) byteAt(i int) (byte, bool) {
	if i < 0 || i >= len(p.data) {
		return 0, false
	}
	return p.data[i], true
}

// readMarker consumes fill bytes (repeated 0xFF) and returns the next
// two-byte marker, or fails if the stream doesn't present one.
func (p *parser) readMarker() (uint16, error) {
	b, ok := p.byteAt(p.pos)
	if !ok {
		return 0, p.fail("readMarker", common.StructuralError, "unexpected end of stream before marker")
	}
	if b != 0xFF {
		return 0, p.fail("readMarker", common.StructuralError, "expected marker prefix 0xFF")
	}
	p.pos++

	for {
		b, ok = p.byteAt(p.pos)
		if !ok {
			return 0, p.fail("readMarker", common.StructuralError, "unexpected end of stream in marker")
		}
		if b == 0xFF {
			p.pos++ // fill byte between segments
			continue
		}
		p.pos++
		return 0xFF00 | uint16(b), nil
	}
}

// readSegment reads a big-endian 16-bit length (inclusive of itself) and
// returns the length-2 bytes of payload that follow.
func (p *parser) readSegment() ([]byte, error) {
	if p.pos+2 > len(p.data) {
		return nil, p.fail("readSegment", common.StructuralError, "truncated segment length")
	}
	length := int(p.data[p.pos])<<8 | int(p.data[p.pos+1])
	if length < 2 {
		return nil, p.fail("readSegment", common.LengthMismatch, "segment length below minimum of 2")
	}
	start := p.pos + 2
	end := p.pos + length
	if end > len(p.data) {
		return nil, p.fail("readSegment", common.LengthMismatch, "declared segment length runs past end of stream")
	}
	p.pos = end
	return p.data[start:end], nil
}

func (p *parser) parse() error {
	marker, err := p.readMarker()
	if err != nil {
		return err
	}
	if marker != common.MarkerSOI {
		return p.fail("parse", common.StructuralError, "stream does not begin with SOI")
	}

	for {
		marker, err := p.readMarker()
		if err != nil {
			return err
		}

		switch {
		case marker == common.MarkerEOI:
			return p.fail("parse", common.StructuralError, "EOI encountered before SOS")

		case marker == common.MarkerSOF0:
			if err := p.parseSOF(); err != nil {
				return err
			}

		case common.IsSOF(marker) && marker != common.MarkerSOF0:
			return p.fail("parse", common.UnsupportedFeature, "only baseline sequential SOF0 frames are supported")

		case marker == common.MarkerDQT:
			if err := p.parseDQT(); err != nil {
				return err
			}

		case marker == common.MarkerDHT:
			if err := p.parseDHT(); err != nil {
				return err
			}

		case marker == common.MarkerDRI:
			if err := p.parseDRI(); err != nil {
				return err
			}

		case marker == common.MarkerSOS:
			if err := p.parseSOS(); err != nil {
				return err
			}
			if err := p.extractEntropyPayload(); err != nil {
				return err
			}
			return p.validate()

		case common.IsRST(marker):
			// bare restart marker between header segments: ignored

		case common.IsAPPn(marker), marker == common.MarkerCOM:
			if _, err := p.readSegment(); err != nil {
				return err
			}

		default:
			if common.HasLength(marker) {
				if _, err := p.readSegment(); err != nil {
					return err
				}
			}
		}
	}
}

func (p *parser) parseSOF() error {
	if p.sawSOF {
		return p.fail("parseSOF", common.StructuralError, "more than one SOF segment")
	}

	data, err := p.readSegment()
	if err != nil {
		return err
	}
	if len(data) < 6 {
		return p.fail("parseSOF", common.LengthMismatch, "SOF segment shorter than minimum header")
	}

	precision := int(data[0])
	if precision != 8 {
		return p.fail("parseSOF", common.UnsupportedFeature, "only 8-bit sample precision is supported")
	}

	p.ctx.Height = int(data[1])<<8 | int(data[2])
	p.ctx.Width = int(data[3])<<8 | int(data[4])
	numComponents := int(data[5])

	if p.ctx.Width <= 0 || p.ctx.Height <= 0 {
		return p.fail("parseSOF", common.StructuralError, "zero or negative image dimensions")
	}
	if numComponents != 1 && numComponents != 3 {
		return p.fail("parseSOF", common.UnsupportedFeature, "only single or three-component frames are supported")
	}
	if len(data) != 6+numComponents*3 {
		return p.fail("parseSOF", common.LengthMismatch, "SOF segment length does not match component count")
	}

	p.ctx.NumComponents = numComponents

	for i := 0; i < numComponents; i++ {
		offset := 6 + i*3
		rawID := int(data[offset])

		if rawID == 0 {
			p.ctx.ZeroBased = true
		}
		id := rawID
		if p.ctx.ZeroBased {
			id = rawID + 1
		}
		if id == 4 || id == 5 {
			return p.fail("parseSOF", common.UnsupportedFeature, "YIQ component ids are not supported")
		}
		if id < 1 || id > 3 {
			return p.fail("parseSOF", common.InvalidReference, "component id out of range")
		}
		for j := 0; j < i; j++ {
			if p.ctx.Components[j].ID == id {
				return p.fail("parseSOF", common.InvalidReference, "duplicate component id in SOF")
			}
		}

		hsf := int(data[offset+1] >> 4)
		vsf := int(data[offset+1] & 0x0F)
		if hsf != 1 || vsf != 1 {
			return p.fail("parseSOF", common.UnsupportedFeature, "chroma subsampling other than 1x1 is not supported")
		}

		qID := int(data[offset+2])
		if qID > 3 {
			return p.fail("parseSOF", common.InvalidReference, "quantization table id out of range")
		}

		p.ctx.Components[i] = Component{ID: id, HSF: hsf, VSF: vsf, QuantTableID: qID}
	}

	p.ctx.MCUWidth = common.DivCeil(p.ctx.Width, 8)
	p.ctx.MCUHeight = common.DivCeil(p.ctx.Height, 8)
	p.sawSOF = true
	return nil
}

func (p *parser) parseDQT() error {
	data, err := p.readSegment()
	if err != nil {
		return err
	}

	offset := 0
	for offset < len(data) {
		info := data[offset]
		tableID := int(info & 0x0F)
		if tableID > 3 {
			return p.fail("parseDQT", common.InvalidReference, "quantization table id out of range")
		}
		offset++

		var table QuantTable
		if info>>4 != 0 {
			if offset+128 > len(data) {
				return p.fail("parseDQT", common.LengthMismatch, "truncated 16-bit quantization table")
			}
			for i := 0; i < 64; i++ {
				v := int32(data[offset+i*2])<<8 | int32(data[offset+i*2+1])
				table.Values[common.ZigZag[i]] = v
			}
			offset += 128
		} else {
			if offset+64 > len(data) {
				return p.fail("parseDQT", common.LengthMismatch, "truncated 8-bit quantization table")
			}
			for i := 0; i < 64; i++ {
				table.Values[common.ZigZag[i]] = int32(data[offset+i])
			}
			offset += 64
		}
		table.Set = true
		p.ctx.QuantTables[tableID] = table
	}
	return nil
}

func (p *parser) parseDHT() error {
	data, err := p.readSegment()
	if err != nil {
		return err
	}

	offset := 0
	for offset < len(data) {
		if offset+17 > len(data) {
			return p.fail("parseDHT", common.LengthMismatch, "truncated Huffman table header")
		}
		info := data[offset]
		tableID := int(info & 0x0F)
		isAC := info>>4 != 0
		if tableID > 3 {
			return p.fail("parseDHT", common.InvalidReference, "Huffman table id out of range")
		}
		offset++

		var table common.HuffmanTable
		total := 0
		for i := 0; i < 16; i++ {
			table.Bits[i] = int(data[offset+i])
			total += table.Bits[i]
		}
		offset += 16
		if total > 162 {
			return p.fail("parseDHT", common.LengthMismatch, "Huffman table declares more than 162 symbols")
		}
		if offset+total > len(data) {
			return p.fail("parseDHT", common.LengthMismatch, "truncated Huffman symbol list")
		}
		table.Values = make([]byte, total)
		copy(table.Values, data[offset:offset+total])
		offset += total
		table.Build()

		if isAC {
			p.ctx.ACTables[tableID] = table
		} else {
			p.ctx.DCTables[tableID] = table
		}
	}
	return nil
}

func (p *parser) parseDRI() error {
	data, err := p.readSegment()
	if err != nil {
		return err
	}
	if len(data) != 2 {
		return p.fail("parseDRI", common.LengthMismatch, "DRI segment must carry exactly 2 bytes")
	}
	p.ctx.RestartInterval = int(data[0])<<8 | int(data[1])
	return nil
}

func (p *parser) parseSOS() error {
	if !p.sawSOF {
		return p.fail("parseSOS", common.StructuralError, "SOS encountered before any SOF")
	}

	data, err := p.readSegment()
	if err != nil {
		return err
	}
	if len(data) < 1 {
		return p.fail("parseSOS", common.LengthMismatch, "SOS segment shorter than minimum header")
	}

	ns := int(data[0])
	if len(data) != 1+ns*2+3 {
		return p.fail("parseSOS", common.LengthMismatch, "SOS segment length does not match component count")
	}

	for i := 0; i < p.ctx.NumComponents; i++ {
		p.ctx.Components[i].used = false
	}

	for i := 0; i < ns; i++ {
		rawID := int(data[1+i*2])
		id := rawID
		if p.ctx.ZeroBased {
			id = rawID + 1
		}

		idx := -1
		for j := 0; j < p.ctx.NumComponents; j++ {
			if p.ctx.Components[j].ID == id {
				idx = j
				break
			}
		}
		if idx == -1 {
			return p.fail("parseSOS", common.InvalidReference, "SOS references a component id not declared in SOF")
		}
		if p.ctx.Components[idx].used {
			return p.fail("parseSOS", common.InvalidReference, "duplicate component id in SOS")
		}
		p.ctx.Components[idx].used = true

		tdTa := data[1+i*2+1]
		p.ctx.Components[idx].DCTableID = int(tdTa >> 4)
		p.ctx.Components[idx].ACTableID = int(tdTa & 0x0F)
		if p.ctx.Components[idx].DCTableID > 3 || p.ctx.Components[idx].ACTableID > 3 {
			return p.fail("parseSOS", common.InvalidReference, "Huffman table selector out of range")
		}
	}

	ss, se := data[1+ns*2], data[1+ns*2+1]
	ahAl := data[1+ns*2+2]
	if ss != 0 || se != 63 || ahAl != 0 {
		return p.fail("parseSOS", common.UnsupportedFeature, "spectral selection/successive approximation must be full single-pass (0,63,0,0)")
	}

	return nil
}

// extractEntropyPayload consumes bytes from the current position until
// EOI, unstuffing FF 00 -> FF, discarding restart markers, and collapsing
// fill FF FF, per spec.md §4.1.
func (p *parser) extractEntropyPayload() error {
	payload := make([]byte, 0, len(p.data)-p.pos)

	for {
		b, ok := p.byteAt(p.pos)
		if !ok {
			return p.fail("extractEntropyPayload", common.StructuralError, "entropy stream ended without EOI")
		}
		p.pos++

		if b != 0xFF {
			payload = append(payload, b)
			continue
		}

		b2, ok := p.byteAt(p.pos)
		if !ok {
			return p.fail("extractEntropyPayload", common.StructuralError, "entropy stream ended mid-marker")
		}

		marker := 0xFF00 | uint16(b2)
		switch {
		case b2 == 0x00:
			p.pos++
			payload = append(payload, 0xFF)
		case b2 == 0xFF:
			p.pos++ // fill, collapse
		case marker == common.MarkerEOI:
			p.pos++
			p.ctx.entropy = payload
			return nil
		case common.IsRST(marker):
			p.pos++
		default:
			return p.fail("extractEntropyPayload", common.StructuralError, "unexpected marker inside entropy stream")
		}
	}
}

// validate enforces spec.md §4.1's post-parse table-reference checks.
func (p *parser) validate() error {
	for i := 0; i < p.ctx.NumComponents; i++ {
		c := p.ctx.Components[i]
		if !p.ctx.QuantTables[c.QuantTableID].Set {
			return p.fail("validate", common.InvalidReference, "component references an unset quantization table")
		}
		if !p.ctx.DCTables[c.DCTableID].Set {
			return p.fail("validate", common.InvalidReference, "component references an unset DC Huffman table")
		}
		if !p.ctx.ACTables[c.ACTableID].Set {
			return p.fail("validate", common.InvalidReference, "component references an unset AC Huffman table")
		}
	}
	if p.ctx.RestartInterval != 0 {
		return p.fail("validate", common.UnsupportedFeature, "non-zero restart interval is not supported")
	}
	return nil
}
