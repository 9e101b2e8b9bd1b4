package parser

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/firstat/fasttab/pkg/fasttab/models"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// BIFF8 record types.
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recFilePass   = 0x002F
	recContinue   = 0x003C
	recBoundSheet = 0x0085
	recMulRK      = 0x00BD
	recSST        = 0x00FC
	recLabelSST   = 0x00FD
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRK         = 0x027E
	recBOF        = 0x0809
)

// biff8Version is the BOF version field of Excel 97 and later.
const biff8Version = 0x0600

// errorTexts maps BIFF error codes to their display text.
var errorTexts = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// biffSheet is a worksheet entry of the workbook globals.
type biffSheet struct {
	name   string
	offset int
}

// biffWorkbook is a decoded Workbook stream: globals plus the raw stream
// for reading sheet substreams on demand.
type biffWorkbook struct {
	stream []byte
	sheets []biffSheet
	sst    []string
}

// record is one BIFF record located in the stream.
type record struct {
	typ  uint16
	data []byte
}

func corruptf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}

// recordAt reads the record starting at pos.
func recordAt(stream []byte, pos int) (record, error) {
	if pos < 0 || pos+4 > len(stream) {
		return record{}, corruptf("truncated record header at offset %d", pos)
	}
	typ := binary.LittleEndian.Uint16(stream[pos:])
	size := int(binary.LittleEndian.Uint16(stream[pos+2:]))
	if pos+4+size > len(stream) {
		return record{}, corruptf("record %#04x at offset %d overruns stream", typ, pos)
	}
	return record{typ: typ, data: stream[pos+4 : pos+4+size]}, nil
}

// continuation collects the CONTINUE records following pos.
func continuation(stream []byte, pos int) ([][]byte, int) {
	var segs [][]byte
	for pos < len(stream) {
		next, err := recordAt(stream, pos)
		if err != nil || next.typ != recContinue {
			break
		}
		segs = append(segs, next.data)
		pos += 4 + len(next.data)
	}
	return segs, pos
}

// decodeWorkbook reads the workbook globals substream.
func decodeWorkbook(stream []byte) (*biffWorkbook, error) {
	bof, err := recordAt(stream, 0)
	if err != nil {
		return nil, err
	}
	if bof.typ != recBOF || len(bof.data) < 4 {
		return nil, corruptf("missing BOF record")
	}
	if v := binary.LittleEndian.Uint16(bof.data); v != biff8Version {
		return nil, fmt.Errorf("%w: BIFF version %#04x", ErrUnsupportedFormat, v)
	}

	wb := &biffWorkbook{stream: stream}
	pos := 4 + len(bof.data)
	for pos < len(stream) {
		rec, err := recordAt(stream, pos)
		if err != nil {
			return nil, err
		}
		pos += 4 + len(rec.data)

		switch rec.typ {
		case recFilePass:
			return nil, fmt.Errorf("%w: workbook is password protected", ErrUnsupportedFormat)
		case recBoundSheet:
			sheet, isWorksheet, err := parseBoundSheet(rec.data)
			if err != nil {
				return nil, err
			}
			if isWorksheet {
				wb.sheets = append(wb.sheets, sheet)
			}
		case recSST:
			var segs [][]byte
			segs, pos = continuation(stream, pos)
			wb.sst, err = parseSST(append([][]byte{rec.data}, segs...))
			if err != nil {
				return nil, err
			}
		case recEOF:
			return wb, nil
		}
	}

	return wb, nil
}

// parseBoundSheet decodes a BOUNDSHEET8 record. Only plain worksheets
// (not chart, macro or VBA sheets) are reported as worksheets.
func parseBoundSheet(data []byte) (biffSheet, bool, error) {
	if len(data) < 8 {
		return biffSheet{}, false, corruptf("short BOUNDSHEET record")
	}
	offset := int(binary.LittleEndian.Uint32(data))
	kind := data[5]
	cch := int(data[6])

	r := &segmentReader{segs: [][]byte{data[8:]}}
	name, err := r.chars(cch, data[7]&0x01 != 0)
	if err != nil {
		return biffSheet{}, false, err
	}
	return biffSheet{name: name, offset: offset}, kind == 0, nil
}

// parseSST decodes the shared string table spread over an SST record and
// its CONTINUE records.
func parseSST(segs [][]byte) ([]string, error) {
	r := &segmentReader{segs: segs}
	if _, err := r.uint32(); err != nil {
		return nil, err
	}
	unique, err := r.uint32()
	if err != nil {
		return nil, err
	}

	strs := make([]string, 0, min(int(unique), 1<<16))
	for i := 0; i < int(unique); i++ {
		s, err := r.richString()
		if err != nil {
			return nil, fmt.Errorf("shared string %d: %w", i, err)
		}
		strs = append(strs, s)
	}
	return strs, nil
}

// readSheet decodes the cells of the named worksheet substream.
func (wb *biffWorkbook) readSheet(name string) ([][]models.Value, error) {
	var sheet *biffSheet
	for i := range wb.sheets {
		if wb.sheets[i].name == name {
			sheet = &wb.sheets[i]
			break
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	g := &gridBuilder{}
	// A string formula result arrives in the STRING record that follows.
	var pending bool
	var pendingRow, pendingCol int
	depth := 0
	pos := sheet.offset

	for pos < len(wb.stream) {
		rec, err := recordAt(wb.stream, pos)
		if err != nil {
			return nil, err
		}
		pos += 4 + len(rec.data)

		switch rec.typ {
		case recBOF:
			depth++
			continue
		case recEOF:
			depth--
			if depth <= 0 {
				return g.rows, nil
			}
			continue
		}
		// Embedded chart substreams carry no cells.
		if depth != 1 {
			continue
		}

		switch rec.typ {
		case recLabelSST:
			if len(rec.data) < 10 {
				return nil, corruptf("short LABELSST record")
			}
			isst := int(binary.LittleEndian.Uint32(rec.data[6:]))
			if isst >= len(wb.sst) {
				return nil, corruptf("shared string index %d out of range", isst)
			}
			g.set(rec.data, wb.sst[isst])
		case recLabel:
			if len(rec.data) < 9 {
				return nil, corruptf("short LABEL record")
			}
			r := &segmentReader{segs: [][]byte{rec.data[6:]}}
			s, err := r.unicodeString()
			if err != nil {
				return nil, err
			}
			g.set(rec.data, s)
		case recNumber:
			if len(rec.data) < 14 {
				return nil, corruptf("short NUMBER record")
			}
			f := math.Float64frombits(binary.LittleEndian.Uint64(rec.data[6:]))
			g.set(rec.data, normalizeNumber(f))
		case recRK:
			if len(rec.data) < 10 {
				return nil, corruptf("short RK record")
			}
			g.set(rec.data, normalizeNumber(decodeRK(binary.LittleEndian.Uint32(rec.data[6:]))))
		case recMulRK:
			if len(rec.data) < 6 {
				return nil, corruptf("short MULRK record")
			}
			row := int(binary.LittleEndian.Uint16(rec.data))
			col := int(binary.LittleEndian.Uint16(rec.data[2:]))
			items := rec.data[4 : len(rec.data)-2]
			for i := 0; i+6 <= len(items); i += 6 {
				rk := binary.LittleEndian.Uint32(items[i+2:])
				g.setAt(row, col+i/6, normalizeNumber(decodeRK(rk)))
			}
		case recBoolErr:
			if len(rec.data) < 8 {
				return nil, corruptf("short BOOLERR record")
			}
			g.set(rec.data, boolErrValue(rec.data[6], rec.data[7] != 0))
		case recFormula:
			if len(rec.data) < 14 {
				return nil, corruptf("short FORMULA record")
			}
			res := rec.data[6:14]
			if res[6] != 0xFF || res[7] != 0xFF {
				f := math.Float64frombits(binary.LittleEndian.Uint64(res))
				g.set(rec.data, normalizeNumber(f))
				continue
			}
			switch res[0] {
			case 0x00:
				pending = true
				pendingRow = int(binary.LittleEndian.Uint16(rec.data))
				pendingCol = int(binary.LittleEndian.Uint16(rec.data[2:]))
			case 0x01:
				g.set(rec.data, boolErrValue(res[2], false))
			case 0x02:
				g.set(rec.data, boolErrValue(res[2], true))
			}
		case recString:
			if !pending {
				continue
			}
			var segs [][]byte
			segs, pos = continuation(wb.stream, pos)
			r := &segmentReader{segs: append([][]byte{rec.data}, segs...)}
			s, err := r.unicodeString()
			if err != nil {
				return nil, err
			}
			g.setAt(pendingRow, pendingCol, s)
			pending = false
		}
	}

	return nil, corruptf("sheet %q has no EOF record", name)
}

// decodeRK decodes the compressed RK number representation.
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

// boolErrValue returns a boolean cell as bool and an error cell as its
// display text.
func boolErrValue(b byte, isError bool) models.Value {
	if isError {
		if text, ok := errorTexts[b]; ok {
			return text
		}
		return "#ERR!"
	}
	return b != 0
}

// gridBuilder accumulates cells into a row-major grid.
type gridBuilder struct {
	rows [][]models.Value
}

// set stores v at the row/column found in the first four bytes of a cell
// record.
func (g *gridBuilder) set(cell []byte, v models.Value) {
	row := int(binary.LittleEndian.Uint16(cell))
	col := int(binary.LittleEndian.Uint16(cell[2:]))
	g.setAt(row, col, v)
}

func (g *gridBuilder) setAt(row, col int, v models.Value) {
	if v == nil {
		return
	}
	if s, ok := v.(string); ok && s == "" {
		return
	}
	for len(g.rows) <= row {
		g.rows = append(g.rows, nil)
	}
	r := g.rows[row]
	for len(r) <= col {
		r = append(r, nil)
	}
	r[col] = v
	g.rows[row] = r
}

// segmentReader reads a logical byte sequence split over a record and its
// CONTINUE records.
type segmentReader struct {
	segs [][]byte
	seg  int
	pos  int
}

// read returns the next n bytes, crossing segment boundaries.
func (s *segmentReader) read(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		if s.seg >= len(s.segs) {
			return nil, corruptf("string data truncated")
		}
		cur := s.segs[s.seg]
		if s.pos >= len(cur) {
			s.seg++
			s.pos = 0
			continue
		}
		take := min(n-len(out), len(cur)-s.pos)
		out = append(out, cur[s.pos:s.pos+take]...)
		s.pos += take
	}
	return out, nil
}

// skip advances n bytes, crossing segment boundaries.
func (s *segmentReader) skip(n int) error {
	for n > 0 {
		if s.seg >= len(s.segs) {
			return corruptf("string data truncated")
		}
		cur := s.segs[s.seg]
		if s.pos >= len(cur) {
			s.seg++
			s.pos = 0
			continue
		}
		take := min(n, len(cur)-s.pos)
		s.pos += take
		n -= take
	}
	return nil
}

func (s *segmentReader) uint8() (byte, error) {
	b, err := s.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *segmentReader) uint16() (uint16, error) {
	b, err := s.read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (s *segmentReader) uint32() (uint32, error) {
	b, err := s.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// chars reads cch characters. When the character array continues into a
// new segment, that segment starts with a repeated option byte whose low
// bit selects the width of the remaining characters.
func (s *segmentReader) chars(cch int, wide bool) (string, error) {
	var sb strings.Builder
	for cch > 0 {
		if s.seg >= len(s.segs) {
			return "", corruptf("string data truncated")
		}
		cur := s.segs[s.seg]
		if s.pos >= len(cur) {
			s.seg++
			if s.seg >= len(s.segs) || len(s.segs[s.seg]) == 0 {
				return "", corruptf("string data truncated")
			}
			wide = s.segs[s.seg][0]&0x01 != 0
			s.pos = 1
			continue
		}

		width := 1
		if wide {
			width = 2
		}
		n := min(cch, (len(cur)-s.pos)/width)
		if n == 0 {
			return "", corruptf("split character in string data")
		}
		text, err := decodeChars(cur[s.pos:s.pos+n*width], wide)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
		s.pos += n * width
		cch -= n
	}
	return sb.String(), nil
}

// unicodeString reads an XLUnicodeString: 16-bit length, option byte,
// characters.
func (s *segmentReader) unicodeString() (string, error) {
	cch, err := s.uint16()
	if err != nil {
		return "", err
	}
	flags, err := s.uint8()
	if err != nil {
		return "", err
	}
	return s.chars(int(cch), flags&0x01 != 0)
}

// richString reads an XLUnicodeRichExtendedString, discarding formatting
// runs and phonetic data.
func (s *segmentReader) richString() (string, error) {
	cch, err := s.uint16()
	if err != nil {
		return "", err
	}
	flags, err := s.uint8()
	if err != nil {
		return "", err
	}

	var runs, ext int
	if flags&0x08 != 0 {
		n, err := s.uint16()
		if err != nil {
			return "", err
		}
		runs = int(n)
	}
	if flags&0x04 != 0 {
		n, err := s.uint32()
		if err != nil {
			return "", err
		}
		ext = int(n)
	}

	text, err := s.chars(int(cch), flags&0x01 != 0)
	if err != nil {
		return "", err
	}
	if err := s.skip(4*runs + ext); err != nil {
		return "", err
	}
	return text, nil
}

// decodeChars converts raw BIFF characters to UTF-8: UTF-16LE when wide,
// otherwise the compressed form whose high bytes are all zero (Latin-1).
func decodeChars(b []byte, wide bool) (string, error) {
	var (
		out []byte
		err error
	)
	if wide {
		out, err = utf16le.NewDecoder().Bytes(b)
	} else {
		out, err = charmap.ISO8859_1.NewDecoder().Bytes(b)
	}
	if err != nil {
		return "", corruptf("string decoding: %v", err)
	}
	return string(out), nil
}
