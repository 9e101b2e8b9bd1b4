package parser

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func biffRecord(typ uint16, data []byte) []byte {
	out := make([]byte, 4, 4+len(data))
	binary.LittleEndian.PutUint16(out, typ)
	binary.LittleEndian.PutUint16(out[2:], uint16(len(data)))
	return append(out, data...)
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func wide(s string) []byte {
	var out []byte
	for _, r := range s {
		out = append(out, le16(uint16(r))...)
	}
	return out
}

func bof(dt uint16) []byte {
	return biffRecord(recBOF, concat(le16(biff8Version), le16(dt), make([]byte, 12)))
}

func boundSheet(offset uint32, kind byte, name string) []byte {
	return biffRecord(recBoundSheet, concat(le32(offset), []byte{0, kind, byte(len(name)), 0}, []byte(name)))
}

func cellHeader(row, col uint16) []byte {
	return concat(le16(row), le16(col), le16(0))
}

// buildWorkbookStream assembles globals plus one worksheet covering every
// cell record the decoder understands.
func buildWorkbookStream() []byte {
	// SST: "Nama" compressed, "Pilihan" split across a CONTINUE record that
	// switches to wide characters, "Sí" wide with one formatting run.
	sst := biffRecord(recSST, concat(
		le32(3), le32(3),
		le16(4), []byte{0x00}, []byte("Nama"),
		le16(7), []byte{0x00}, []byte("Pil"),
	))
	cont := biffRecord(recContinue, concat(
		[]byte{0x01}, wide("ihan"),
		le16(2), []byte{0x09}, le16(1), wide("Sí"), make([]byte, 4),
	))

	sheet := concat(
		bof(0x0010),
		biffRecord(recLabelSST, concat(cellHeader(0, 0), le32(0))),
		biffRecord(recLabelSST, concat(cellHeader(0, 1), le32(1))),
		biffRecord(recLabel, concat(cellHeader(0, 2), le16(4), []byte{0x00}, []byte("Skor"))),
		biffRecord(recLabel, concat(cellHeader(0, 3), le16(2), []byte{0x00}, []byte("Ok"))),

		biffRecord(recLabelSST, concat(cellHeader(1, 0), le32(2))),
		biffRecord(recLabelSST, concat(cellHeader(1, 1), le32(1))),
		biffRecord(recNumber, concat(cellHeader(1, 2), le64(math.Float64bits(7.5)))),
		biffRecord(recBoolErr, concat(cellHeader(1, 3), []byte{1, 0})),

		// embedded chart substream: its cells must be ignored
		bof(0x0020),
		biffRecord(recNumber, concat(cellHeader(9, 9), le64(math.Float64bits(99)))),
		biffRecord(recEOF, nil),

		biffRecord(recLabel, concat(cellHeader(2, 0), le16(4), []byte{0x00}, []byte("Budi"))),
		biffRecord(recFormula, concat(cellHeader(2, 1), []byte{0, 0, 0, 0, 0, 0, 0xFF, 0xFF}, make([]byte, 6))),
		biffRecord(recString, concat(le16(4), []byte{0x00}, []byte("a, b"))),
		biffRecord(recMulRK, concat(le16(2), le16(2),
			le16(0), le32(42<<2|0x02),
			le16(0), le32(150<<2|0x03),
			le16(3))),

		biffRecord(recFormula, concat(cellHeader(3, 2), le64(math.Float64bits(3)), make([]byte, 6))),
		biffRecord(recBoolErr, concat(cellHeader(3, 3), []byte{0x2A, 1})),
		biffRecord(recEOF, nil),
	)

	globalsHead := concat(bof(0x0005))
	sheets := func(offset uint32) []byte {
		return concat(boundSheet(offset, 0, "Survey"), boundSheet(0, 2, "Chart1"))
	}
	tail := concat(sst, cont, biffRecord(recEOF, nil))

	offset := uint32(len(globalsHead) + len(sheets(0)) + len(tail))
	return concat(globalsHead, sheets(offset), tail, sheet)
}

func TestDecodeWorkbook(t *testing.T) {
	wb, err := decodeWorkbook(buildWorkbookStream())
	require.NoError(t, err)

	require.Len(t, wb.sheets, 1, "chart sheets are not worksheets")
	assert.Equal(t, "Survey", wb.sheets[0].name)
	assert.Equal(t, []string{"Nama", "Pilihan", "Sí"}, wb.sst)

	grid, err := wb.readSheet("Survey")
	require.NoError(t, err)
	require.Len(t, grid, 4)

	assert.Equal(t, []interface{}{"Nama", "Pilihan", "Skor", "Ok"}, grid[0])
	assert.Equal(t, []interface{}{"Sí", "Pilihan", 7.5, true}, grid[1])
	assert.Equal(t, []interface{}{"Budi", "a, b", int64(42), 1.5}, grid[2])
	assert.Equal(t, []interface{}{nil, nil, int64(3), "#N/A"}, grid[3])

	table, err := buildTable(grid, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nama", "Pilihan", "Skor", "Ok"}, table.Columns())
	assert.Equal(t, 3, table.Len())
}

func TestDecodeWorkbookErrors(t *testing.T) {
	t.Run("biff5", func(t *testing.T) {
		stream := biffRecord(recBOF, concat(le16(0x0500), le16(0x0005), make([]byte, 4)))
		_, err := decodeWorkbook(stream)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("encrypted", func(t *testing.T) {
		stream := concat(bof(0x0005), biffRecord(recFilePass, make([]byte, 6)))
		_, err := decodeWorkbook(stream)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("truncated record", func(t *testing.T) {
		stream := concat(bof(0x0005), []byte{0x85, 0x00, 0x40})
		_, err := decodeWorkbook(stream)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("truncated sst", func(t *testing.T) {
		stream := concat(bof(0x0005), biffRecord(recSST, concat(le32(1), le32(1), le16(10), []byte{0}, []byte("abc"))))
		_, err := decodeWorkbook(stream)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("shared string out of range", func(t *testing.T) {
		wb := &biffWorkbook{
			stream: concat(bof(0x0010), biffRecord(recLabelSST, concat(cellHeader(0, 0), le32(5))), biffRecord(recEOF, nil)),
			sheets: []biffSheet{{name: "S", offset: 0}},
		}
		_, err := wb.readSheet("S")
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestBoolErrValue(t *testing.T) {
	assert.Equal(t, true, boolErrValue(1, false))
	assert.Equal(t, false, boolErrValue(0, false))
	assert.Equal(t, "#DIV/0!", boolErrValue(0x07, true))
	assert.Equal(t, "#ERR!", boolErrValue(0x99, true))
}

func TestDecodeRK(t *testing.T) {
	tests := []struct {
		rk       uint32
		expected float64
	}{
		{42<<2 | 0x02, 42},
		{150<<2 | 0x03, 1.5},
		{uint32(math.Float64bits(0.5) >> 32), 0.5},
		{uint32(math.Float64bits(1234) >> 32) | 0x01, 12.34},
		{0xFFFFFFFE, -1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, decodeRK(tt.rk), 1e-9, "rk %#08x", tt.rk)
	}
}
