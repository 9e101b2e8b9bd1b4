package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"
)

// compound holds the streams of a legacy workbook container.
type compound struct {
	workbook []byte
	summary  []byte
	biff5    bool
}

// readXLS reads one worksheet of a legacy BIFF8 workbook.
func readXLS(data []byte, want string) (*sheetData, error) {
	c, err := readCompound(data)
	if err != nil {
		return nil, err
	}
	if c.workbook == nil {
		if c.biff5 {
			return nil, fmt.Errorf("%w: Excel 5.0/95 workbooks are not supported", ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("%w: no Workbook stream", ErrUnsupportedFormat)
	}

	wb, err := decodeWorkbook(c.workbook)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.name
	}
	sheetName, err := pickSheet(names, want)
	if err != nil {
		return nil, err
	}

	grid, err := wb.readSheet(sheetName)
	if err != nil {
		return nil, err
	}

	return &sheetData{
		name:     sheetName,
		grid:     grid,
		metadata: summaryMetadata(c.summary),
	}, nil
}

// readCompound walks the OLE2 directory and collects the streams we use.
func readCompound(data []byte) (*compound, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	c := &compound{}
	for {
		entry, err := doc.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}

		name := strings.TrimPrefix(entry.Name, "\x05")
		switch {
		case strings.EqualFold(name, "Workbook"):
			if c.workbook, err = io.ReadAll(entry); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
		case strings.EqualFold(name, "Book"):
			c.biff5 = true
		case name == "SummaryInformation" && entry.Name != name:
			// Metadata only; a broken property stream is not fatal.
			if summary, err := io.ReadAll(entry); err == nil {
				c.summary = summary
			}
		}
	}

	return c, nil
}

// summaryMetadata extracts title and author from a SummaryInformation
// property set stream.
func summaryMetadata(stream []byte) map[string]string {
	metadata := make(map[string]string)
	if len(stream) == 0 {
		return metadata
	}

	props, err := msoleps.NewFrom(bytes.NewReader(stream))
	if err != nil {
		return metadata
	}

	for _, p := range props.Property {
		if p == nil {
			continue
		}
		value := strings.TrimRight(p.String(), "\x00")
		if value == "" {
			continue
		}
		switch strings.ToLower(p.Name) {
		case "title":
			metadata["title"] = value
		case "author", "creator":
			metadata["author"] = value
		}
	}

	return metadata
}
