package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// defaultSheetName replaces labels that sanitize to nothing.
const defaultSheetName = "Sheet"

var forbiddenSheetChars = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// SanitizeSheetName maps a label onto a name Excel accepts: forbidden
// characters become "_", surrounding apostrophes are dropped and the result
// is cut to the first 31 characters.
func SanitizeSheetName(label string) string {
	name := strings.Trim(forbiddenSheetChars.Replace(label), "'")
	name = strings.TrimRight(truncate(name, excelize.MaxSheetNameLength), "'")
	if name == "" {
		return defaultSheetName
	}
	return name
}

// SheetNamer hands out unique sheet names for one workbook. Names are
// compared case-insensitively, as Excel does.
type SheetNamer struct {
	used map[string]struct{}
}

// NewSheetNamer creates an empty SheetNamer.
func NewSheetNamer() *SheetNamer {
	return &SheetNamer{used: make(map[string]struct{})}
}

// Name returns the sanitized label, suffixed with " (2)", " (3)", ... when
// it collides with a name already handed out. The base is shortened so the
// suffixed name still fits.
func (n *SheetNamer) Name(label string) string {
	base := SanitizeSheetName(label)
	name := base
	for i := 2; n.taken(name); i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = strings.TrimRight(truncate(base, excelize.MaxSheetNameLength-len(suffix)), "'") + suffix
	}
	n.used[strings.ToLower(name)] = struct{}{}
	return name
}

func (n *SheetNamer) taken(name string) bool {
	_, ok := n.used[strings.ToLower(name)]
	return ok
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
