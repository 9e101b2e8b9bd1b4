package models

// XLSXMimeType is the MIME type of Office Open XML workbooks.
const XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook is a serialized multi-sheet workbook.
type Workbook struct {
	// FileName is the suggested download name.
	FileName string `json:"file_name"`
	// MimeType is the content type of Data.
	MimeType string `json:"mime_type"`
	// SheetNames lists the final sheet names in order.
	SheetNames []string `json:"sheet_names"`
	// Data is the workbook file content.
	Data []byte `json:"-"`
}
