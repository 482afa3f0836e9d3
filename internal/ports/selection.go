package ports

// Selection is the host editor's text selection. When nothing is selected
// Text is empty and CaretLineText holds the line under the caret.
type Selection struct {
	FilePath      string `json:"filePath"` // absolute path of the document
	Text          string `json:"text"`
	TopLine       int    `json:"topLine"` // 1-based
	CaretLineText string `json:"caretLineText,omitempty"`
}

// IsEmpty reports whether no text is selected
func (s Selection) IsEmpty() bool {
	return s.Text == ""
}
