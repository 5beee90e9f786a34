package parser

import "rw-translator/internal/inidoc"

// ExtractedText represents a translatable value found in a mod file.
type ExtractedText struct {
	// Text is the source-language value.
	Text string
	// File is the source file path.
	File string
	// Section and Key locate the value inside the file.
	Section string
	Key     string
	// Translations holds existing <key>_<lang> values by language code.
	Translations map[string]string
	// Context holds additional context for prompts (file, section, key).
	Context map[string]string
}

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the path to the parsed file.
	FilePath string
	// FileType is the detected type (ini, template).
	FileType string
	// Texts are the extracted translatable values.
	Texts []ExtractedText
	// Store holds the current values of the file.
	Store *inidoc.Store
	// Document is the handle needed to write Store back with the original formatting.
	Document *inidoc.Document
}

// Parser is the interface for mod file parsers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse loads a file and extracts its translatable values.
	Parse(filePath string) (*ParseResult, error)
	// Reconstruct applies translations for lang and renders the file.
	Reconstruct(result *ParseResult, lang string, translations map[string]string) ([]byte, error)
	// Save writes the current values of result back to its file.
	Save(result *ParseResult) error
}
