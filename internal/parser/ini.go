package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"rw-translator/internal/inidoc"

	"github.com/rs/zerolog/log"
)

// INIParser extracts translatable values from unit .ini and .template files.
type INIParser struct{}

func NewINIParser() *INIParser { return &INIParser{} }

func (p *INIParser) CanParse(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".ini" || ext == ".template"
}

func (p *INIParser) Parse(filePath string) (*ParseResult, error) {
	store, doc, err := inidoc.Load(filePath)
	if err != nil {
		return nil, fmt.Errorf("load ini file: %w", err)
	}

	result := &ParseResult{
		FilePath: filePath,
		FileType: strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."),
		Store:    store,
		Document: doc,
	}
	result.Texts = Extract(filePath, store)

	log.Debug().
		Str("file", filePath).
		Int("texts", len(result.Texts)).
		Msg("Parsed ini file")
	return result, nil
}

// Extract collects every translatable value in store, section by section in
// file order and key by key in catalog order.
func Extract(filePath string, store *inidoc.Store) []ExtractedText {
	var texts []ExtractedText
	for _, name := range store.Sections() {
		section := store.Section(name)
		for _, key := range TranslationKeys {
			value, ok := section.Get(key)
			if !ok || !IsTranslatableValue(value) {
				continue
			}

			existing := map[string]string{}
			for code := range Languages {
				if v, ok := section.Get(LanguageKey(key, code)); ok {
					existing[code] = v
				}
			}

			texts = append(texts, ExtractedText{
				Text:         value,
				File:         filePath,
				Section:      name,
				Key:          key,
				Translations: existing,
				Context: map[string]string{
					"file":    filePath,
					"section": name,
					"key":     key,
				},
			})
		}
	}
	return texts
}

// Apply stores the lang translation of every extracted text found in
// translations (keyed by source text) and returns how many were set. Existing
// translations are kept unless overwrite is set.
func Apply(result *ParseResult, lang string, translations map[string]string, overwrite bool) int {
	applied := 0
	for i := range result.Texts {
		et := &result.Texts[i]
		translated, ok := translations[et.Text]
		if !ok || translated == "" {
			continue
		}
		if _, exists := et.Translations[lang]; exists && !overwrite {
			continue
		}
		result.Store.Set(et.Section, LanguageKey(et.Key, lang), translated)
		if et.Translations == nil {
			et.Translations = map[string]string{}
		}
		et.Translations[lang] = translated
		applied++
	}
	return applied
}

func (p *INIParser) Reconstruct(result *ParseResult, lang string, translations map[string]string) ([]byte, error) {
	if result.Document == nil || result.Store == nil {
		return nil, fmt.Errorf("reconstruct %s: %w", result.FilePath, inidoc.ErrNoDocument)
	}
	Apply(result, lang, translations, true)
	return result.Document.Render(result.Store), nil
}

func (p *INIParser) Save(result *ParseResult) error {
	if err := inidoc.Save(result.Store, result.Document); err != nil {
		return fmt.Errorf("save ini file: %w", err)
	}
	return nil
}
