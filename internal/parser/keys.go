package parser

import (
	"sort"
	"strings"
)

// TranslationKeys are the keys whose values are shown to players and may be
// translated, in display order.
var TranslationKeys = []string{
	"displayText",
	"displayDescription",
	"text",
	"description",
	"isLockedMessage",
	"isLockedAltMessage",
	"isLockedAlt2Message",
	"showMessageToPlayer",
	"showMessageToAllPlayer",
	"showMessageToAllEnemyPlayers",
	"cannotPlaceMessage",
	"showQuickWarLogToPlayer",
	"showQuickWarLogToAllPlayers",
	"displayName",
	"displayNameShort",
}

// Languages maps the language suffixes the game understands to English names.
var Languages = map[string]string{
	"en":    "English",
	"zh":    "Simplified Chinese",
	"zh-tw": "Traditional Chinese",
	"ru":    "Russian",
	"ja":    "Japanese",
	"de":    "German",
	"es":    "Spanish",
	"fr":    "French",
	"pt":    "Portuguese",
	"it":    "Italian",
	"nl":    "Dutch",
	"tr":    "Turkish",
	"pl":    "Polish",
	"uk":    "Ukrainian",
	"ar":    "Arabic",
	"bg":    "Bulgarian",
	"ca":    "Catalan",
	"cs":    "Czech",
	"da":    "Danish",
	"el":    "Greek",
	"et":    "Estonian",
	"fi":    "Finnish",
	"he":    "Hebrew",
	"hi":    "Hindi",
	"hr":    "Croatian",
	"hu":    "Hungarian",
	"id":    "Indonesian",
	"is":    "Icelandic",
	"ko":    "Korean",
	"lt":    "Lithuanian",
	"lv":    "Latvian",
	"ms":    "Malay",
	"mt":    "Maltese",
	"no":    "Norwegian",
	"ro":    "Romanian",
	"sk":    "Slovak",
	"sl":    "Slovenian",
	"sv":    "Swedish",
	"th":    "Thai",
	"vi":    "Vietnamese",
}

// builtinPrefix marks values that reference built-in game strings.
const builtinPrefix = "i:gui"

// LanguageKey is the key holding the lang translation of key.
func LanguageKey(key, lang string) string {
	return key + "_" + lang
}

// LanguageName returns the English name for a language code, or the code itself.
func LanguageName(code string) string {
	if name, ok := Languages[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// IsLanguage reports whether code is a known language suffix.
func IsLanguage(code string) bool {
	_, ok := Languages[strings.ToLower(code)]
	return ok
}

// LanguageCodes lists the known codes sorted alphabetically.
func LanguageCodes() []string {
	codes := make([]string, 0, len(Languages))
	for code := range Languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsTranslatableValue filters out empty values and built-in references.
func IsTranslatableValue(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed != "" && !strings.HasPrefix(trimmed, builtinPrefix)
}
