// Package langcode normalizes BCP-47-ish language tags (e.g. "zh-CN",
// "en_US", "PT-br") down to the bare ISO 639-1 subtag ("zh", "en", "pt")
// that the ASR engine registry's supported-language sets are keyed by.
package langcode

import "strings"

// Normalize lowercases tag and takes the primary subtag, treating '-' and
// '_' as equivalent separators. "zh-CN" and "zh_Hans_CN" both normalize to
// "zh"; a bare "EN" normalizes to "en".
func Normalize(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	tag = strings.ToLower(tag)
	tag = strings.ReplaceAll(tag, "_", "-")
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

// WhisperLanguages is the set of ISO 639-1 codes OpenAI's Whisper family
// supports, used by the Whisper-family engine to reject unsupported codes
// at construction.
var WhisperLanguages = []string{
	"en", "zh", "de", "es", "ru", "ko", "fr", "ja", "pt", "tr", "pl", "ca",
	"nl", "ar", "sv", "it", "id", "hi", "fi", "vi", "he", "uk", "el", "ms",
	"cs", "ro", "da", "hu", "ta", "no", "th", "ur", "hr", "bg", "lt", "la",
	"mi", "ml", "cy", "sk", "te", "fa", "lv", "bn", "sr", "az", "sl", "kn",
	"et", "mk", "br", "eu", "is", "hy", "ne", "mn", "bs", "kk", "sq", "sw",
	"gl", "mr", "pa", "si", "km", "sn", "yo", "so", "af", "oc", "ka", "be",
	"tg", "sd", "gu", "am", "yi", "lo", "uz", "fo", "ht", "ps", "tk", "nn",
	"mt", "sa", "lb", "my", "bo", "tl", "mg", "as", "tt", "haw", "ln", "ha",
	"ba", "jw", "su", "yue",
}

// Supports reports whether set contains the normalized form of tag.
func Supports(set []string, tag string) bool {
	norm := Normalize(tag)
	for _, s := range set {
		if s == norm {
			return true
		}
	}
	return false
}
