package tts

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// LanguageInfo describes one supported target language: its neural
// voice for the primary engine and the plain language code the
// secondary engine accepts instead of a voice.
type LanguageInfo struct {
	Code         string // ISO 639-1 style code used in file names
	Name         string // human-readable name for logs and reports
	Tag          language.Tag
	Voice        string // default neural voice
	FallbackCode string // code for the degrade-path engine
}

var languages = map[string]LanguageInfo{
	"zh": {Code: "zh", Name: "Chinese", Voice: "zh-CN-XiaoxiaoNeural", FallbackCode: "zh-CN"},
	"en": {Code: "en", Name: "English", Voice: "en-US-JennyNeural", FallbackCode: "en"},
	"ja": {Code: "ja", Name: "Japanese", Voice: "ja-JP-NanamiNeural", FallbackCode: "ja"},
	"ko": {Code: "ko", Name: "Korean", Voice: "ko-KR-SunHiNeural", FallbackCode: "ko"},
	"fr": {Code: "fr", Name: "French", Voice: "fr-FR-DeniseNeural", FallbackCode: "fr"},
	"de": {Code: "de", Name: "German", Voice: "de-DE-KatjaNeural", FallbackCode: "de"},
	"es": {Code: "es", Name: "Spanish", Voice: "es-ES-ElviraNeural", FallbackCode: "es"},
	"pt": {Code: "pt", Name: "Portuguese", Voice: "pt-BR-FranciscaNeural", FallbackCode: "pt"},
	"ru": {Code: "ru", Name: "Russian", Voice: "ru-RU-DariyaNeural", FallbackCode: "ru"},
	"ar": {Code: "ar", Name: "Arabic", Voice: "ar-SA-ZariyahNeural", FallbackCode: "ar"},
	"hi": {Code: "hi", Name: "Hindi", Voice: "hi-IN-SwaraNeural", FallbackCode: "hi"},
	"th": {Code: "th", Name: "Thai", Voice: "th-TH-PremwadeeNeural", FallbackCode: "th"},
	"vi": {Code: "vi", Name: "Vietnamese", Voice: "vi-VN-HoaiMyNeural", FallbackCode: "vi"},
	"it": {Code: "it", Name: "Italian", Voice: "it-IT-ElsaNeural", FallbackCode: "it"},
	"tr": {Code: "tr", Name: "Turkish", Voice: "tr-TR-EmelNeural", FallbackCode: "tr"},
	"id": {Code: "id", Name: "Indonesian", Voice: "id-ID-GadisNeural", FallbackCode: "id"},
}

// Lookup returns the language info for a code like "en" or "ja"
func Lookup(code string) (LanguageInfo, bool) {
	info, ok := languages[strings.ToLower(code)]
	if !ok {
		return LanguageInfo{}, false
	}
	info.Tag = language.Make(info.Code)
	return info, true
}

// SupportedCodes lists the known language codes in stable order
func SupportedCodes() []string {
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// voiceLanguage extracts the locale part of a neural voice name,
// e.g. "zh-CN" from "zh-CN-XiaoxiaoNeural".
func voiceLanguage(voice string) string {
	parts := strings.Split(voice, "-")
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return voice
}

// FallbackCodeForVoice derives the degrade-path language code from a
// neural voice identifier, since the secondary engine does not support
// arbitrary voice selection.
func FallbackCodeForVoice(voice string) string {
	locale := voiceLanguage(voice)
	for _, info := range languages {
		if strings.EqualFold(locale, voiceLanguage(info.Voice)) {
			return info.FallbackCode
		}
	}
	// unknown locale: fall back to the bare language subtag
	if idx := strings.Index(locale, "-"); idx > 0 {
		return strings.ToLower(locale[:idx])
	}
	return strings.ToLower(locale)
}
