// Package language は対応言語の定義とスクリプトベースの言語検出を提供する。
// 22のインド言語と英語を対象とする閉じた集合。
package language

import (
	"sort"
	"unicode"
)

// Auto は自動検出を示す特別な言語コード。
const Auto = "auto"

// names は対応言語コードと表示名のマッピング。
var names = map[string]string{
	"hi":  "Hindi",
	"bn":  "Bengali",
	"te":  "Telugu",
	"mr":  "Marathi",
	"ta":  "Tamil",
	"ur":  "Urdu",
	"gu":  "Gujarati",
	"kn":  "Kannada",
	"ml":  "Malayalam",
	"or":  "Odia",
	"pa":  "Punjabi",
	"as":  "Assamese",
	"mai": "Maithili",
	"sa":  "Sanskrit",
	"ks":  "Kashmiri",
	"ne":  "Nepali",
	"sd":  "Sindhi",
	"kok": "Konkani",
	"doi": "Dogri",
	"mni": "Manipuri",
	"sat": "Santali",
	"brx": "Bodo",
	"en":  "English",
}

// Supported は言語コードが対応集合に含まれるかを返す。
// Autoは対応言語扱いしない（検出指示として別途判定する）。
func Supported(code string) bool {
	_, ok := names[code]
	return ok
}

// Name は言語コードの表示名を返す。未対応コードは空文字列を返す。
func Name(code string) string {
	return names[code]
}

// All は全対応言語のコード→表示名マップのコピーを返す。
func All() map[string]string {
	out := make(map[string]string, len(names))
	for code, name := range names {
		out[code] = name
	}
	return out
}

// Codes は全対応言語コードをソート済みで返す。
func Codes() []string {
	codes := make([]string, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Detection は言語検出の結果を表す。
type Detection struct {
	Language   string
	Name       string
	Confidence float64
}

// Detect は入力テキストの言語をスクリプト（文字体系）から推定する。
// 各文字のUnicodeスクリプトを数え、最多のスクリプトに対応する言語を返す。
// 同一スクリプトを共有する言語（デーヴァナーガリー系等）は代表言語に倒す。
// 判定できない場合はLanguage="unknown"、Confidence=0を返す。
func Detect(text string) Detection {
	counts := make(map[string]int)
	letters := 0

	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.Is(unicode.Devanagari, r):
			counts["hi"]++
		case unicode.Is(unicode.Bengali, r):
			counts["bn"]++
		case unicode.Is(unicode.Telugu, r):
			counts["te"]++
		case unicode.Is(unicode.Tamil, r):
			counts["ta"]++
		case unicode.Is(unicode.Arabic, r):
			counts["ur"]++
		case unicode.Is(unicode.Gujarati, r):
			counts["gu"]++
		case unicode.Is(unicode.Kannada, r):
			counts["kn"]++
		case unicode.Is(unicode.Malayalam, r):
			counts["ml"]++
		case unicode.Is(unicode.Oriya, r):
			counts["or"]++
		case unicode.Is(unicode.Gurmukhi, r):
			counts["pa"]++
		case unicode.Is(unicode.Ol_Chiki, r):
			counts["sat"]++
		case unicode.Is(unicode.Meetei_Mayek, r):
			counts["mni"]++
		case r < 128:
			counts["en"]++
		}
	}

	if letters == 0 {
		return Detection{Language: "unknown", Name: "Unknown", Confidence: 0}
	}

	best := ""
	bestCount := 0
	for code, n := range counts {
		if n > bestCount {
			best = code
			bestCount = n
		}
	}

	if best == "" {
		return Detection{Language: "unknown", Name: "Unknown", Confidence: 0}
	}

	return Detection{
		Language:   best,
		Name:       Name(best),
		Confidence: float64(bestCount) / float64(letters),
	}
}
