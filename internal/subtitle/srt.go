// Package subtitle はSRT字幕の解析・整形・翻訳を提供する。
package subtitle

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// Entry はSRTの1エントリ（番号・タイムスタンプ・本文）。
type Entry struct {
	Index     int
	Timestamp string
	Text      string
}

// CRLF混在や空行のゆらぎを許容するSRTエントリのパターン
var srtPattern = regexp.MustCompile(
	`(\d+)\s*\r?\n\s*(\d{2}:\d{2}:\d{2},\d{3} --> \d{2}:\d{2}:\d{2},\d{3})\s*\r?\n((?s:.*?))(?:\r?\n\s*\r?\n|\z)`)

// Parse はSRTコンテンツをエントリ一覧に解析する。
// 有効なエントリが1件も無い場合はINVALID_SRTエラーを返す。
func Parse(content string) ([]Entry, error) {
	matches := srtPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil, model.NewInvalidSRTError()
	}

	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Index:     index,
			Timestamp: m[2],
			Text:      strings.TrimSpace(m[3]),
		})
	}

	if len(entries) == 0 {
		return nil, model.NewInvalidSRTError()
	}
	return entries, nil
}

// Format はエントリ一覧をSRT形式へ整形する。
func Format(entries []Entry) string {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d\n%s\n%s\n", e.Index, e.Timestamp, e.Text))
	}
	return sb.String()
}

// Merge は複数のSRTコンテンツをエントリ番号順に結合する。
// 複数言語トラックの統合に使用する。
func Merge(contents []string) (string, error) {
	var all []Entry
	for _, content := range contents {
		entries, err := Parse(content)
		if err != nil {
			return "", err
		}
		all = append(all, entries...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Index < all[j].Index
	})

	return Format(all), nil
}
