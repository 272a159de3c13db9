// Package document はドキュメントのテキスト抽出と翻訳を提供する。
package document

import (
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
	"github.com/IND-Anshuman/BHASHASETU/internal/subtitle"
)

// テキストノード内に残ったマークアップを除去するポリシー
var stripPolicy = bluemonday.StrictPolicy()

// Extract はファイル名の拡張子に応じてテキストを抽出する。
// 対応フォーマットは.txt、.srt、.html/.htm。
// PDF・DOCXは本体にテキスト層を持たないことがあるためサポート外とする。
func Extract(filename string, data []byte) (text string, fileType string, err error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	switch ext {
	case "txt":
		return string(data), ext, nil
	case "srt":
		entries, err := subtitle.Parse(string(data))
		if err != nil {
			return "", ext, err
		}
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, e.Text)
		}
		return strings.Join(lines, "\n"), ext, nil
	case "html", "htm":
		return extractHTML(string(data)), ext, nil
	default:
		return "", ext, model.NewUnsupportedFormatError(ext)
	}
}

// extractHTML はHTMLからテキストノードのみを取り出す。
// script/style内のテキストは除外する。
func extractHTML(content string) string {
	node, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return strings.TrimSpace(stripPolicy.Sanitize(sb.String()))
}
