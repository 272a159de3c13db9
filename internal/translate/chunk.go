package translate

import (
	"regexp"
	"strings"
)

// 文末記号（devanagari danda含む）の直後の空白で分割する
var sentenceBoundary = regexp.MustCompile(`(?:[।.!?;])\s+`)

// splitText はテキストをchunkSize以下のチャンクへ分割する。
// 可能な限り文境界で区切り、1文が長すぎる場合は単語単位で分割する。
func splitText(text string, chunkSize int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range sentences {
		switch {
		case len(sentence) > chunkSize:
			flush()
			chunks = append(chunks, splitWords(sentence, chunkSize)...)
		case current.Len()+len(sentence)+1 <= chunkSize:
			current.WriteString(sentence)
			current.WriteString(" ")
		default:
			flush()
			current.WriteString(sentence)
			current.WriteString(" ")
		}
	}
	flush()

	return chunks
}

// splitSentences は文末記号を保持したまま文単位に分割する。
func splitSentences(text string) []string {
	indexes := sentenceBoundary.FindAllStringIndex(text, -1)

	var sentences []string
	prev := 0
	for _, idx := range indexes {
		// 文末記号（idx[0]の1バイト相当）までを文に含め、空白は捨てる
		end := idx[0] + boundaryRuneLen(text[idx[0]:])
		sentences = append(sentences, text[prev:end])
		prev = idx[1]
	}
	if prev < len(text) {
		sentences = append(sentences, text[prev:])
	}
	return sentences
}

// boundaryRuneLen は境界位置の文末記号のバイト長を返す（danda「।」は3バイト）。
func boundaryRuneLen(s string) int {
	for _, r := range s {
		return len(string(r))
	}
	return 0
}

// splitWords は1文をchunkSize以下の単語チャンクへ分割する。
func splitWords(sentence string, chunkSize int) []string {
	words := strings.Fields(sentence)

	var chunks []string
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > chunkSize && current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(word)
		current.WriteString(" ")
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}
