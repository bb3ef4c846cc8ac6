package markdown

import (
	"regexp"
	"strings"
)

var autolinkPattern = regexp.MustCompile(`^<((?i:https?)://[^\s<>]+)>`)

// Preprocess はパース前の本文を整えます。
//
//  1. <https://...> 形式の自動リンクを [url](url) に変換する
//  2. 登録済みコンポーネントの開始・終了タグ以外の "<" を "&lt;" にエスケープする
//  3. コンポーネントのタグだけの行を空行で挟み、中身をMarkdownとして解釈させる
//
// コードブロックとインラインコードの中は変更しません。
func Preprocess(raw string, reg *Registry) string {
	var out strings.Builder
	out.Grow(len(raw) + 16)

	var text strings.Builder // フェンス外の未処理テキスト
	flush := func() {
		if text.Len() > 0 {
			out.WriteString(escapeInline(text.String(), reg))
			text.Reset()
		}
	}

	var fence string // 開いているフェンス ("```" や "~~~~")
	for _, line := range strings.SplitAfter(raw, "\n") {
		marker := fenceMarker(line)
		switch {
		case fence != "":
			out.WriteString(line)
			if marker != "" && marker[0] == fence[0] && len(marker) >= len(fence) &&
				strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), marker[:1])) == "" {
				fence = ""
			}
		case marker != "":
			flush()
			fence = marker
			out.WriteString(line)
		case isComponentLine(line, reg):
			// 空行が無いとタグ行から続く行までが生のHTMLブロックになる
			text.WriteString("\n" + strings.TrimRight(line, "\r\n") + "\n\n")
		default:
			text.WriteString(line)
		}
	}
	flush()
	return out.String()
}

// fenceMarker は行がコードフェンスならその記号列 ("```" 以上) を返します。
func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return ""
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return ""
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return ""
	}
	// ``` の info string にバッククォートは入らない
	if c == '`' && strings.Contains(trimmed[n:], "`") {
		return ""
	}
	return trimmed[:n]
}

func escapeInline(s string, reg *Registry) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			// 既存のエスケープはそのまま
			b.WriteString(s[i : i+2])
			i += 2
		case c == '`':
			n := runLength(s, i, '`')
			end := closingBackticks(s, i+n, n)
			if end < 0 {
				b.WriteString(s[i : i+n])
				i += n
				continue
			}
			b.WriteString(s[i : end+n])
			i = end + n
		case c == '<':
			if m := autolinkPattern.FindStringSubmatch(s[i:]); m != nil {
				b.WriteString("[" + m[1] + "](" + m[1] + ")")
				i += len(m[0])
				continue
			}
			if isComponentTag(s[i+1:], reg) {
				b.WriteByte('<')
			} else {
				b.WriteString("&lt;")
			}
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func runLength(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

// closingBackticks は from 以降で長さ n のバッククォート列の位置を返します。無ければ -1。
func closingBackticks(s string, from, n int) int {
	for i := from; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		m := runLength(s, i, '`')
		if m == n {
			return i
		}
		i += m
	}
	return -1
}

// isComponentLine は行がコンポーネントの開始・終了・自己終了タグひとつだけかを判定します。
func isComponentLine(line string, reg *Registry) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 3 || trimmed[0] != '<' || !isComponentTag(trimmed[1:], reg) {
		return false
	}
	var quote byte
	for i := 1; i < len(trimmed); i++ {
		c := trimmed[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i == len(trimmed)-1
		}
	}
	return false
}

// isComponentTag は "<" の直後が登録済みコンポーネントの Name か /Name かを判定します。
func isComponentTag(rest string, reg *Registry) bool {
	rest = strings.TrimPrefix(rest, "/")
	n := 0
	for n < len(rest) && isNameByte(rest[n]) {
		n++
	}
	if n == 0 || !reg.isTagName(rest[:n]) {
		return false
	}
	if n == len(rest) {
		return true
	}
	switch rest[n] {
	case ' ', '\t', '\n', '\r', '>', '/':
		return true
	}
	return false
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
