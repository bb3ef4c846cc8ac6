package markdown

import (
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// Text は端末表示用のプレーンテキストを返します。
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	w := &textWriter{}
	z := xhtml.NewTokenizer(strings.NewReader(string(d.HTML)))
	var links []linkStart
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break // io.EOF を含む
		}
		switch tt {
		case xhtml.TextToken:
			w.text(string(z.Text()))
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			switch tag {
			case "a":
				href := ""
				for hasAttr {
					var k, v []byte
					k, v, hasAttr = z.TagAttr()
					if string(k) == "href" {
						href = string(v)
					}
				}
				links = append(links, linkStart{href: href, at: w.len()})
			case "br":
				w.newline(1)
			case "hr":
				w.newline(1)
				w.raw("────────")
				w.newline(2)
			case "li":
				w.newline(1)
				w.raw("• ")
			case "pre":
				w.newline(2)
				w.pre++
			case "h1", "h2", "h3", "h4", "h5", "h6":
				w.newline(2)
				w.raw(strings.Repeat("#", int(tag[1]-'0')) + " ")
			case "summary", "figcaption":
				w.newline(1)
				w.raw("▸ ")
			default:
				if blockTags[tag] {
					w.newline(2)
				}
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch tag {
			case "a":
				if n := len(links); n > 0 {
					l := links[n-1]
					links = links[:n-1]
					if l.href != "" && strings.TrimSpace(w.since(l.at)) != l.href {
						w.raw(" (" + l.href + ")")
					}
				}
			case "pre":
				if w.pre > 0 {
					w.pre--
				}
				w.newline(2)
			case "td", "th":
				w.raw("\t")
			case "tr", "summary", "figcaption":
				w.newline(1)
			default:
				if blockTags[tag] {
					w.newline(2)
				}
			}
		}
	}
	out := blankLines.ReplaceAllString(w.String(), "\n\n")
	return strings.TrimSpace(out)
}

type linkStart struct {
	href string
	at   int
}

var blockTags = map[string]bool{
	"p": true, "div": true, "ul": true, "ol": true, "blockquote": true,
	"table": true, "aside": true, "details": true, "figure": true, "section": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// textWriter は pre の外では空白を詰めて書き込みます。
type textWriter struct {
	buf []byte
	pre int
}

func (w *textWriter) len() int            { return len(w.buf) }
func (w *textWriter) since(at int) string { return string(w.buf[at:]) }
func (w *textWriter) String() string      { return string(w.buf) }

func (w *textWriter) raw(s string) {
	w.buf = append(w.buf, s...)
}

func (w *textWriter) atLineStart() bool {
	return len(w.buf) == 0 || w.buf[len(w.buf)-1] == '\n'
}

func (w *textWriter) endsWithSpace() bool {
	return len(w.buf) > 0 && w.buf[len(w.buf)-1] == ' '
}

func (w *textWriter) text(s string) {
	if w.pre > 0 {
		w.raw(s)
		return
	}
	if s == "" {
		return
	}
	lead := isSpace(s[0])
	trail := isSpace(s[len(s)-1])
	body := strings.Join(strings.Fields(s), " ")
	if (lead || body == "") && !w.atLineStart() && !w.endsWithSpace() {
		w.raw(" ")
	}
	if body == "" {
		return
	}
	w.raw(body)
	if trail {
		w.raw(" ")
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// newline は末尾の空白を落としてから改行が n 個以上続くようにします。先頭では何もしません。
func (w *textWriter) newline(n int) {
	for len(w.buf) > 0 && (w.buf[len(w.buf)-1] == ' ' || w.buf[len(w.buf)-1] == '\t') {
		w.buf = w.buf[:len(w.buf)-1]
	}
	if len(w.buf) == 0 {
		return
	}
	have := 0
	for i := len(w.buf) - 1; i >= 0 && w.buf[i] == '\n'; i-- {
		have++
	}
	for ; have < n; have++ {
		w.buf = append(w.buf, '\n')
	}
}
