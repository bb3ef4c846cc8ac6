package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	xhtml "golang.org/x/net/html"
)

// Document はレンダリング結果
type Document struct {
	HTML       template.HTML
	Components []ComponentRef
}

// Renderer は前処理 -> goldmark -> コンポーネント展開 を行います。並行に使って構いません。
type Renderer struct {
	registry *Registry
	md       goldmark.Markdown
}

func NewRenderer(reg *Registry) *Renderer {
	if reg == nil {
		reg = DefaultRegistry()
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(externalLinkTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // 単独の改行は <br>
			html.WithUnsafe(),    // 生HTMLは前処理で許可タグだけになっている
		),
	)
	return &Renderer{registry: reg, md: md}
}

func (r *Renderer) Registry() *Registry {
	return r.registry
}

// Render は raw を描画します。空や空白だけの入力は nil, nil (描画なし) です。
func (r *Renderer) Render(raw string) (*Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(Preprocess(raw, r.registry)), &buf); err != nil {
		return nil, fmt.Errorf("markdown: convert: %w", err)
	}
	expanded, refs, err := r.expand(buf.String())
	if err != nil {
		return nil, err
	}
	return &Document{HTML: template.HTML(expanded), Components: refs}, nil
}

// externalLinkTransformer は http(s) のリンクを新しいタブで開くようにします。
type externalLinkTransformer struct{}

func (externalLinkTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok && isExternal(string(link.Destination)) {
			link.SetAttributeString("target", []byte("_blank"))
			link.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}

func isExternal(dest string) bool {
	d := strings.ToLower(dest)
	return strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://")
}

type frame struct {
	comp  component
	attrs map[string]string
	buf   strings.Builder
}

// expand は描画済みHTML中の許可コンポーネントをレンダラの出力に置き換えます。
// 入れ子は内側から展開されます。閉じられていないコンポーネントは末尾で閉じます。
func (r *Renderer) expand(src string) (string, []ComponentRef, error) {
	z := xhtml.NewTokenizer(strings.NewReader(src))
	root := &frame{}
	stack := []*frame{root}
	var refs []ComponentRef

	closeTop := func() error {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out, err := top.comp.render(top.attrs, template.HTML(top.buf.String()))
		if err != nil {
			return fmt.Errorf("markdown: render <%s>: %w", top.comp.name, err)
		}
		stack[len(stack)-1].buf.WriteString(string(out))
		return nil
	}

	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return "", nil, fmt.Errorf("markdown: tokenize: %w", err)
			}
			break
		}
		raw := string(z.Raw()) // TagName がバッファを書き換えるので先にコピー
		top := stack[len(stack)-1]

		switch tt {
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			comp, ok := r.registry.lookup(string(name))
			if !ok {
				top.buf.WriteString(raw)
				continue
			}
			attrs := readAttrs(z, hasAttr)
			refs = append(refs, ComponentRef{Name: comp.name, Attrs: attrs})
			if tt == xhtml.SelfClosingTagToken {
				out, err := comp.render(attrs, "")
				if err != nil {
					return "", nil, fmt.Errorf("markdown: render <%s>: %w", comp.name, err)
				}
				top.buf.WriteString(string(out))
				continue
			}
			stack = append(stack, &frame{comp: comp, attrs: attrs})

		case xhtml.EndTagToken:
			name, _ := z.TagName()
			comp, ok := r.registry.lookup(string(name))
			if !ok {
				top.buf.WriteString(raw)
				continue
			}
			if len(stack) == 1 || top.comp.name != comp.name {
				// 対応する開始タグが無い終了タグは捨てる
				continue
			}
			if err := closeTop(); err != nil {
				return "", nil, err
			}

		default:
			top.buf.WriteString(raw)
		}
	}

	for len(stack) > 1 {
		if err := closeTop(); err != nil {
			return "", nil, err
		}
	}
	return root.buf.String(), refs, nil
}

func readAttrs(z *xhtml.Tokenizer, hasAttr bool) map[string]string {
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = UnescapeAttr(string(val))
	}
	return attrs
}

// UnescapeAttr はMarkdownエディタが付けたバックスラッシュエスケープを外します。
// コンポーネントの属性値にだけ適用し、本文には適用しません。
func UnescapeAttr(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("_*[]()#+-.!\\`~", s[i+1]) >= 0 {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
