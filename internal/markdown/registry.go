// Package markdown はコンポーネント埋め込み付きMarkdownの前処理とレンダリングを行います。
package markdown

import (
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"sort"
	"strings"
)

var (
	ErrInvalidComponentName = errors.New("markdown: invalid component name")
	ErrDuplicateComponent   = errors.New("markdown: component already registered")
	ErrNilRenderer          = errors.New("markdown: nil renderer")
	ErrMissingAttribute     = errors.New("markdown: missing component attribute")
)

// RendererFunc はコンポーネントをHTMLに展開します。attrs のキーは小文字です。
type RendererFunc func(attrs map[string]string, children template.HTML) (template.HTML, error)

// ComponentRef は文書中に現れたコンポーネント
type ComponentRef struct {
	Name  string
	Attrs map[string]string
}

var componentNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// htmlBlockTags はMarkdownがHTMLブロックとして扱うタグ名。コンポーネント名には使えない。
var htmlBlockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "base": true, "basefont": true,
	"blockquote": true, "body": true, "caption": true, "center": true, "col": true,
	"colgroup": true, "dd": true, "details": true, "dialog": true, "dir": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "frame": true, "frameset": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"head": true, "header": true, "hr": true, "html": true, "iframe": true,
	"legend": true, "li": true, "link": true, "main": true, "menu": true,
	"menuitem": true, "nav": true, "noframes": true, "ol": true, "optgroup": true,
	"option": true, "p": true, "param": true, "pre": true, "script": true,
	"section": true, "source": true, "style": true, "summary": true, "table": true,
	"tbody": true, "td": true, "textarea": true, "tfoot": true, "th": true,
	"thead": true, "title": true, "tr": true, "track": true, "ul": true,
}

type component struct {
	name   string
	render RendererFunc
}

// Registry は埋め込みを許可するコンポーネントの一覧です。
// 名前の検証は登録時に行い、レンダリング中は照合だけをします。
type Registry struct {
	byLower map[string]component
}

func NewRegistry() *Registry {
	return &Registry{byLower: make(map[string]component)}
}

func (r *Registry) Register(name string, fn RendererFunc) error {
	if !componentNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must be PascalCase", ErrInvalidComponentName, name)
	}
	lower := strings.ToLower(name)
	if htmlBlockTags[lower] {
		return fmt.Errorf("%w: %q collides with an HTML block tag", ErrInvalidComponentName, name)
	}
	if fn == nil {
		return fmt.Errorf("%w: %q", ErrNilRenderer, name)
	}
	if existing, ok := r.byLower[lower]; ok {
		return fmt.Errorf("%w: %q (as %q)", ErrDuplicateComponent, name, existing.name)
	}
	r.byLower[lower] = component{name: name, render: fn}
	return nil
}

// MustRegister は起動時の固定登録用
func (r *Registry) MustRegister(name string, fn RendererFunc) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// Names は登録名をソートして返します。
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byLower))
	for _, c := range r.byLower {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

// lookup はHTMLトークナイザが小文字化したタグ名で引きます。
func (r *Registry) lookup(tag string) (component, bool) {
	c, ok := r.byLower[strings.ToLower(tag)]
	return c, ok
}

// isTagName は前処理で使う。大文字小文字まで登録名と一致する必要がある。
func (r *Registry) isTagName(name string) bool {
	c, ok := r.byLower[strings.ToLower(name)]
	return ok && c.name == name
}
