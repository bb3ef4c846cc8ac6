package markdown

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// DefaultRegistry はコース本文で使えるコンポーネントを登録済みの Registry を返します。
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("Callout", renderCallout)
	r.MustRegister("Collapsible", renderCollapsible)
	r.MustRegister("Video", renderVideo)
	r.MustRegister("Exercise", renderExerciseEmbed)
	return r
}

var calloutKinds = map[string]bool{"note": true, "tip": true, "warning": true, "info": true}

func renderCallout(attrs map[string]string, children template.HTML) (template.HTML, error) {
	kind := strings.ToLower(attrs["type"])
	if !calloutKinds[kind] {
		kind = "note"
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<aside class="callout callout-%s" role="note">`, kind)
	if title := attrs["title"]; title != "" {
		fmt.Fprintf(&b, `<p class="callout-title">%s</p>`, template.HTMLEscapeString(title))
	}
	b.WriteString(string(children))
	b.WriteString(`</aside>`)
	return template.HTML(b.String()), nil
}

func renderCollapsible(attrs map[string]string, children template.HTML) (template.HTML, error) {
	title := attrs["title"]
	if title == "" {
		title = "Details"
	}
	return template.HTML(fmt.Sprintf(`<details class="collapsible"><summary>%s</summary>%s</details>`,
		template.HTMLEscapeString(title), children)), nil
}

func renderVideo(attrs map[string]string, _ template.HTML) (template.HTML, error) {
	src := attrs["src"]
	u, err := url.Parse(src)
	if src == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: Video needs an http(s) src, got %q", ErrMissingAttribute, src)
	}
	title := attrs["title"]
	if title == "" {
		title = "Video"
	}
	return template.HTML(fmt.Sprintf(
		`<figure class="video"><iframe src="%s" title="%s" loading="lazy" allowfullscreen></iframe><figcaption><a href="%s" target="_blank" rel="noopener noreferrer">%s</a></figcaption></figure>`,
		template.HTMLEscapeString(src), template.HTMLEscapeString(title),
		template.HTMLEscapeString(src), template.HTMLEscapeString(title))), nil
}

// renderExerciseEmbed は本文中の演習の差し込み位置。中身はチャンクの演習一覧から描画する。
func renderExerciseEmbed(attrs map[string]string, children template.HTML) (template.HTML, error) {
	id := attrs["id"]
	if id == "" {
		return "", fmt.Errorf("%w: Exercise needs an id", ErrMissingAttribute)
	}
	label := attrs["title"]
	if label == "" {
		label = "Exercise"
	}
	return template.HTML(fmt.Sprintf(`<div class="exercise-embed" data-exercise-id="%s"><p class="exercise-embed-label">%s</p>%s</div>`,
		template.HTMLEscapeString(id), template.HTMLEscapeString(label), children)), nil
}
