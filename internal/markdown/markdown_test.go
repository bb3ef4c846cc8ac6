package markdown

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	noop := func(map[string]string, template.HTML) (template.HTML, error) { return "", nil }

	tests := []struct {
		name    string
		comp    string
		fn      RendererFunc
		wantErr error
	}{
		{"正常系: PascalCase", "Quiz", noop, nil},
		{"異常系: 小文字始まり", "quiz", noop, ErrInvalidComponentName},
		{"異常系: 記号を含む", "My-Quiz", noop, ErrInvalidComponentName},
		{"異常系: 空", "", noop, ErrInvalidComponentName},
		{"異常系: HTMLブロックタグと衝突", "Details", noop, ErrInvalidComponentName},
		{"異常系: 既存と大文字小文字違いで重複", "VIDEO", noop, ErrDuplicateComponent},
		{"異常系: 同名で重複", "Callout", noop, ErrDuplicateComponent},
		{"異常系: レンダラが nil", "Widget", nil, ErrNilRenderer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := DefaultRegistry()
			err := reg.Register(tt.comp, tt.fn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, reg.Names(), tt.comp)
		})
	}

	assert.Equal(t, []string{"Callout", "Collapsible", "Exercise", "Video"}, DefaultRegistry().Names())
}

func TestPreprocess(t *testing.T) {
	reg := DefaultRegistry()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"不等号はエスケープ", "<2000 users", "&lt;2000 users"},
		{"自動リンクはMarkdownリンクに", "see <https://example.com/a?b=1>", "see [https://example.com/a?b=1](https://example.com/a?b=1)"},
		{"許可コンポーネントはそのまま", `<Callout type="tip">x</Callout>`, `<Callout type="tip">x</Callout>`},
		{"自己終了タグもそのまま", `Watch <Video src="https://v.example/1" />`, `Watch <Video src="https://v.example/1" />`},
		{"タグだけの行は空行で挟む", "<Callout>\n<2000 users\n</Callout>", "\n<Callout>\n\n&lt;2000 users\n\n</Callout>\n\n"},
		{"属性の中の > ではタグ行を終えない", "<Callout title=\"a > b\">\nx\n", "\n<Callout title=\"a > b\">\n\nx\n"},
		{"大文字小文字が違うとエスケープ", "<callout>", "&lt;callout>"},
		{"前方一致だけではエスケープ", "<CalloutBox>", "&lt;CalloutBox>"},
		{"未登録のタグはエスケープ", "<div>hi</div>", "&lt;div>hi&lt;/div>"},
		{"エスケープ済みはそのまま", `\<b>`, `\<b>`},
		{"インラインコードは変更しない", "`a < b` and a < b", "`a < b` and a &lt; b"},
		{"二重バッククォートのコード", "``x <y> ` z`` <y>", "``x <y> ` z`` &lt;y>"},
		{"閉じないバッククォート", "` <y>", "` &lt;y>"},
		{"フェンス内は変更しない", "```html\n<div>\n```\n<div>", "```html\n<div>\n```\n&lt;div>"},
		{"チルダのフェンス", "~~~~\n<a>\n~~~\nstill <b>\n~~~~\n<c>", "~~~~\n<a>\n~~~\nstill <b>\n~~~~\n&lt;c>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preprocess(tt.in, reg))
		})
	}
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(DefaultRegistry())

	t.Run("正常系: 空や空白だけなら描画しない", func(t *testing.T) {
		for _, in := range []string{"", "   ", "\n\t\n"} {
			doc, err := r.Render(in)
			assert.NoError(t, err)
			assert.Nil(t, doc)
		}
	})

	t.Run("正常系: <2000 users はそのまま文字として表示される", func(t *testing.T) {
		doc, err := r.Render("<2000 users")
		require.NoError(t, err)
		assert.Contains(t, string(doc.HTML), "&lt;2000 users")
		assert.Equal(t, "<2000 users", doc.Text())
	})

	t.Run("正常系: 自動リンクは新しいタブで開くリンクになる", func(t *testing.T) {
		doc, err := r.Render("<https://example.com>")
		require.NoError(t, err)
		html := string(doc.HTML)
		assert.Contains(t, html, `href="https://example.com"`)
		assert.Contains(t, html, `target="_blank"`)
		assert.Contains(t, html, `rel="noopener noreferrer"`)
		assert.Equal(t, "https://example.com", doc.Text())
	})

	t.Run("正常系: 内部リンクには target を付けない", func(t *testing.T) {
		doc, err := r.Render("[next](/courses/intro/units/1/2)")
		require.NoError(t, err)
		assert.Contains(t, string(doc.HTML), `href="/courses/intro/units/1/2"`)
		assert.NotContains(t, string(doc.HTML), "target=")
		assert.Equal(t, "next (/courses/intro/units/1/2)", doc.Text())
	})

	t.Run("正常系: 属性値のエスケープだけを外す", func(t *testing.T) {
		raw := "<Callout title=\"\\_escaped\\_\">\n\nBody \\_escaped\\_ text\n\n</Callout>\n"
		doc, err := r.Render(raw)
		require.NoError(t, err)

		require.Len(t, doc.Components, 1)
		assert.Equal(t, "Callout", doc.Components[0].Name)
		assert.Equal(t, "_escaped_", doc.Components[0].Attrs["title"])

		html := string(doc.HTML)
		assert.Contains(t, html, `<p class="callout-title">_escaped_</p>`)
		assert.Contains(t, html, "Body _escaped_ text")
		assert.NotContains(t, html, "<em>")
		assert.NotContains(t, strings.ToLower(html), "<callout")
	})

	t.Run("正常系: 単独の改行は改行として描画する", func(t *testing.T) {
		doc, err := r.Render("line one\nline two")
		require.NoError(t, err)
		assert.Contains(t, string(doc.HTML), "<br>")
		assert.Equal(t, "line one\nline two", doc.Text())
	})

	t.Run("正常系: 未登録のタグは文字として残る", func(t *testing.T) {
		doc, err := r.Render("<Unknown>hi</Unknown>")
		require.NoError(t, err)
		assert.Contains(t, string(doc.HTML), "&lt;Unknown&gt;")
		assert.Empty(t, doc.Components)
		assert.Equal(t, "<Unknown>hi</Unknown>", doc.Text())
	})

	t.Run("正常系: コードの中の < はエスケープされない", func(t *testing.T) {
		doc, err := r.Render("Use `<T any>` here.\n\n```go\nif a < b {}\n```\n")
		require.NoError(t, err)
		html := string(doc.HTML)
		assert.Contains(t, html, "<code>&lt;T any&gt;</code>")
		assert.Contains(t, html, "if a &lt; b {}")
		assert.NotContains(t, html, `\`)
	})

	t.Run("正常系: 入れ子のコンポーネントは内側から展開される", func(t *testing.T) {
		raw := "<Collapsible title=\"More\">\n\n<Callout type=\"warning\">\n\nCareful\n\n</Callout>\n\n</Collapsible>\n"
		doc, err := r.Render(raw)
		require.NoError(t, err)

		html := string(doc.HTML)
		outer := strings.Index(html, `<details class="collapsible"><summary>More</summary>`)
		inner := strings.Index(html, `<aside class="callout callout-warning" role="note">`)
		require.GreaterOrEqual(t, outer, 0)
		require.Greater(t, inner, outer)
		assert.Contains(t, html, "<p>Careful</p>")

		require.Len(t, doc.Components, 2)
		assert.Equal(t, "Collapsible", doc.Components[0].Name)
		assert.Equal(t, "Callout", doc.Components[1].Name)
	})

	t.Run("正常系: タグを本文と別の行に書いても中身はMarkdownとして描画される", func(t *testing.T) {
		raw := "<Callout type=\"tip\">\n<2000 users use **bold** and [docs](https://docs.example)\n</Callout>\n"
		doc, err := r.Render(raw)
		require.NoError(t, err)

		html := string(doc.HTML)
		assert.Contains(t, html, `<aside class="callout callout-tip" role="note">`)
		assert.Contains(t, html, "&lt;2000 users")
		assert.Contains(t, html, "<strong>bold</strong>")
		assert.Contains(t, html, `<a href="https://docs.example" target="_blank" rel="noopener noreferrer">docs</a>`)
		assert.NotContains(t, html, `\`)
		assert.NotContains(t, html, "**")

		assert.Equal(t, "<2000 users use bold and docs (https://docs.example)", doc.Text())
	})

	t.Run("正常系: 自己終了タグ", func(t *testing.T) {
		doc, err := r.Render(`Watch: <Video src="https://video.example/intro" title="Intro" />`)
		require.NoError(t, err)
		assert.Contains(t, string(doc.HTML), `<iframe src="https://video.example/intro" title="Intro"`)
		require.Len(t, doc.Components, 1)
		assert.Equal(t, map[string]string{"src": "https://video.example/intro", "title": "Intro"}, doc.Components[0].Attrs)
	})

	t.Run("異常系: 必須属性が無いコンポーネント", func(t *testing.T) {
		_, err := r.Render(`<Video title="no src" />`)
		assert.ErrorIs(t, err, ErrMissingAttribute)

		_, err = r.Render(`<Exercise />`)
		assert.ErrorIs(t, err, ErrMissingAttribute)
	})
}

func TestDocument_Text(t *testing.T) {
	r := NewRenderer(nil)
	doc, err := r.Render("# Title\n\nIntro paragraph.\n\n- first\n- second\n\n<Exercise id=\"ex-1\" />\n")
	require.NoError(t, err)

	assert.Equal(t, "# Title\n\nIntro paragraph.\n\n• first\n• second\n\nExercise", doc.Text())

	var nilDoc *Document
	assert.Equal(t, "", nilDoc.Text())
}

func TestUnescapeAttr(t *testing.T) {
	assert.Equal(t, "_a_ *b* [c](d) #e +f -g .h !i \\ `j` ~k~", UnescapeAttr(`\_a\_ \*b\* \[c\]\(d\) \#e \+f \-g \.h \!i \\ \`+"`"+`j\`+"`"+` \~k\~`))
	assert.Equal(t, `\n stays`, UnescapeAttr(`\n stays`))
	assert.Equal(t, `trailing \`, UnescapeAttr(`trailing \`))
}
