package navigation

import "fmt"

// Effects は移動のたびに呼ばれる副作用 (画面遷移・スクロール・読み上げ) です。
type Effects interface {
	Navigate(pos Position, path string)
	ScrollToTop()
	Announce(message string)
}

type nopEffects struct{}

func (nopEffects) Navigate(Position, string) {}
func (nopEffects) ScrollToTop()              {}
func (nopEffects) Announce(string)           {}

// Controller は現在位置とサイドバーの開閉を持ち、移動操作を受け付けます。
// 位置が変わらない操作は false を返し、Effects を呼びません。
type Controller struct {
	outline     *Outline
	effects     Effects
	pos         Position
	sidebarOpen bool
}

// NewController は start を補正した位置から始まる Controller を作ります。
// 初期位置の設定では Effects を呼びません。
func NewController(outline *Outline, start Position, effects Effects) *Controller {
	if effects == nil {
		effects = nopEffects{}
	}
	pos, _ := outline.Resolve(start)
	return &Controller{outline: outline, effects: effects, pos: pos, sidebarOpen: true}
}

func (c *Controller) Current() Position {
	return c.pos
}

func (c *Controller) Outline() *Outline {
	return c.outline
}

func (c *Controller) SidebarOpen() bool {
	return c.sidebarOpen
}

func (c *Controller) ToggleSidebar() bool {
	c.sidebarOpen = !c.sidebarOpen
	return c.sidebarOpen
}

func (c *Controller) Next() bool {
	next, ok := c.outline.Next(c.pos)
	if !ok {
		return false
	}
	return c.moveTo(next, "")
}

func (c *Controller) Previous() bool {
	prev, ok := c.outline.Previous(c.pos)
	if !ok {
		return false
	}
	return c.moveTo(prev, "")
}

// GoToUnit は unitNumber のユニットの先頭チャンクへ移動します。存在しなければ何もしません。
func (c *Controller) GoToUnit(unitNumber string) bool {
	if _, ok := c.outline.Unit(unitNumber); !ok {
		return false
	}
	return c.moveTo(Position{UnitNumber: unitNumber}, "")
}

// GoToChunk は現在のユニット内で移動します。範囲外なら先頭チャンクへ補正します。
func (c *Controller) GoToChunk(idx ChunkIndex) bool {
	return c.Resolve(Position{UnitNumber: c.pos.UnitNumber, Chunk: idx})
}

// Resolve はURLなど外部から来た位置へ移動します。範囲外や存在しないユニットは補正し、
// 補正したことを読み上げます。
func (c *Controller) Resolve(pos Position) bool {
	resolved, correction := c.outline.Resolve(pos)
	var note string
	switch correction {
	case CorrectionChunkOutOfRange:
		note = fmt.Sprintf("Chunk %d does not exist in unit %s. ", pos.Chunk.Number(), pos.UnitNumber)
	case CorrectionUnknownUnit:
		note = fmt.Sprintf("Unit %s does not exist. ", pos.UnitNumber)
	}
	return c.moveTo(resolved, note)
}

// moveTo は補正があれば同じ位置でもURLを書き換えて読み上げます。
func (c *Controller) moveTo(pos Position, note string) bool {
	if c.outline.Empty() || (pos == c.pos && note == "") {
		return false
	}
	c.pos = pos
	c.effects.Navigate(pos, c.outline.Path(pos))
	c.effects.ScrollToTop()
	c.effects.Announce(note + c.describe(pos))
	return true
}

// describe は読み上げ用の行き先の説明
func (c *Controller) describe(pos Position) string {
	u, ok := c.outline.Unit(pos.UnitNumber)
	if !ok {
		return ""
	}
	msg := fmt.Sprintf("Unit %s: %s, chunk %d of %d", u.UnitNumber, u.Title, pos.Chunk.Number(), len(u.Chunks))
	if int(pos.Chunk) < len(u.Chunks) && u.Chunks[pos.Chunk].Title != "" {
		msg += ": " + u.Chunks[pos.Chunk].Title
	}
	return msg
}

// Dispatch は HandleKey の結果を実行します。
func (c *Controller) Dispatch(a Action) bool {
	switch a.Kind {
	case ActionNext:
		return c.Next()
	case ActionPrevious:
		return c.Previous()
	case ActionGoToUnit:
		return c.GoToUnit(a.UnitNumber)
	case ActionToggleSidebar:
		c.ToggleSidebar()
		return true
	default:
		return false
	}
}
