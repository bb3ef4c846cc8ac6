package navigation

// KeyEvent はキー入力。Key は "ArrowRight" "ArrowLeft" "b" "3" のようなキー名です。
type KeyEvent struct {
	Key        string
	Ctrl       bool
	Alt        bool
	Meta       bool
	Shift      bool
	InEditable bool // テキスト入力欄にフォーカスがある
}

func (e KeyEvent) hasModifier() bool {
	return e.Ctrl || e.Alt || e.Meta || e.Shift
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionNext
	ActionPrevious
	ActionGoToUnit
	ActionToggleSidebar
)

type Action struct {
	Kind       ActionKind
	UnitNumber string // ActionGoToUnit のとき
}

// HandleKey はキー入力をナビゲーション操作に変換します。
//
//   - Ctrl/Cmd+B は入力欄の中でも常にサイドバー開閉
//   - 入力欄にフォーカスがあるときはそれ以外すべて無視
//   - 1〜9 は修飾キーの有無にかかわらずユニットへ移動
//   - 左右矢印は修飾キーが押されていないときだけ
func HandleKey(ev KeyEvent) Action {
	if (ev.Ctrl || ev.Meta) && (ev.Key == "b" || ev.Key == "B") {
		return Action{Kind: ActionToggleSidebar}
	}
	if ev.InEditable {
		return Action{}
	}
	if len(ev.Key) == 1 && ev.Key[0] >= '1' && ev.Key[0] <= '9' {
		return Action{Kind: ActionGoToUnit, UnitNumber: ev.Key}
	}
	if ev.hasModifier() {
		return Action{}
	}
	switch ev.Key {
	case "ArrowRight":
		return Action{Kind: ActionNext}
	case "ArrowLeft":
		return Action{Kind: ActionPrevious}
	}
	return Action{}
}
