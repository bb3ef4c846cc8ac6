// Package reader はコースを端末で読むための bubbletea アプリです。
package reader

import (
	"course_hub/internal/apiclient"
	"course_hub/internal/markdown"
	"course_hub/internal/model"
	"course_hub/internal/navigation"
	"course_hub/internal/progress"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	sidebarWidth  = 28
	chromeHeight  = 4 // ヘッダーとステータスとフッター

	statusLoading  = "読み込み中..."
	statusRetrying = "再試行中..."
)

// effects は Controller からの副作用を記録し、Update の最後にまとめて反映します。
type effects struct {
	navigated    bool
	pos          navigation.Position
	scrollTop    bool
	announcement string
}

func (e *effects) Navigate(pos navigation.Position, _ string) {
	e.navigated = true
	e.pos = pos
}

func (e *effects) ScrollToTop() {
	e.scrollTop = true
}

func (e *effects) Announce(message string) {
	e.announcement = message
}

// Model はリーダー画面の状態です。
type Model struct {
	backend  Backend
	slug     string
	start    navigation.Position
	renderer *markdown.Renderer

	controller *navigation.Controller
	fx         *effects

	// seq はチャンク取得の通し番号。最新以外の結果は捨てる
	seq       int
	view      *model.ChunkView
	exercises map[uuid.UUID]string
	progress  *model.CourseProgress
	selected  int

	viewport viewport.Model
	input    textinput.Model
	width    int
	height   int

	status string
	err    error
	retry  tea.Cmd
}

// New は slug のコースを start の位置から開く Model を作ります。
func New(backend Backend, slug string, start navigation.Position) Model {
	ti := textinput.New()
	ti.Placeholder = "回答を入力して Enter"
	ti.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		backend:  backend,
		slug:     slug,
		start:    start,
		renderer: markdown.NewRenderer(nil),
		fx:       &effects{},
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		input:    ti,
		width:    defaultWidth,
		height:   defaultHeight,
		status:   statusLoading,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadUnits()
}

// Current は表示中の位置。コースを読み込む前は start を返します。
func (m Model) Current() navigation.Position {
	if m.controller == nil {
		return m.start
	}
	return m.controller.Current()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case unitsLoadedMsg:
		if msg.err != nil {
			m.fail(msg.err, m.loadUnits())
			break
		}
		outline := navigation.NewOutline(m.slug, msg.units)
		if outline.Empty() {
			m.status = "このコースには表示できるユニットがありません。"
			break
		}
		m.controller = navigation.NewController(outline, m.start, m.fx)
		m.resize()
		cmds = append(cmds, m.requestChunk(), m.loadProgress())

	case chunkLoadedMsg:
		if msg.seq != m.seq {
			break
		}
		if msg.err != nil {
			m.fail(msg.err, m.loadChunk(msg.seq, msg.pos))
			break
		}
		m.view = msg.view
		m.exercises = msg.exercises
		if m.err != nil || m.status == statusLoading || m.status == statusRetrying {
			m.status = ""
		}
		if m.selected >= m.itemCount() {
			m.selected = 0
		}
		m.err = nil
		m.refreshContent()

	case progressLoadedMsg:
		if msg.err != nil {
			m.fail(msg.err, m.loadProgress())
			break
		}
		m.progress = msg.snap

	case mutationDoneMsg:
		if msg.snap != nil {
			m.progress = msg.snap
		} else if msg.err != nil && msg.prev != nil {
			m.progress = msg.prev
		}
		if msg.err != nil {
			if msg.undo != nil {
				msg.undo(&m)
				m.refreshContent()
			}
			m.fail(msg.err, msg.retry)
			break
		}
		m.err = nil
		m.retry = nil
		m.status = "保存しました。"
		if msg.apply != nil {
			msg.apply(&m)
			m.refreshContent()
		}
		if msg.reload {
			cmds = append(cmds, m.requestChunk())
		}

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey は処理したキーなら true を返します。false ならビューポートに渡す。
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}

	if m.controller != nil {
		action := navigation.HandleKey(keyEvent(msg, m.input.Focused()))
		if action.Kind != navigation.ActionNone {
			m.controller.Dispatch(action)
			if action.Kind == navigation.ActionToggleSidebar {
				m.resize()
			}
			return m.applyEffects(), true
		}
	}

	if m.input.Focused() {
		switch msg.String() {
		case "esc":
			m.input.Blur()
			return nil, true
		case "enter":
			return m.submitResponse(), true
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd, true
	}

	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.refreshContent()
		}
		return nil, true
	case "down", "j":
		if m.selected < m.itemCount()-1 {
			m.selected++
			m.refreshContent()
		}
		return nil, true
	case "x", " ":
		return m.toggleResource(), true
	case "e":
		return m.focusInput(), true
	case "r":
		if m.retry == nil {
			return nil, true
		}
		cmd := m.retry
		m.retry = nil
		m.status = statusRetrying
		return cmd, true
	}
	return nil, false
}

// keyEvent は bubbletea のキーをナビゲーション用のキー名に直します。
func keyEvent(msg tea.KeyMsg, inEditable bool) navigation.KeyEvent {
	ev := navigation.KeyEvent{InEditable: inEditable, Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyRight:
		ev.Key = "ArrowRight"
	case tea.KeyLeft:
		ev.Key = "ArrowLeft"
	case tea.KeyShiftRight:
		ev.Key, ev.Shift = "ArrowRight", true
	case tea.KeyShiftLeft:
		ev.Key, ev.Shift = "ArrowLeft", true
	case tea.KeyCtrlB:
		ev.Key, ev.Ctrl = "b", true
	case tea.KeyRunes:
		switch s := string(msg.Runes); s {
		case "l":
			ev.Key = "ArrowRight"
		case "h":
			ev.Key = "ArrowLeft"
		default:
			ev.Key = s
		}
	}
	return ev
}

// applyEffects は Controller が移動したときにチャンクの取得を始めます。
func (m *Model) applyEffects() tea.Cmd {
	fx := *m.fx
	*m.fx = effects{}

	if fx.announcement != "" {
		m.status = fx.announcement
	}
	if fx.scrollTop {
		m.viewport.GotoTop()
	}
	if !fx.navigated {
		return nil
	}
	m.selected = 0
	m.input.Blur()
	m.input.SetValue("")
	return m.requestChunk()
}

func (m *Model) requestChunk() tea.Cmd {
	m.seq++
	return m.loadChunk(m.seq, m.controller.Current())
}

// fail はエラーを表示し、r で再実行する処理を覚えます。
func (m *Model) fail(err error, retry tea.Cmd) {
	m.err = err
	switch apiclient.Access(err) {
	case apiclient.NotLoggedIn, apiclient.Unauthorized:
		m.status = apiclient.AccessMessage(err)
		m.retry = nil
	default:
		m.status = apiclient.AccessMessage(err) + " (r で再試行)"
		m.retry = retry
	}
}

func (m *Model) target() progress.Target {
	pos := m.controller.Current()
	return progress.Target{UnitNumber: pos.UnitNumber, ChunkIndex: int(pos.Chunk)}
}

func (m *Model) itemCount() int {
	if m.view == nil {
		return 0
	}
	return len(m.view.Resources) + len(m.view.Exercises)
}

// selectedExercise は選択中の項目が演習ならその添字
func (m *Model) selectedExercise() (int, bool) {
	if m.view == nil {
		return 0, false
	}
	i := m.selected - len(m.view.Resources)
	return i, i >= 0 && i < len(m.view.Exercises)
}

func (m *Model) toggleResource() tea.Cmd {
	if m.view == nil || m.selected >= len(m.view.Resources) {
		return nil
	}
	i := m.selected
	r := m.view.Resources[i]
	next := !r.IsCompleted
	ch := apiclient.ResourceChange(m.slug, m.target(), r, next)

	// 画面側も先に切り替え、失敗したら戻す
	chunkID := m.view.ChunkID
	prev := m.progress
	m.view.Resources[i].IsCompleted = next
	if ch.Delta != 0 && m.progress != nil {
		t := ch.Target
		if patched, err := progress.ApplyDelta(m.progress, &t, ch.Delta); err == nil {
			m.progress = patched
		}
	}
	m.refreshContent()

	set := func(v bool) func(m *Model) {
		return func(m *Model) {
			if m.view != nil && m.view.ChunkID == chunkID && i < len(m.view.Resources) {
				m.view.Resources[i].IsCompleted = v
			}
		}
	}
	return m.saveResource(ch, r.ResourceID, next, prev, set(next), set(!next))
}

func (m *Model) focusInput() tea.Cmd {
	if m.view == nil || len(m.view.Exercises) == 0 {
		return nil
	}
	i, ok := m.selectedExercise()
	if !ok {
		i = 0
		m.selected = len(m.view.Resources)
	}
	m.input.SetValue(m.view.Exercises[i].Response)
	m.refreshContent()
	return m.input.Focus()
}

func (m *Model) submitResponse() tea.Cmd {
	i, ok := m.selectedExercise()
	if !ok {
		m.input.Blur()
		return nil
	}
	e := m.view.Exercises[i]
	response := m.input.Value()
	m.input.Blur()
	m.view.Exercises[i].Response = response
	m.refreshContent()

	ch := apiclient.ExerciseChange(m.slug, m.target(), e, response, true)
	return m.saveExercise(ch, e.ExerciseID, response)
}

func (m *Model) resize() {
	w := m.width
	if m.controller != nil && m.controller.SidebarOpen() {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	h := m.height - chromeHeight
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
	m.input.Width = w - 4
	m.refreshContent()
}
