package reader

import (
	"context"
	"time"

	"course_hub/internal/apiclient"
	"course_hub/internal/markdown"
	"course_hub/internal/model"
	"course_hub/internal/navigation"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Backend はリーダーが使う API。*apiclient.Client が満たします。
type Backend interface {
	Units(ctx context.Context, slug string) ([]model.Unit, error)
	Chunk(ctx context.Context, slug, unitNumber string, idx navigation.ChunkIndex) (*model.ChunkView, error)
	Progress(ctx context.Context, slug string) (*model.CourseProgress, error)
	CachedProgress(ctx context.Context, slug string) (*model.CourseProgress, error)
	SaveResourceCompletion(ctx context.Context, ch apiclient.Change, resourceID uuid.UUID, req *model.SaveCompletionRequest) (*model.ResourceCompletion, error)
	SaveExerciseResponse(ctx context.Context, ch apiclient.Change, exerciseID uuid.UUID, req *model.SaveExerciseResponseRequest) (*model.ExerciseResponse, error)
}

const requestTimeout = 15 * time.Second

type unitsLoadedMsg struct {
	units []model.Unit
	err   error
}

// chunkLoadedMsg の seq が最新の要求と違えば捨てる
type chunkLoadedMsg struct {
	seq       int
	pos       navigation.Position
	view      *model.ChunkView
	exercises map[uuid.UUID]string // 演習の説明のテキスト表示
	err       error
}

type progressLoadedMsg struct {
	snap *model.CourseProgress
	err  error
}

// mutationDoneMsg は保存の結果。失敗時 snap はロールバック後のキャッシュで、
// キャッシュが空なら prev (操作前の画面の進捗) に戻す
type mutationDoneMsg struct {
	snap   *model.CourseProgress
	prev   *model.CourseProgress
	err    error
	apply  func(m *Model) // 成功時。再試行で成功した場合も画面を合わせる
	undo   func(m *Model)
	retry  tea.Cmd
	reload bool // 成功したらチャンクを取り直す
}

func (m Model) loadUnits() tea.Cmd {
	backend, slug := m.backend, m.slug
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		units, err := backend.Units(ctx, slug)
		return unitsLoadedMsg{units: units, err: err}
	}
}

func (m Model) loadChunk(seq int, pos navigation.Position) tea.Cmd {
	backend, slug, renderer := m.backend, m.slug, m.renderer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		view, err := backend.Chunk(ctx, slug, pos.UnitNumber, pos.Chunk)
		if err != nil {
			return chunkLoadedMsg{seq: seq, pos: pos, err: err}
		}
		texts := make(map[uuid.UUID]string, len(view.Exercises))
		for _, e := range view.Exercises {
			texts[e.ExerciseID] = describe(renderer, e.Description)
		}
		return chunkLoadedMsg{seq: seq, pos: pos, view: view, exercises: texts}
	}
}

// describe は演習の説明 (markdown) を端末用のテキストにします。描画できなければ原文。
func describe(renderer *markdown.Renderer, raw string) string {
	doc, err := renderer.Render(raw)
	if err != nil {
		return raw
	}
	return doc.Text()
}

func (m Model) loadProgress() tea.Cmd {
	backend, slug := m.backend, m.slug
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		snap, err := backend.Progress(ctx, slug)
		return progressLoadedMsg{snap: snap, err: err}
	}
}

func (m Model) saveResource(ch apiclient.Change, resourceID uuid.UUID, completed bool, prev *model.CourseProgress, apply, undo func(m *Model)) tea.Cmd {
	backend, slug := m.backend, m.slug
	var cmd tea.Cmd
	cmd = func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := backend.SaveResourceCompletion(ctx, ch, resourceID, &model.SaveCompletionRequest{IsCompleted: &completed})
		snap, _ := backend.CachedProgress(ctx, slug)
		return mutationDoneMsg{snap: snap, prev: prev, err: err, apply: apply, undo: undo, retry: cmd}
	}
	return cmd
}

func (m Model) saveExercise(ch apiclient.Change, exerciseID uuid.UUID, response string) tea.Cmd {
	backend, slug := m.backend, m.slug
	var cmd tea.Cmd
	cmd = func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := backend.SaveExerciseResponse(ctx, ch, exerciseID, &model.SaveExerciseResponseRequest{Response: response, IsCompleted: true})
		snap, _ := backend.CachedProgress(ctx, slug)
		return mutationDoneMsg{snap: snap, err: err, retry: cmd, reload: true}
	}
	return cmd
}
