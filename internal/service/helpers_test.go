package service

import (
	"testing"

	"course_hub/internal/model"
	"course_hub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB は、テストで使用するインメモリSQLiteの接続を返します。
// テストごとに別のデータベースになるよう DSN に UUID を含めます。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	return db
}

type courseFixture struct {
	course    model.Course
	units     map[string]model.Unit
	chunks    []model.Chunk // unit 1 a, unit 1 b, unit 2 a
	core      []model.UnitResource
	further   []model.UnitResource
	exercises []model.Exercise
}

// seedCourse はユニット1 (チャンク a, b) とユニット2 (チャンク a) を登録します。
// 各チャンクは Core リソース・Further リソース・多肢選択の演習を1つずつ持ちます。
func seedCourse(t *testing.T, db *gorm.DB) *courseFixture {
	t.Helper()
	f := &courseFixture{
		course: model.Course{CourseID: uuid.New(), Slug: "intro", Title: "Intro to AI Safety"},
		units:  map[string]model.Unit{},
	}
	require.NoError(t, db.Create(&f.course).Error)

	layout := []struct {
		number string
		chunks []string
	}{
		{"1", []string{"a", "b"}},
		{"2", []string{"a"}},
	}
	for _, l := range layout {
		u := model.Unit{UnitID: uuid.New(), CourseID: f.course.CourseID, UnitNumber: l.number, Title: "Unit " + l.number, Status: model.UnitStatusActive}
		require.NoError(t, db.Create(&u).Error)
		for _, order := range l.chunks {
			c := model.Chunk{
				ChunkID:    uuid.New(),
				UnitID:     u.UnitID,
				ChunkOrder: order,
				ChunkType:  model.ChunkTypeReading,
				Title:      "Chunk " + l.number + order,
				Content:    "## Heading " + l.number + order + "\n\nSee <https://example.com/" + order + ">.\n",
			}
			require.NoError(t, db.Create(&c).Error)
			core := model.UnitResource{ResourceID: uuid.New(), ChunkID: c.ChunkID, Title: "Core " + order, CoreFurther: model.ResourceCore, SortOrder: 1}
			further := model.UnitResource{ResourceID: uuid.New(), ChunkID: c.ChunkID, Title: "Further " + order, CoreFurther: model.ResourceFurther, SortOrder: 2}
			ex := model.Exercise{ExerciseID: uuid.New(), ChunkID: c.ChunkID, Title: "Quiz " + order, ExerciseType: model.ExerciseMultipleChoice, Options: "A\nB\n", AnswerOption: "B"}
			require.NoError(t, db.Create(&core).Error)
			require.NoError(t, db.Create(&further).Error)
			require.NoError(t, db.Create(&ex).Error)
			f.chunks = append(f.chunks, c)
			f.core = append(f.core, core)
			f.further = append(f.further, further)
			f.exercises = append(f.exercises, ex)
		}
		f.units[l.number] = u
	}
	return f
}

func boolPtr(b bool) *bool { return &b }
