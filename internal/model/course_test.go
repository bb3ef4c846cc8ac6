package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortUnits(t *testing.T) {
	units := []Unit{
		{UnitNumber: "10"},
		{UnitNumber: "intro"},
		{UnitNumber: "2"},
		{UnitNumber: "1", Chunks: []Chunk{{ChunkOrder: "b"}, {ChunkOrder: "a10"}, {ChunkOrder: "a2"}}},
		{UnitNumber: "appendix"},
	}
	SortUnits(units)

	var got []string
	for _, u := range units {
		got = append(got, u.UnitNumber)
	}
	assert.Equal(t, []string{"1", "2", "10", "appendix", "intro"}, got)

	// chunk_order は辞書順
	var orders []string
	for _, c := range units[0].Chunks {
		orders = append(orders, c.ChunkOrder)
	}
	assert.Equal(t, []string{"a10", "a2", "b"}, orders)
}

func TestChunk_CountedItems(t *testing.T) {
	c := Chunk{
		Resources: []UnitResource{
			{CoreFurther: ResourceCore},
			{CoreFurther: ResourceFurther},
			{CoreFurther: ResourceCore},
		},
		Exercises: []Exercise{{}, {}},
	}
	assert.Equal(t, 4, c.CountedItems())
}

func TestExercise_IsCorrect(t *testing.T) {
	mc := Exercise{ExerciseType: ExerciseMultipleChoice, Options: "A\n\nB \nC", AnswerOption: "B"}
	assert.Equal(t, []string{"A", "B", "C"}, mc.OptionList())
	assert.True(t, mc.IsCorrect(" B"))
	assert.False(t, mc.IsCorrect("A"))

	free := Exercise{ExerciseType: ExerciseFreeText, AnswerOption: "x"}
	assert.False(t, free.IsCorrect("x"))
}
