package cbs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gocbs/pkg/cbs"
)

func TestLineIndex_Position(t *testing.T) {
	t.Parallel()

	idx := cbs.NewLineIndex("ab\r\ncd\nef")

	tests := []struct {
		offset int
		want   cbs.Position
	}{
		{offset: 0, want: cbs.Position{Offset: 0, Line: 0, Column: 0}},
		{offset: 2, want: cbs.Position{Offset: 2, Line: 0, Column: 2}},
		{offset: 4, want: cbs.Position{Offset: 4, Line: 1, Column: 0}},
		{offset: 5, want: cbs.Position{Offset: 5, Line: 1, Column: 1}},
		{offset: 9, want: cbs.Position{Offset: 9, Line: 2, Column: 2}},
		{offset: 99, want: cbs.Position{Offset: 9, Line: 2, Column: 2}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, idx.Position(tt.offset), "offset %d", tt.offset)
	}

	assert.Equal(t, 3, idx.LineCount())
	assert.Equal(t, "ab", idx.LineText(0))
	assert.Equal(t, "ef", idx.LineText(2))
	assert.Empty(t, idx.LineText(3))
}

func TestLineIndex_Offset(t *testing.T) {
	t.Parallel()

	idx := cbs.NewLineIndex("ab\ncd")

	off, ok := idx.Offset(1, 1)
	assert.True(t, ok)
	assert.Equal(t, 4, off)

	off, ok = idx.Offset(0, 10)
	assert.True(t, ok)
	assert.Equal(t, 2, off, "column clamped to line end")

	_, ok = idx.Offset(5, 0)
	assert.False(t, ok)
}

func TestLineIndex_UTF16(t *testing.T) {
	t.Parallel()

	idx := cbs.NewLineIndex("a\U0001F600b 한")

	assert.Equal(t, 3, idx.UTF16Column(0, 5))
	assert.Equal(t, 5, idx.ByteColumn(0, 3))
	assert.Equal(t, 6, idx.UTF16Column(0, len("a\U0001F600b 한")))
	assert.Equal(t, len("a\U0001F600b 한"), idx.ByteColumn(0, 99))
}
