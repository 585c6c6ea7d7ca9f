package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Query
	}{
		{
			name: "plain text",
			raw:  "  upgrade   guide ",
			want: Query{Text: "upgrade guide"},
		},
		{
			name: "category and user filters",
			raw:  "deploy in:HowTo by:alice",
			want: Query{Text: "deploy", Categories: []string{"howto"}, Users: []string{"alice"}},
		},
		{
			name: "quoted user",
			raw:  `by:"Jane Doe" crash`,
			want: Query{Text: "crash", Users: []string{"Jane Doe"}},
		},
		{
			name: "duplicates collapsed",
			raw:  "in:news in:NEWS by:Bob by:bob",
			want: Query{Categories: []string{"news"}, Users: []string{"Bob"}},
		},
		{
			name: "unclosed quote",
			raw:  `by:"Jane deploy`,
			want: Query{Text: "deploy", Users: []string{"Jane"}},
		},
		{
			name: "stray trailing quote",
			raw:  `in:news" crash`,
			want: Query{Text: "crash", Categories: []string{"news"}},
		},
		{
			name: "lone quote value dropped",
			raw:  `by:" hello`,
			want: Query{Text: "hello"},
		},
		{
			name: "empty quoted value dropped",
			raw:  `by:"" hello`,
			want: Query{Text: "hello"},
		},
		{
			name: "empty",
			raw:  "",
			want: Query{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestQuery_Empty(t *testing.T) {
	assert.True(t, Parse("   ").Empty())
	assert.False(t, Parse("in:news").Empty())
	assert.False(t, Parse("x").Empty())
}
