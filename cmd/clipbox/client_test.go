package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/lajidonggua/ClipBox/internal/history"
)

func TestPreviewText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		e    history.Entry
		want string
	}{
		{
			name: "short text passes through",
			e:    history.Entry{Content: "hello", Kind: history.KindText},
			want: "hello",
		},
		{
			name: "long ascii truncated to 72 runes",
			e:    history.Entry{Content: strings.Repeat("a", 100), Kind: history.KindText},
			want: strings.Repeat("a", 72) + "…",
		},
		{
			name: "long multi-byte truncated on rune boundary",
			e:    history.Entry{Content: strings.Repeat("界", 80), Kind: history.KindText},
			want: strings.Repeat("界", 72) + "…",
		},
		{
			name: "newlines collapsed",
			e:    history.Entry{Content: "line one\nline two", Kind: history.KindText},
			want: "line one⏎line two",
		},
		{
			name: "image summarised by encoded size",
			e:    history.Entry{Content: strings.Repeat("A", 1024), Kind: history.KindImage},
			want: "[image, 1024 bytes encoded]",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := previewText(tt.e)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
