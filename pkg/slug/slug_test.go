// Copyright (c) 2026 Revuo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/revuo/pkg/slug"
)

/*
TestFrom checks the slugification pipeline on representative inputs.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Film", "film"},
		{"spaces", "Science Fiction", "science-fiction"},
		{"accents", "Cinéma Français", "cinema-francais"},
		{"punctuation", "Rock & Roll!", "rock-roll"},
		{"collapsed_hyphens", "a -- b", "a-b"},
		{"trimmed", " -Drama- ", "drama"},
		{"already_slug", "true-crime", "true-crime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
