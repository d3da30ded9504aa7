package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"plain text passes through",
			"nothing to strip here",
			"nothing to strip here",
		},
		{
			"inline tags removed",
			"issue <b>#42</b> was <i>reassigned</i>",
			"issue #42 was reassigned",
		},
		{
			"paragraphs become newlines",
			"<p>alice assigned you to issue #7</p><p>Crash on startup.</p>",
			"alice assigned you to issue #7\nCrash on startup.",
		},
		{
			"script content dropped",
			"before<script>alert('x')</script>after",
			"beforeafter",
		},
		{
			"style content dropped",
			"<style>p { color: red }</style>visible",
			"visible",
		},
		{
			"unclosed tag tolerated",
			"<p>broken <b markup",
			"broken",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.in))
		})
	}
}
