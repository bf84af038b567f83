package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("word ", 100)
	for _, toPin := range []struct {
		name     string
		doc      string
		expected string
		fails    bool
	}{
		{name: "short text wins", doc: `{"title":"Title","shortText":"Short"}`, expected: "Short"},
		{name: "text values in order", doc: `{"slug":"s","title":"Title","body":{"blocks":[{"text":"one"},{"text":"two","n":3}]}}`, expected: "Title one two"},
		{name: "nested slugs are skipped", doc: `{"related":[{"slug":"x","title":"Other"}]}`, expected: "Other"},
		{name: "whitespace collapsed", doc: `{"body":"  a\n\tb  "}`, expected: "a b"},
		{name: "non string short text", doc: `{"shortText":12,"title":"T"}`, expected: "T"},
		{name: "top level string", doc: `"just text"`, expected: "just text"},
		{name: "empty document", doc: `{}`, expected: ""},
		{name: "invalid", doc: `{"title": `, fails: true},
	} {
		testCase := toPin
		t.Run(testCase.name, func(t *testing.T) {
			text, err := excerpt([]byte(testCase.doc))
			if testCase.fails {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, text)
		})
	}

	t.Run("bounded", func(t *testing.T) {
		text, err := excerpt([]byte(`{"body":"` + long + `"}`))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(text, excerptEllipsis))
		assert.LessOrEqual(t, utf8.RuneCountInString(text), excerptLength+len(excerptEllipsis))
	})

	t.Run("runes are not split", func(t *testing.T) {
		text, err := excerpt([]byte(`{"body":"` + strings.Repeat("é", 200) + `"}`))
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(text))
		assert.Equal(t, strings.Repeat("é", excerptLength)+excerptEllipsis, text)
	})
}
