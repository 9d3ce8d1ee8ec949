package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeText("<b>hello</b>   world"))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "a < b", SanitizeText("a &lt; b"))
	assert.Equal(t, "plain text", SanitizeText("plain text"))
}

func TestFoldAccents(t *testing.T) {
	assert.Equal(t, "cafe", FoldAccents("café"))
	assert.Equal(t, "uber", FoldAccents("über"))
	assert.Equal(t, "already plain", FoldAccents("already plain"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"i'm", "so", "stressed"}, Tokenize("I'm SO stressed!"))
	assert.Equal(t, []string{"tres", "fatigue"}, Tokenize("très fatigué"))
	assert.Empty(t, Tokenize("¡¿!?"))
}
