package maafocus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowNilContext(t *testing.T) {
	assert.ErrorIs(t, Show(nil, "hello"), ErrNilContext)
	assert.ErrorIs(t, Showf(nil, "%d maps", 3), ErrNilContext)
}

func TestSpan(t *testing.T) {
	assert.Equal(t,
		`<span style="color: #ff0000; font-weight: 500;">Crimson Temple</span>`,
		Span("Crimson Temple", "#ff0000"))
	assert.Equal(t,
		`<span style="color: #00bfff; font-weight: 500;">a &lt;b&gt;</span>`,
		Span("a <b>", ""))
}
