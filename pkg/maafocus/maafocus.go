// Package maafocus shows short status messages in the MaaFramework client UI.
package maafocus

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/MaaXYZ/maa-framework-go/v4"
)

const nodeName = "_ATLAS_SCOUT_FOCUS_"

// DefaultColor is used by Span when no colour is given.
const DefaultColor = "#00bfff"

// ErrNilContext indicates the provided context is nil.
var ErrNilContext = errors.New("context is nil")

// Show displays content (plain text or simple HTML) as the focus message of a
// throwaway node.
func Show(ctx *maa.Context, content string) error {
	if ctx == nil {
		return ErrNilContext
	}

	pp := maa.NewPipeline()
	pp.AddNode(maa.NewNode(nodeName).
		SetFocus(map[string]any{
			maa.EventNodeAction.Starting(): strings.TrimLeft(content, " \t\r\n"),
		}).
		SetPreDelay(0).
		SetPostDelay(0))
	_, err := ctx.RunTask(nodeName, pp)
	return err
}

// Showf formats and shows a plain text message.
func Showf(ctx *maa.Context, format string, args ...any) error {
	return Show(ctx, html.EscapeString(fmt.Sprintf(format, args...)))
}

// Span wraps escaped text in a coloured span.
func Span(text, color string) string {
	if color == "" {
		color = DefaultColor
	}
	return fmt.Sprintf(`<span style="color: %s; font-weight: 500;">%s</span>`,
		html.EscapeString(color), html.EscapeString(text))
}
