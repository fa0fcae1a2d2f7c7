package taro

import (
	"github.com/boba-engine/boba/internal/transform"
	"github.com/gdamore/tcell/v2"
)

// Sprite draws one glyph at the world position of its transform.
type Sprite struct {
	Transform transform.Link
	Glyph     rune
	Color     tcell.Color
}
