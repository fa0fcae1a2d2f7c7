package milktea

import "github.com/gdamore/tcell/v2"

// Init is triggered once before the first frame.
type Init struct{ *Frame }

// Update is triggered once per frame, before Redraw.
type Update struct{ *Frame }

// Redraw is triggered after Update on frames with a screen attached.
type Redraw struct{ *Frame }

// KeyPress carries one key event from the terminal.
type KeyPress struct {
	*Frame
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// Resize is triggered when the terminal changes size.
type Resize struct {
	*Frame
	Width, Height int
}

// CloseRequest is triggered when the user presses Escape or Ctrl+C. The
// driver does not stop on its own; a listener has to call Exit.
type CloseRequest struct{ *Frame }

// Exit is triggered once after the loop stops.
type Exit struct{ *Frame }
