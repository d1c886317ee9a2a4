package editor

import (
	"time"

	"venue-designer/pkg/geometry"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether every bit of x is set.
func (m Modifier) Has(x Modifier) bool { return m&x == x }

// Multi reports whether the modifiers extend a selection instead of
// replacing it.
func (m Modifier) Multi() bool { return m&(ModShift|ModCtrl|ModSuper) != 0 }

// PointerEvent is a mouse button or motion event in screen coordinates.
type PointerEvent struct {
	Screen geometry.Point2D
	Button Button
	Mods   Modifier

	// Time is used for double-click detection. Zero means now.
	Time time.Time
}

// WheelEvent is a scroll event. Positive DY zooms in.
type WheelEvent struct {
	Screen geometry.Point2D
	DY     float64
}

// Key names a keyboard key. The values match fyne key names.
type Key string

const (
	KeyEscape      Key = "Escape"
	KeyDelete      Key = "Delete"
	KeyBackspace   Key = "BackSpace"
	KeyEnter       Key = "Return"
	KeyKeypadEnter Key = "KP_Enter"
	KeyZ           Key = "Z"
	KeyY           Key = "Y"
)

// KeyEvent is a key press.
type KeyEvent struct {
	Key  Key
	Mods Modifier
}
