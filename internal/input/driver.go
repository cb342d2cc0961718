// Package input abstracts simulated mouse and keyboard primitives.
package input

// Driver performs simulated input. The daemon core only ever hands a driver
// individual primitive calls; it never retains driver state.
type Driver interface {
	// MoveMouse moves the pointer to absolute screen coordinates.
	MoveMouse(x, y int) error

	// Click presses and releases a mouse button (left, right, middle).
	Click(button string) error

	// ButtonDown presses and holds a mouse button.
	ButtonDown(button string) error

	// ButtonUp releases a held mouse button.
	ButtonUp(button string) error

	// Scroll scrolls by amount along an axis direction (up, down, left, right).
	Scroll(amount int, axis string) error

	// TypeText types a string of literal text.
	TypeText(text string) error

	// TapKey presses and releases a named key.
	TapKey(key string) error

	// KeyDown presses and holds a named key.
	KeyDown(key string) error

	// KeyUp releases a held key.
	KeyUp(key string) error

	// Location returns the current pointer position.
	Location() (x, y int, err error)
}
