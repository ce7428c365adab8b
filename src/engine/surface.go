package engine

import "wallplay/src/media"

// Surface is the display collaborator the state machine mounts playback
// elements on. The real widget surface renders to the wallpaper layer; tests
// substitute a double.
//
// Mounting and clearing must be idempotent and free of side effects on the
// engine's own state. Element events flow back into the engine through the
// On* trigger methods, never synchronously from within Mount.
type Surface interface {
	// Mount constructs a playback element for the item. The previous
	// element, if any, has already been halted by the engine.
	Mount(item *media.Item) (Element, error)

	// Clear empties the display.
	Clear()
}

// Element is a single mounted piece of playing media.
type Element interface {
	Play() error
	Pause()

	// Seek moves the playback position, in seconds. Image elements ignore it.
	Seek(seconds float64)

	// Halt stops playback and releases the element. The engine never uses an
	// element after halting it.
	Halt()
}
