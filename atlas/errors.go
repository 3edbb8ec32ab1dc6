package atlas

import "errors"

// Error taxonomy for the packer. All errors are recoverable: on any
// returned error the atlas is left exactly as it was before the call that
// produced it.
var (
	// ErrInvalidArguments is returned for malformed input: a zero-size
	// rectangle, a nil pixel buffer, or a malformed configuration option.
	ErrInvalidArguments = errors.New("atlas: invalid arguments")

	// ErrOutOfMemory is returned when the internal allocator could not
	// size the backing slices requested by New.
	ErrOutOfMemory = errors.New("atlas: out of memory")

	// ErrOutOfRange is returned by AddImage once the atlas already holds
	// the maximum number of images it was created for.
	ErrOutOfRange = errors.New("atlas: image capacity exceeded")

	// ErrTooLarge is returned when the growth policy would need to push a
	// canvas dimension past the configured maximum to fit a placement.
	ErrTooLarge = errors.New("atlas: canvas exceeds configured maximum dimension")

	// ErrTooManyShelves is returned when a placement would require a new
	// skyline shelf but the shelf list is already at its configured
	// maximum.
	ErrTooManyShelves = errors.New("atlas: shelf count exceeds configured maximum")

	// errTooSmall is internal only: it signals the AddImage retry loop to
	// grow the canvas and attempt placement again. It is never returned
	// to a caller.
	errTooSmall = errors.New("atlas: placement does not fit current canvas")
)
