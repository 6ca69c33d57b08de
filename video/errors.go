package video

import "errors"

var (
	// ErrBlockIndex reports a charblock, screenblock or background number
	// outside the range the hardware provides.
	ErrBlockIndex = errors.New("block index out of range")

	// ErrLengthExceeded reports a transfer whose length in 32-bit units does
	// not fit the 16-bit hardware count field. Nothing is copied.
	ErrLengthExceeded = errors.New("transfer length exceeds hardware ceiling")

	// ErrUnknownField reports a register field name missing from the layout.
	ErrUnknownField = errors.New("unknown register field")

	// ErrLayout reports an invalid register layout descriptor.
	ErrLayout = errors.New("invalid register layout")

	// ErrTable reports an invalid hardware table.
	ErrTable = errors.New("invalid hardware table")

	// ErrMapSize reports map dimensions the background hardware has no size
	// class for.
	ErrMapSize = errors.New("unsupported map size")

	// ErrMode reports a video mode the requested controller cannot drive.
	ErrMode = errors.New("unsupported video mode")
)
