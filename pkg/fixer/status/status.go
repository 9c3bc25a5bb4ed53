// Package status exports errors produced by the fixer packages.
package status

import (
	"github.com/oneconcern/desfixer/pkg/errors"
)

var (
	// ErrToolNotFound indicates the external decryption tool is missing
	ErrToolNotFound = errors.New("can't find decryption tool, execution can't continue")

	// ErrNoGameFound indicates no known game install was detected
	ErrNoGameFound = errors.New("no known PSN DeS game files detected")

	// ErrUnknownRegion indicates a region name could not be parsed
	ErrUnknownRegion = errors.New("unknown region")

	// ErrNotDirectory indicates a path expected to be a directory is not
	ErrNotDirectory = errors.New("not a directory")

	// ErrCopy signals that mirroring the game files failed
	ErrCopy = errors.New("copying game files failed")

	// ErrDecrypt signals that decrypting a game file failed
	ErrDecrypt = errors.New("decryption failed")
)
