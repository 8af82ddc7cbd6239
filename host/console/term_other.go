//go:build !linux

package console

import "errors"

// EnterRaw is only implemented for Linux terminals
func EnterRaw(fd int) (func() error, error) {
	return nil, errors.New("console: raw terminal not supported on this platform")
}
