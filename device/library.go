// Package device talks to a CLAMIR monitoring head.
package device

import "errors"

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("integer overflow")
)

// Library is the surface the console drives. ConnectDevice and
// DisconnectDevice return vendor result codes, 0 meaning success.
type Library interface {
	Add(a, b int) int
	Subtract(a, b int) int
	Multiply(a, b int) int
	Divide(a, b int) (int, error)

	ConnectDevice() int
	DisconnectDevice() int
	IsConnected() bool
}
