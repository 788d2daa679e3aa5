package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"clamir/device"
)

type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
)

var ErrUnknownOperation = errors.New("unknown operation")

func ParseOperation(s string) (Operation, error) {
	switch op := Operation(strings.ToLower(strings.TrimSpace(s))); op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return op, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
	}
}

// ParseError reports an operand that is not an integer.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s operand %q: %v", e.Field, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Calculator hands integer arithmetic to the device library. Library errors,
// such as device.ErrDivisionByZero and device.ErrOverflow, are returned
// unchanged.
type Calculator struct {
	lib device.Library
}

func NewCalculator(lib device.Library) (*Calculator, error) {
	if lib == nil {
		return nil, errors.New("device library cannot be nil")
	}
	return &Calculator{lib: lib}, nil
}

func (c *Calculator) Calculate(op Operation, aText, bText string) (string, error) {
	a, err := parseOperand("first", aText)
	if err != nil {
		return "", err
	}
	b, err := parseOperand("second", bText)
	if err != nil {
		return "", err
	}

	var result int
	switch op {
	case OpAdd:
		result = c.lib.Add(a, b)
	case OpSubtract:
		result = c.lib.Subtract(a, b)
	case OpMultiply:
		result = c.lib.Multiply(a, b)
	case OpDivide:
		result, err = c.lib.Divide(a, b)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	return strconv.Itoa(result), nil
}

func parseOperand(field, text string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return 0, &ParseError{Field: field, Input: text, Err: err}
	}
	return int(n), nil
}
