package app

import (
	"context"
	"errors"
	"sync"
)

// Panel is the operator front panel: two operand fields, an output field and
// six buttons. Presses run one at a time, whichever surface they come from.
type Panel struct {
	mu sync.Mutex

	first  string
	second string
	output string

	calc       *Calculator
	connector  *ConnectionController
	disconnect *Disconnector
}

func NewPanel(calc *Calculator, connector *ConnectionController, disconnect *Disconnector) (*Panel, error) {
	if calc == nil || connector == nil || disconnect == nil {
		return nil, errors.New("panel requires a calculator, a connection controller and a disconnector")
	}
	return &Panel{calc: calc, connector: connector, disconnect: disconnect}, nil
}

func (p *Panel) SetOperands(first, second string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.first, p.second = first, second
}

func (p *Panel) Operands() (string, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.first, p.second
}

func (p *Panel) Output() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.output
}

// Press runs an arithmetic button against the current operands. On error the
// output field keeps its previous value.
func (p *Panel) Press(op Operation) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.press(op)
}

// Enter fills both operand fields and presses op as one step.
func (p *Panel) Enter(op Operation, first, second string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.first, p.second = first, second
	return p.press(op)
}

func (p *Panel) press(op Operation) (string, error) {
	result, err := p.calc.Calculate(op, p.first, p.second)
	if err != nil {
		return "", err
	}
	p.output = result
	return result, nil
}

func (p *Panel) PressAdd() (string, error)      { return p.Press(OpAdd) }
func (p *Panel) PressSubtract() (string, error) { return p.Press(OpSubtract) }
func (p *Panel) PressMultiply() (string, error) { return p.Press(OpMultiply) }
func (p *Panel) PressDivide() (string, error)   { return p.Press(OpDivide) }

func (p *Panel) PressConnect(ctx context.Context) (ConnectOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connector.AttemptConnect(ctx)
}

// Status reports the device link without notifying anyone.
func (p *Panel) Status() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connector.Connected()
}

func (p *Panel) PressDisconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnect.Disconnect()
}
