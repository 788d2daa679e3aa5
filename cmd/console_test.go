package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"clamir/app"
	"clamir/device"
	"clamir/models"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedLibrary struct {
	codes       []int
	connects    int
	disconnects int
	connected   bool
}

func (s *scriptedLibrary) Add(a, b int) int      { return a + b }
func (s *scriptedLibrary) Subtract(a, b int) int { return a - b }
func (s *scriptedLibrary) Multiply(a, b int) int { return a * b }

func (s *scriptedLibrary) Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, device.ErrDivisionByZero
	}
	return a / b, nil
}

func (s *scriptedLibrary) ConnectDevice() int {
	code := s.codes[min(s.connects, len(s.codes)-1)]
	s.connects++
	s.connected = code == models.ResultOK
	return code
}

func (s *scriptedLibrary) DisconnectDevice() int {
	s.disconnects++
	s.connected = false
	return models.ResultOK
}

func (s *scriptedLibrary) IsConnected() bool { return s.connected }

func runScript(t *testing.T, lib *scriptedLibrary, script string) string {
	t.Helper()
	in := bufio.NewReader(strings.NewReader(script))
	var out bytes.Buffer

	panel := newScriptPanel(t, lib, app.NewTerminalNotifier(in, &out))
	require.NoError(t, runConsole(context.Background(), panel, in, &out))
	return out.String()
}

func newScriptPanel(t *testing.T, lib *scriptedLibrary, notifier app.Notifier) *app.Panel {
	t.Helper()
	connector, err := app.NewConnectionController(lib, notifier)
	require.NoError(t, err)
	calc, err := app.NewCalculator(lib)
	require.NoError(t, err)
	disconnect, err := app.NewDisconnector(lib, nil, nil)
	require.NoError(t, err)
	panel, err := app.NewPanel(calc, connector, disconnect)
	require.NoError(t, err)
	return panel
}

func TestConsole_Arithmetic(t *testing.T) {
	out := runScript(t, &scriptedLibrary{codes: []int{0}}, "add 2 3\nset 10 4\nsubtract\nmultiply 6 7\noutput\nquit\n")

	assert.Contains(t, out, "5\n")
	assert.Contains(t, out, "6\n")
	assert.Contains(t, out, "42\n")
}

func TestConsole_ArithmeticErrors(t *testing.T) {
	out := runScript(t, &scriptedLibrary{codes: []int{0}}, "add x 3\ndivide 1 0\nmodulo 1 2\nadd 1\n")

	assert.Contains(t, out, `invalid first operand "x"`)
	assert.Contains(t, out, "division by zero")
	assert.Contains(t, out, `unknown command "modulo"`)
	assert.Contains(t, out, "usage: add [a b]")
}

func TestConsole_ConnectWaitsForEachAcknowledgement(t *testing.T) {
	lib := &scriptedLibrary{codes: []int{-2, 0}}
	// one Enter per notification: starting, retry, starting, connected
	out := runScript(t, lib, "connect\n\n\n\n\nquit\n")

	assert.Equal(t, 2, lib.connects)
	assert.Equal(t, 2, strings.Count(out, "[starting] Try connection.."))
	assert.Contains(t, out, "[retry] Retrying connection. Try number 1")
	assert.Contains(t, out, "[connected] Connected!")
	assert.NotContains(t, out, "not connected")
}

func TestConsole_ConnectGivesUp(t *testing.T) {
	lib := &scriptedLibrary{codes: []int{-1}}
	out := runScript(t, lib, "connect\n")

	assert.Equal(t, 3, lib.connects)
	assert.Contains(t, out, "[giving-up] Closing this application.")
	assert.Contains(t, out, "not connected (3 attempts, last code -1)")
}

func TestConsole_Disconnect(t *testing.T) {
	lib := &scriptedLibrary{codes: []int{0}}
	out := runScript(t, lib, "disconnect\nquit\n")

	assert.Equal(t, 1, lib.disconnects)
	assert.NotContains(t, out, "Try connection")
	assert.NotContains(t, out, "[connected]")
}

func TestConsole_Status(t *testing.T) {
	lib := &scriptedLibrary{codes: []int{0}}
	// two Enters acknowledge the starting and connected notifications
	out := runScript(t, lib, "status\nconnect\n\n\nstatus\ndisconnect\nstatus\nquit\n")

	assert.Equal(t, 2, strings.Count(out, "clamir> not connected\n"))
	assert.Equal(t, 1, strings.Count(out, "clamir> connected\n"))
}

type busMessage struct {
	subject string
	data    []byte
}

type fakeBus struct {
	handler   nats.MsgHandler
	published []busMessage
}

func (b *fakeBus) Publish(subject string, data []byte) error {
	b.published = append(b.published, busMessage{subject: subject, data: data})
	return nil
}

func (b *fakeBus) Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	b.handler = cb
	return &nats.Subscription{Subject: subject}, nil
}

func TestAttachBridge_SharesPanelWithConsole(t *testing.T) {
	lib := &scriptedLibrary{codes: []int{0}}
	in := bufio.NewReader(strings.NewReader("output\nquit\n"))
	var out bytes.Buffer
	panel := newScriptPanel(t, lib, app.NewTerminalNotifier(in, &out))

	bus := &fakeBus{}
	bridge, err := attachBridge(context.Background(), panel, bus, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, bridge)
	require.NotNil(t, bus.handler)

	data, err := json.Marshal(models.NatsRequestPayload{A: "20", B: "22"})
	require.NoError(t, err)
	bus.handler(&nats.Msg{Subject: "request.clamir.add", Reply: "_INBOX.1", Data: data})
	require.Len(t, bus.published, 1)

	// the remote press lands in the same output field the terminal reads
	require.NoError(t, runConsole(context.Background(), panel, in, &out))
	assert.Contains(t, out.String(), "clamir> 42\n")
}

func TestAttachBridge_WithoutBus(t *testing.T) {
	panel := newScriptPanel(t, &scriptedLibrary{codes: []int{0}}, app.NewTerminalNotifier(nil, &bytes.Buffer{}))

	bridge, err := attachBridge(context.Background(), panel, nil, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, bridge)
}
