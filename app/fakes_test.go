package app

import (
	"context"
	"math"
	"sync"

	"clamir/device"
	"clamir/models"
)

// fakeLibrary returns scripted connect codes; once the script runs out the
// last code repeats.
type fakeLibrary struct {
	mu          sync.Mutex
	codes       []int
	connects    int
	disconnects int
	connected   bool
}

func newFakeLibrary(codes ...int) *fakeLibrary {
	return &fakeLibrary{codes: codes}
}

func (f *fakeLibrary) Add(a, b int) int      { return a + b }
func (f *fakeLibrary) Subtract(a, b int) int { return a - b }
func (f *fakeLibrary) Multiply(a, b int) int { return a * b }

func (f *fakeLibrary) Divide(a, b int) (int, error) {
	if b == 0 {
		return 0, device.ErrDivisionByZero
	}
	if a == math.MinInt32 && b == -1 {
		return 0, device.ErrOverflow
	}
	return a / b, nil
}

func (f *fakeLibrary) ConnectDevice() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if len(f.codes) == 0 {
		return models.ResultConnectFailed
	}
	i := f.connects - 1
	if i >= len(f.codes) {
		i = len(f.codes) - 1
	}
	f.connected = f.codes[i] == models.ResultOK
	return f.codes[i]
}

func (f *fakeLibrary) DisconnectDevice() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	f.connected = false
	return models.ResultOK
}

func (f *fakeLibrary) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []models.Notification
	err           error
}

func (r *recordingNotifier) Notify(_ context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return r.err
}

func (r *recordingNotifier) count(kind models.NotificationKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, notification := range r.notifications {
		if notification.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recordingNotifier) kinds() []models.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]models.NotificationKind, 0, len(r.notifications))
	for _, n := range r.notifications {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

type recordingRecorder struct {
	mu      sync.Mutex
	records []AttemptRecord
	err     error
}

func (r *recordingRecorder) RecordAttempt(_ context.Context, rec AttemptRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.err
}

type recordingAvailability struct {
	mu     sync.Mutex
	states []string
	err    error
}

func (r *recordingAvailability) PublishAvailability(state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return r.err
}
