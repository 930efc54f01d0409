package purchase

import (
	"sync"

	"github.com/openloot/packtrace/internal/mintresolve"
)

// Status is the observable state of a purchase attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitted
	StatusConfirming
	StatusResolving
	StatusSucceeded
	StatusFailed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitted:
		return "submitted"
	case StatusConfirming:
		return "confirming"
	case StatusResolving:
		return "resolving"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is an end state. Terminal states only
// leave via an explicit reset.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// EventKind identifies the kind of event driving a machine transition.
type EventKind int

const (
	// EventInitiate starts a new purchase attempt. Guarded: it is a no-op
	// unless the machine is idle.
	EventInitiate EventKind = iota

	// EventSubmitFailed reports that the purchase submission itself failed
	// before the chain produced a transaction hash.
	EventSubmitFailed

	// EventWalletAccepted reports that the chain client returned a
	// transaction hash.
	EventWalletAccepted

	// EventReceiptSuccess reports that the transaction mined successfully.
	EventReceiptSuccess

	// EventReceiptFailure reports a reverted transaction or a wallet
	// rejection surfaced by the receipt wait.
	EventReceiptFailure

	// EventResolved reports that resolution produced a non-empty item list.
	EventResolved

	// EventResolutionFailed reports that every resolution source exhausted.
	EventResolutionFailed

	// EventReset acknowledges a terminal outcome and returns the machine to
	// idle so a new attempt can start.
	EventReset
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventInitiate:
		return "initiate"
	case EventSubmitFailed:
		return "submit_failed"
	case EventWalletAccepted:
		return "wallet_accepted"
	case EventReceiptSuccess:
		return "receipt_success"
	case EventReceiptFailure:
		return "receipt_failure"
	case EventResolved:
		return "resolved"
	case EventResolutionFailed:
		return "resolution_failed"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is a machine input. TxHash, Items, and Err are set when the kind
// carries them.
type Event struct {
	Kind   EventKind
	TxHash string
	Items  []mintresolve.CatalogItem
	Err    error
}

// Transition describes one applied state change, including the event that
// caused it. Side effects (notifications, loading indicators) are observable
// only through transitions.
type Transition struct {
	From  Status
	To    Status
	Event Event
}

// Listener receives every applied transition. Listeners are invoked
// synchronously after the state change, outside the machine's lock.
type Listener func(Transition)

// Machine is the purchase finite-state machine:
//
//	idle → submitted → confirming → resolving → {succeeded, failed}
//
// Terminal states return to idle only via EventReset. Illegal events are
// rejected without changing state, which is what prevents a second purchase
// from starting while one is unresolved. The machine itself never times out;
// time budgets live in the resolver.
type Machine struct {
	mu        sync.Mutex
	status    Status
	listeners map[int]Listener
	nextID    int
}

// NewMachine returns a machine in the idle state with no listeners.
func NewMachine() *Machine {
	return &Machine{
		status:    StatusIdle,
		listeners: make(map[int]Listener),
	}
}

// Status returns the current state.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.status
}

// Subscribe registers a listener for applied transitions and returns a
// function that removes it.
func (m *Machine) Subscribe(l Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = l

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		delete(m.listeners, id)
	}
}

// next returns the target state for the given event in the given state, or
// ok=false when the event is not legal there.
func next(from Status, kind EventKind) (Status, bool) {
	switch from {
	case StatusIdle:
		if kind == EventInitiate {
			return StatusSubmitted, true
		}
	case StatusSubmitted:
		switch kind {
		case EventWalletAccepted:
			return StatusConfirming, true
		case EventSubmitFailed:
			return StatusFailed, true
		}
	case StatusConfirming:
		switch kind {
		case EventReceiptSuccess:
			return StatusResolving, true
		case EventReceiptFailure:
			return StatusFailed, true
		}
	case StatusResolving:
		switch kind {
		case EventResolved:
			return StatusSucceeded, true
		case EventResolutionFailed:
			return StatusFailed, true
		}
	case StatusSucceeded, StatusFailed:
		if kind == EventReset {
			return StatusIdle, true
		}
	}

	return 0, false
}

// Dispatch applies the event if it is legal in the current state. It returns
// the applied transition and true, or a zero Transition and false when the
// event was rejected. Listeners run synchronously before Dispatch returns.
func (m *Machine) Dispatch(ev Event) (Transition, bool) {
	m.mu.Lock()

	to, ok := next(m.status, ev.Kind)
	if !ok {
		m.mu.Unlock()
		return Transition{}, false
	}

	t := Transition{From: m.status, To: to, Event: ev}
	m.status = to

	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(t)
	}

	return t, true
}
