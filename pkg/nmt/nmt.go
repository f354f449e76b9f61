// Package nmt implements the minimal CiA 301 Network Management state gate:
// it tracks which of the four NMT states a node is in and applies incoming
// NMT commands. Heartbeat production/consumption and the boot-up state
// machine are out of scope; the host is responsible for booting the device
// and, if it wants heartbeats, driving them itself.
package nmt

import (
	"sync"

	canopen "github.com/lely-core/canopen-go"
)

const ServiceId = 0

// Possible NMT states (CiA 301 §7.3.2)
const (
	StateInitializing   uint8 = 0
	StatePreOperational uint8 = 127
	StateOperational    uint8 = 5
	StateStopped        uint8 = 4
)

var stateMap = map[uint8]string{
	StateInitializing:   "INITIALIZING",
	StatePreOperational: "PRE-OPERATIONAL",
	StateOperational:    "OPERATIONAL",
	StateStopped:        "STOPPED",
}

// Available NMT commands, broadcast or addressed to a single node.
type Command uint8

const (
	CommandEnterOperational    Command = 1
	CommandEnterStopped        Command = 2
	CommandEnterPreOperational Command = 128
	CommandResetNode           Command = 129
	CommandResetCommunication  Command = 130
)

var CommandDescription = map[Command]string{
	CommandEnterOperational:    "ENTER-OPERATIONAL",
	CommandEnterStopped:        "ENTER-STOPPED",
	CommandEnterPreOperational: "ENTER-PREOPERATIONAL",
	CommandResetNode:           "RESET-NODE",
	CommandResetCommunication:  "RESET-COMMUNICATION",
}

// Reset request raised by a CommandResetNode/CommandResetCommunication and
// consumed by the host via GetPendingReset.
const (
	ResetNot  uint8 = 0
	ResetComm uint8 = 1
	ResetApp  uint8 = 2
)

// StateHolder tracks the current NMT state and applies incoming commands.
// It holds no timers and spawns no goroutines: Handle stores the effect of
// a received command synchronously, the host reads the resulting state with
// GetInternalState.
type StateHolder struct {
	bm             *canopen.BusManager
	mu             sync.Mutex
	nodeId         uint8
	operatingState uint8
	resetCommand   uint8
	nmtTxBuff      canopen.Frame
	callbacks      map[uint64]func(nmtState uint8)
	callbackNextId uint64
	rxCancel       func()
}

// NMT is an alias kept for continuity with the rest of the package; it is
// the single type implementing the NMT slave gate.
type NMT = StateHolder

// Handle applies an NMT command frame (CiA 301 §7.2.8.3.1).
func (nmt *StateHolder) Handle(frame canopen.Frame) {
	nmt.mu.Lock()
	defer nmt.mu.Unlock()

	if frame.DLC != 2 {
		return
	}
	command := Command(frame.Data[0])
	nodeId := frame.Data[1]
	if nodeId == 0 || nodeId == nmt.nodeId {
		nmt.applyCommand(command)
	}
}

func (nmt *StateHolder) applyCommand(command Command) {
	newState := nmt.operatingState

	switch command {
	case CommandEnterOperational:
		newState = StateOperational
	case CommandEnterStopped:
		newState = StateStopped
	case CommandEnterPreOperational:
		newState = StatePreOperational
	case CommandResetNode:
		nmt.resetCommand = ResetApp
	case CommandResetCommunication:
		nmt.resetCommand = ResetComm
	}

	if newState != nmt.operatingState {
		nmt.setState(newState)
	}
}

func (nmt *StateHolder) setState(newState uint8) {
	nmt.operatingState = newState
	for _, callback := range nmt.callbacks {
		callback(newState)
	}
}

// GetInternalState returns the current NMT state.
func (nmt *StateHolder) GetInternalState() uint8 {
	if nmt == nil {
		return StateInitializing
	}
	nmt.mu.Lock()
	defer nmt.mu.Unlock()
	return nmt.operatingState
}

// GetPendingReset returns and clears a reset requested by the last
// CommandResetNode/CommandResetCommunication command.
func (nmt *StateHolder) GetPendingReset() uint8 {
	nmt.mu.Lock()
	defer nmt.mu.Unlock()
	cmd := nmt.resetCommand
	nmt.resetCommand = ResetNot
	return cmd
}

// SetState forces the NMT state, e.g. once the host has finished booting.
func (nmt *StateHolder) SetState(state uint8) {
	nmt.mu.Lock()
	defer nmt.mu.Unlock()
	nmt.setState(state)
}

// SendCommand broadcasts (nodeId == 0) or addresses an NMT command to the
// network, applying it locally too if it targets this node.
func (nmt *StateHolder) SendCommand(command Command, nodeId uint8) error {
	nmt.mu.Lock()
	defer nmt.mu.Unlock()

	if nodeId == 0 || nodeId == nmt.nodeId {
		nmt.applyCommand(command)
	}
	nmt.nmtTxBuff.Data[0] = uint8(command)
	nmt.nmtTxBuff.Data[1] = nodeId
	return nmt.bm.Send(nmt.nmtTxBuff)
}

// AddStateChangeCallback registers a callback invoked on every NMT state
// transition. The returned cancel func removes it.
func (nmt *StateHolder) AddStateChangeCallback(callback func(nmtState uint8)) (cancel func()) {
	nmt.mu.Lock()
	defer nmt.mu.Unlock()

	id := nmt.callbackNextId
	nmt.callbackNextId++
	nmt.callbacks[id] = callback

	return func() {
		nmt.mu.Lock()
		defer nmt.mu.Unlock()
		delete(nmt.callbacks, id)
	}
}

// Close releases the NMT command-frame subscription.
func (nmt *StateHolder) Close() {
	nmt.mu.Lock()
	defer nmt.mu.Unlock()
	if nmt.rxCancel != nil {
		nmt.rxCancel()
	}
	nmt.callbacks = make(map[uint64]func(nmtState uint8))
	nmt.callbackNextId = 1
}

// NewNMT creates a minimal NMT state gate for nodeId, subscribing to NMT
// command frames on canIdNmtRx and sending commands on canIdNmtTx.
func NewNMT(bm *canopen.BusManager, nodeId uint8, canIdNmtTx uint16, canIdNmtRx uint16) (*StateHolder, error) {
	if bm == nil {
		return nil, canopen.ErrIllegalArgument
	}

	nmt := &StateHolder{
		bm:             bm,
		nodeId:         nodeId,
		operatingState: StateInitializing,
		callbacks:      make(map[uint64]func(nmtState uint8)),
		callbackNextId: 1,
	}

	rxCancel, err := bm.Subscribe(uint32(canIdNmtRx), 0x7FF, false, nmt)
	if err != nil {
		return nil, err
	}
	nmt.rxCancel = rxCancel
	nmt.nmtTxBuff = canopen.NewFrame(uint32(canIdNmtTx), 0, 2)

	return nmt, nil
}
