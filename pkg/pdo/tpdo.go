package pdo

import (
	"fmt"
	"log/slog"
	s "sync"

	canopen "github.com/lely-core/canopen-go"
	"github.com/lely-core/canopen-go/pkg/emergency"
	"github.com/lely-core/canopen-go/pkg/od"
	"github.com/lely-core/canopen-go/pkg/sync"
)

const (
	SyncCounterReset        = 255
	SyncCounterWaitForStart = 254
)

type TPDO struct {
	*canopen.BusManager
	mu               s.Mutex
	sync             *sync.SYNC
	pdo              *PDOCommon
	txBuffer         canopen.Frame
	transmissionType uint8
	sendRequest      bool
	syncStartValue   uint8
	syncCounter      uint8
	inhibitTimeUs    uint32
	eventTimeUs      uint32
	inhibitTimer     uint32
	eventTimer       uint32
	inhibitActive    bool
	isOperational    bool
	syncCancel       func()
}

// OnSync is called synchronously by pkg/sync.SYNC, from inside its own
// Handle/Process, whenever a SYNC event occurs. It replaces the
// teacher's chan-uint8/goroutine sync fan-out with a direct, in-line
// callback, matching this tree's passive-engine contract.
func (tpdo *TPDO) OnSync(counter uint8) {
	tpdo.mu.Lock()
	isSyncAcyclic := tpdo.transmissionType == TransmissionTypeSyncAcyclic

	// Send synchronous acyclic tpdo
	if isSyncAcyclic && tpdo.sendRequest {
		tpdo.mu.Unlock()
		_ = tpdo.send()
		return
	}

	// Send synchronous cyclic TPDOs
	if tpdo.syncCounter == SyncCounterReset {
		if tpdo.sync.CounterOverflow() != 0 && tpdo.syncStartValue != 0 {
			tpdo.syncCounter = SyncCounterWaitForStart
		} else {
			tpdo.syncCounter = tpdo.transmissionType
		}
	}

	// If sync start value is used , start first TPDO
	// after sync with matched syncstartvalue
	switch tpdo.syncCounter {

	case SyncCounterWaitForStart:
		if tpdo.sync.Counter() == tpdo.syncStartValue {
			tpdo.syncCounter = tpdo.transmissionType
			tpdo.mu.Unlock()
			_ = tpdo.send()
			return
		}

	case 1:
		tpdo.syncCounter = tpdo.transmissionType
		tpdo.mu.Unlock()
		_ = tpdo.send()
		return

	default:
		tpdo.syncCounter--
	}
	tpdo.mu.Unlock()
}

func (tpdo *TPDO) configureTransmissionType(entry18xx *od.Entry) error {
	tpdo.mu.Lock()
	defer tpdo.mu.Unlock()

	transmissionType, err := entry18xx.Uint8(od.SubPdoTransmissionType)
	if err != nil {
		tpdo.pdo.logger.Error("reading failed",
			"index", fmt.Errorf("x%x", entry18xx.Index),
			"subindex", od.SubPdoTransmissionType,
			"error", err,
		)
		return canopen.ErrOdParameters
	}
	if transmissionType < TransmissionTypeSyncEventLo && transmissionType > TransmissionTypeSync240 {
		transmissionType = TransmissionTypeSyncEventLo
	}
	tpdo.transmissionType = transmissionType
	tpdo.sendRequest = true
	return nil
}

func (tpdo *TPDO) configureCOBID(entry18xx *od.Entry, predefinedIdent uint16, erroneousMap uint32) (canId uint16, e error) {
	tpdo.mu.Lock()
	defer tpdo.mu.Unlock()

	pdo := tpdo.pdo
	cobId, err := entry18xx.Uint32(od.SubPdoCobId)
	if err != nil {
		tpdo.pdo.logger.Error("reading failed",
			"index", fmt.Errorf("x%x", entry18xx.Index),
			"subindex", od.SubPdoCobId,
			"error", err,
		)
		return 0, canopen.ErrOdParameters
	}
	valid := (cobId & 0x80000000) == 0
	canId = uint16(cobId & 0x7FF)
	if valid && (pdo.nbMapped == 0 || canId == 0) {
		valid = false
		if erroneousMap == 0 {
			erroneousMap = 1
		}
	}
	if erroneousMap != 0 {
		errorInfo := erroneousMap
		if erroneousMap == 1 {
			errorInfo = cobId
		}
		pdo.emcy.ErrorReport(emergency.EmPDOWrongMapping, emergency.ErrProtocolError, errorInfo)
	}
	if !valid {
		canId = 0
	}
	// If default canId is stored in od add node id
	if canId != 0 && canId == (predefinedIdent&0xFF80) {
		canId = predefinedIdent
	}
	tpdo.txBuffer = canopen.NewFrame(uint32(canId), 0, uint8(pdo.dataLength))
	pdo.Valid = valid
	return canId, nil

}

func (tpdo *TPDO) send() error {
	tpdo.mu.Lock()
	defer tpdo.mu.Unlock()

	pdo := tpdo.pdo
	if !pdo.Valid {
		return nil
	}

	totalNbRead := 0
	var err error

	for i := range pdo.nbMapped {
		streamer := &pdo.streamers[i]
		mappedLength := streamer.DataOffset
		streamer.DataOffset = 0
		_, err = streamer.Read(tpdo.txBuffer.Data[totalNbRead:])
		if err != nil {
			tpdo.pdo.logger.Warn("failed to send", "cobId", pdo.configuredId, "error", err)
			return err
		}
		streamer.DataOffset = mappedLength
		totalNbRead += int(mappedLength)
	}
	tpdo.sendRequest = false
	tpdo.eventTimer = 0
	if tpdo.inhibitTimeUs != 0 {
		tpdo.inhibitActive = true
		tpdo.inhibitTimer = 0
	}
	return tpdo.Send(tpdo.txBuffer)
}

func (tpdo *TPDO) checkAndSend() {
	tpdo.mu.Lock()
	if tpdo.inhibitActive {
		tpdo.sendRequest = true
		tpdo.mu.Unlock()
		return
	}
	tpdo.mu.Unlock()
	_ = tpdo.send()
}

// Send TPDO now, or, while the inhibit time is active, the next time
// it is processed. The transmission type is not checked.
func (tpdo *TPDO) SendAsync() {
	tpdo.checkAndSend()
}

func (tpdo *TPDO) SetOperational(operational bool) {
	tpdo.mu.Lock()
	defer tpdo.mu.Unlock()
	tpdo.isOperational = operational
	if operational {
		tpdo.eventTimer = 0
	} else {
		tpdo.inhibitActive = false
		tpdo.inhibitTimer = 0
		tpdo.eventTimer = 0
	}
}

// Process advances the inhibit and event tick counters, same
// Process(timeDifferenceUs) contract as every other converted service
// in this tree. It replaces the teacher's time.AfterFunc-driven
// inhibit/event timers.
func (tpdo *TPDO) Process(timeDifferenceUs uint32) {
	tpdo.mu.Lock()
	if !tpdo.isOperational {
		tpdo.mu.Unlock()
		return
	}

	if tpdo.inhibitActive {
		tpdo.inhibitTimer += timeDifferenceUs
		if tpdo.inhibitTimer >= tpdo.inhibitTimeUs {
			tpdo.inhibitActive = false
			req := tpdo.sendRequest
			tpdo.mu.Unlock()
			if req {
				_ = tpdo.send()
			}
			return
		}
	}

	if tpdo.eventTimeUs != 0 {
		tpdo.eventTimer += timeDifferenceUs
		if tpdo.eventTimer >= tpdo.eventTimeUs {
			tpdo.sendRequest = true
			inhibit := tpdo.inhibitActive
			tpdo.mu.Unlock()
			if !inhibit {
				_ = tpdo.send()
			}
			return
		}
	}
	tpdo.mu.Unlock()
}

// Create a new TPDO
func NewTPDO(
	bm *canopen.BusManager,
	logger *slog.Logger,
	odict *od.ObjectDictionary,
	emcy *emergency.EMCY,
	sync *sync.SYNC,
	entry18xx *od.Entry,
	entry1Axx *od.Entry,
	predefinedIdent uint16,

) (*TPDO, error) {
	if odict == nil || entry18xx == nil || entry1Axx == nil || bm == nil || emcy == nil {
		return nil, canopen.ErrIllegalArgument
	}

	tpdo := &TPDO{BusManager: bm}

	// Configure mapping parameters
	erroneousMap := uint32(0)
	pdo, err := NewPDO(odict, logger, entry1Axx, false, emcy, &erroneousMap)
	if err != nil {
		return nil, err
	}
	tpdo.pdo = pdo
	// Configure transmission type
	err = tpdo.configureTransmissionType(entry18xx)
	if err != nil {
		return nil, err
	}
	// Configure COB ID
	canId, err := tpdo.configureCOBID(entry18xx, predefinedIdent, erroneousMap)
	if err != nil {
		return nil, err
	}
	// Configure inhibit time (not mandatory)
	inhibitTime, err := entry18xx.Uint16(od.SubPdoInhibitTime)
	if err != nil {
		tpdo.pdo.logger.Warn("reading inhibit time failed",
			"index", fmt.Sprintf("x%x", entry18xx.Index),
			"subindex", od.SubPdoInhibitTime,
			"error", err,
		)
	}
	tpdo.inhibitTimeUs = uint32(inhibitTime) * 100

	// Configure event timer (not mandatory)
	eventTime, err := entry18xx.Uint16(od.SubPdoEventTimer)
	if err != nil {
		tpdo.pdo.logger.Warn("reading event timer failed",
			"index", entry18xx.Index,
			"subindex", od.SubPdoEventTimer,
			"error", err,
		)

	}
	tpdo.eventTimeUs = uint32(eventTime) * 1000

	// Configure sync start value (not mandatory)
	tpdo.syncStartValue, err = entry18xx.Uint8(od.SubPdoSyncStart)
	if err != nil {
		tpdo.pdo.logger.Warn("reading sync start failed",
			"index", entry18xx.Index,
			"subindex", od.SubPdoSyncStart,
			"error", err,
		)
	}
	tpdo.sync = sync
	tpdo.syncCounter = SyncCounterReset

	// Configure OD extensions
	pdo.IsRPDO = false
	pdo.predefinedId = predefinedIdent
	pdo.configuredId = canId
	entry18xx.AddExtension(tpdo, readEntry14xxOr18xx, writeEntry18xx)
	entry1Axx.AddExtension(tpdo, od.ReadEntryDefault, writeEntry16xxOr1Axx)
	tpdo.pdo.logger.Debug("finished initializing",
		"canId", canId,
		"valid", pdo.Valid,
		"inhibit time", inhibitTime,
		"event time", eventTime,
		"transmission type", tpdo.transmissionType,
	)
	if tpdo.transmissionType < TransmissionTypeSyncEventLo && tpdo.sync != nil {
		tpdo.syncCancel = tpdo.sync.Subscribe(tpdo.OnSync)
	}
	return tpdo, nil
}
