// Package gateway implements a transport-agnostic subset of the CiA 309-3
// ASCII gateway protocol: SDO upload/download and NMT commands expressed as
// request/response text lines, so the protocol can be driven over a serial
// link, a TCP socket, stdin/stdout, or anything else the host wires it to.
//
// A request line has the form:
//
//	<sequence> <node> read <index> <subindex> [datatype]
//	<sequence> <node> write <index> <subindex> <datatype> <value>
//	<sequence> <node> start|stop|preop|reset|reset_comm
//
// and the matching response line is either:
//
//	<sequence> OK [value]
//	<sequence> ERROR <reason>
package gateway

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lely-core/canopen-go/pkg/nmt"
	"github.com/lely-core/canopen-go/pkg/od"
	"github.com/lely-core/canopen-go/pkg/sdo"
)

// Gateway decodes CiA 309-3 ASCII request lines and drives an SDO client
// and an NMT state gate on the caller's behalf. It owns no transport: the
// host reads lines from wherever it likes and feeds them to Execute, then
// writes the returned response line back out.
type Gateway struct {
	client         *sdo.SDOClient
	nmt            *nmt.StateHolder
	defaultNodeId  uint8
	uploadBufSize  int
}

// NewGateway wires a Gateway to an already-configured SDO client and NMT
// state gate. uploadBufSize bounds how many bytes a single "read" request
// may retrieve.
func NewGateway(client *sdo.SDOClient, nmtGate *nmt.StateHolder, defaultNodeId uint8, uploadBufSize int) *Gateway {
	if uploadBufSize <= 0 {
		uploadBufSize = 512
	}
	return &Gateway{
		client:        client,
		nmt:           nmtGate,
		defaultNodeId: defaultNodeId,
		uploadBufSize: uploadBufSize,
	}
}

// SetDefaultNodeId changes the node id requests with no explicit node
// target apply to.
func (gw *Gateway) SetDefaultNodeId(id uint8) {
	gw.defaultNodeId = id
}

// DefaultNodeId returns the current default node id.
func (gw *Gateway) DefaultNodeId() uint8 {
	return gw.defaultNodeId
}

// SetSDOTimeout sets the SDO client timeout used by every request this
// gateway issues, expedited and block transfer alike.
func (gw *Gateway) SetSDOTimeout(timeoutMs uint32) {
	gw.client.SetTimeout(timeoutMs)
	gw.client.SetTimeoutBlockTransfer(timeoutMs)
}

// Execute parses a single CiA 309-3 style request line and returns the
// response line to send back. It never returns an error itself: malformed
// or failed requests are reported as an "ERROR" response line, matching
// the gateway protocol's own error signalling.
func (gw *Gateway) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return errorLine("", "request too short")
	}
	sequence := fields[0]
	args := fields[1:]

	nodeId := gw.defaultNodeId
	if len(args) > 0 {
		if id, err := strconv.ParseUint(args[0], 0, 8); err == nil {
			nodeId = uint8(id)
			args = args[1:]
		}
	}
	if len(args) == 0 {
		return errorLine(sequence, "missing command")
	}

	command := strings.ToLower(args[0])
	args = args[1:]

	switch command {
	case "read":
		return gw.executeRead(sequence, nodeId, args)
	case "write":
		return gw.executeWrite(sequence, nodeId, args)
	case "start":
		return gw.executeNMT(sequence, nodeId, nmt.CommandEnterOperational)
	case "stop":
		return gw.executeNMT(sequence, nodeId, nmt.CommandEnterStopped)
	case "preop", "pre-operational":
		return gw.executeNMT(sequence, nodeId, nmt.CommandEnterPreOperational)
	case "reset":
		return gw.executeNMT(sequence, nodeId, nmt.CommandResetNode)
	case "reset_comm":
		return gw.executeNMT(sequence, nodeId, nmt.CommandResetCommunication)
	default:
		return errorLine(sequence, fmt.Sprintf("unknown command %q", command))
	}
}

func (gw *Gateway) executeRead(sequence string, nodeId uint8, args []string) string {
	if len(args) < 2 {
		return errorLine(sequence, "read requires index and subindex")
	}
	index, subindex, err := parseIndex(args[0], args[1])
	if err != nil {
		return errorLine(sequence, err.Error())
	}

	datatype := uint8(od.VISIBLE_STRING)
	if len(args) > 2 {
		dt, err := strconv.ParseUint(args[2], 0, 8)
		if err != nil {
			return errorLine(sequence, "invalid datatype")
		}
		datatype = uint8(dt)
	}

	raw, err := gw.client.ReadAll(nodeId, index, subindex)
	if err != nil {
		return errorLine(sequence, err.Error())
	}
	if len(raw) > gw.uploadBufSize {
		return errorLine(sequence, fmt.Sprintf("value longer than %d bytes", gw.uploadBufSize))
	}
	value, err := od.DecodeToString(raw, datatype, 0)
	if err != nil {
		return errorLine(sequence, err.Error())
	}
	return fmt.Sprintf("%s OK %s", sequence, value)
}

func (gw *Gateway) executeWrite(sequence string, nodeId uint8, args []string) string {
	if len(args) < 4 {
		return errorLine(sequence, "write requires index, subindex, datatype and value")
	}
	index, subindex, err := parseIndex(args[0], args[1])
	if err != nil {
		return errorLine(sequence, err.Error())
	}
	datatype, err := strconv.ParseUint(args[2], 0, 8)
	if err != nil {
		return errorLine(sequence, "invalid datatype")
	}
	value := strings.Join(args[3:], " ")

	encoded, err := od.EncodeFromString(value, uint8(datatype), 0)
	if err != nil {
		return errorLine(sequence, err.Error())
	}
	if err := gw.client.WriteRaw(nodeId, index, subindex, encoded, false); err != nil {
		return errorLine(sequence, err.Error())
	}
	return sequence + " OK"
}

func (gw *Gateway) executeNMT(sequence string, nodeId uint8, command nmt.Command) string {
	if gw.nmt == nil {
		return errorLine(sequence, "no NMT gate configured")
	}
	if err := gw.nmt.SendCommand(command, nodeId); err != nil {
		return errorLine(sequence, err.Error())
	}
	return sequence + " OK"
}

func parseIndex(indexStr, subindexStr string) (uint16, uint8, error) {
	index, err := strconv.ParseUint(indexStr, 0, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid index %q", indexStr)
	}
	subindex, err := strconv.ParseUint(subindexStr, 0, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid subindex %q", subindexStr)
	}
	return uint16(index), uint8(subindex), nil
}

func errorLine(sequence string, reason string) string {
	if sequence == "" {
		sequence = "0"
	}
	return fmt.Sprintf("%s ERROR %s", sequence, reason)
}
