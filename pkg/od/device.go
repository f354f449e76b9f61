package od

// Device is the node-level container of the Device -> Object ->
// Sub-object model: an ordered set of Objects (ObjectDictionary's
// Entry map), addressed by index, plus the node-ID and identity
// (vendor/product/revision/serial, CiA301 object 0x1018) that
// distinguish one device instance from another built off the same OD.
//
// ObjectDictionary is the type that actually carries these fields; the
// alias lets the rest of the tree keep using the name it already knew
// while the packed-storage model (storage.go) speaks in
// terms of Device/Object/SubObject, matching the spec vocabulary.
type Device = ObjectDictionary

// Object is an OD entry generalized to the packed-storage model: a
// set of Sub-objects sharing one buffer. VariableList already holds
// that buffer (obj) for ARRAY/RECORD; a standalone VAR/DOMAIN entry's
// *Variable is itself a one-member Object (see object.InsertSub in
// NewVariable).
type Object = VariableList

// SubObject is a single addressable value inside an Object: a
// sub-index, type, access rule, and a current-value slot that lives
// at a fixed offset inside the parent Object's packed buffer. Variable
// is the concrete type; see Variable.slot.
type SubObject = Variable

// NodeId returns the node-ID last recorded by SetNodeId; CANopen
// node-IDs run 1..127, with 255 used to mean "unconfigured".
func (od *ObjectDictionary) NodeId() uint8 {
	return od.nodeId
}

// SetNodeId records the node-ID this Device was built for. It does
// not rewrite any $NODEID-relative default values already baked into
// the OD by the EDS/DCF parser, nor any OD entry; the value is only
// returned by NodeId.
func (od *ObjectDictionary) SetNodeId(nodeId uint8) {
	od.nodeId = nodeId
}

// Identity reads the CiA301 Identity Object (0x1018): vendor ID,
// product code, revision number and serial number. It returns
// ErrIdxNotExist if the OD carries no 0x1018 entry.
func (od *ObjectDictionary) Identity() (vendorId, productCode, revisionNumber, serialNumber uint32, err error) {
	entry := od.Index(EntryIdentityObject)
	if entry == nil {
		return 0, 0, 0, 0, ErrIdxNotExist
	}
	if vendorId, err = entry.Uint32(1); err != nil {
		return 0, 0, 0, 0, err
	}
	if productCode, err = entry.Uint32(2); err != nil {
		return 0, 0, 0, 0, err
	}
	if revisionNumber, err = entry.Uint32(3); err != nil {
		return 0, 0, 0, 0, err
	}
	if serialNumber, err = entry.Uint32(4); err != nil {
		return 0, 0, 0, 0, err
	}
	return vendorId, productCode, revisionNumber, serialNumber, nil
}
