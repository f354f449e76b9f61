package od

import (
	"encoding/binary"
	"math"
	"sync"
)

// Variable is the main data representation for a value stored inside of OD.
// It is used to store a "VAR" or "DOMAIN" object type as well as any sub
// entry of a "RECORD" or "ARRAY" object type.
type Variable struct {
	mu           sync.RWMutex
	valueDefault []byte
	// value is a view into object.buf[offset:offset+size] — the
	// sub-object's packed current-value slot, not an independently
	// owned buffer. It is re-sliced by object.rebuildStorage whenever
	// the parent's backing buffer is reallocated.
	value []byte
	// object is the packed-storage Object this sub-object belongs to:
	// its own private one-member object for a standalone VAR/DOMAIN,
	// or the VariableList-shared object for an ARRAY/RECORD member.
	object *object
	offset int
	size   int
	// Name of this variable
	Name string
	// The CiA 301 data type of this variable
	DataType byte
	// Attribute contains the access type as well as the mapping
	// information. e.g. AttributeSdoRw | AttributeRpdo
	Attribute uint8
	// StorageLocation has information on which medium is the data
	// stored. Currently this is unused, everything is stored in RAM
	StorageLocation string
	// The minimum value for this variable
	lowLimit []byte
	// The maximum value for this variable
	highLimit []byte
	// The subindex for this variable if part of an ARRAY or RECORD
	SubIndex uint8
}

// Return number of bytes
func (variable *Variable) DataLength() uint32 {
	return uint32(len(variable.value))
}

// Return default value as byte slice
func (variable *Variable) DefaultValue() []byte {
	return variable.valueDefault
}

// Uint8 reads the variable's raw value as an UNSIGNED8.
func (variable *Variable) Uint8() (uint8, error) {
	v, err := DecodeToTypeExact(variable.value, UNSIGNED8)
	if err != nil {
		return 0, err
	}
	return v.(uint8), nil
}

// Uint16 reads the variable's raw value as an UNSIGNED16.
func (variable *Variable) Uint16() (uint16, error) {
	v, err := DecodeToTypeExact(variable.value, UNSIGNED16)
	if err != nil {
		return 0, err
	}
	return v.(uint16), nil
}

// Uint32 reads the variable's raw value as an UNSIGNED32.
func (variable *Variable) Uint32() (uint32, error) {
	v, err := DecodeToTypeExact(variable.value, UNSIGNED32)
	if err != nil {
		return 0, err
	}
	return v.(uint32), nil
}

// Uint64 reads the variable's raw value as an UNSIGNED64.
func (variable *Variable) Uint64() (uint64, error) {
	v, err := DecodeToTypeExact(variable.value, UNSIGNED64)
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}

// Create a new variable
func NewVariable(
	subindex uint8,
	name string,
	datatype uint8,
	attribute uint8,
	value string,
) (*Variable, error) {
	encoded, err := EncodeFromString(value, datatype, 0)
	if err != nil {
		return nil, err
	}
	encodedCopy := make([]byte, len(encoded))
	copy(encodedCopy, encoded)
	variable := &Variable{
		SubIndex:     subindex,
		Name:         name,
		valueDefault: encodedCopy,
		Attribute:    attribute,
		DataType:     datatype,
	}
	// A standalone VAR/DOMAIN entry is a one-member packed Object: its
	// current-value slot is base(object)+0, same invariant as any
	// ARRAY/RECORD sub-object, just with a single occupant.
	(&object{}).InsertSub(variable)
	copy(variable.value, encoded)
	return variable, nil
}

// Encode from generic type
func EncodeFromGeneric(data any) ([]byte, error) {
	var encoded []byte
	switch val := data.(type) {
	case uint8:
		encoded = []byte{val}
	case int8:
		encoded = []byte{byte(val)}
	case uint16:
		encoded = make([]byte, 2)
		binary.LittleEndian.PutUint16(encoded, val)
	case int16:
		encoded = make([]byte, 2)
		binary.LittleEndian.PutUint16(encoded, uint16(val))
	case uint32:
		encoded = make([]byte, 4)
		binary.LittleEndian.PutUint32(encoded, val)
	case int32:
		encoded = make([]byte, 4)
		binary.LittleEndian.PutUint32(encoded, uint32(val))
	case uint64:
		encoded = make([]byte, 8)
		binary.LittleEndian.PutUint64(encoded, val)
	case int64:
		encoded = make([]byte, 8)
		binary.LittleEndian.PutUint64(encoded, uint64(val))
	case string:
		encoded = []byte(val)
	case float32:
		encoded = make([]byte, 4)
		binary.LittleEndian.PutUint32(encoded, math.Float32bits(val))
	case float64:
		encoded = make([]byte, 8)
		binary.LittleEndian.PutUint64(encoded, math.Float64bits(val))
	case []byte:
		encoded = val
	default:
		return nil, ErrTypeMismatch
	}
	return encoded, nil
}

