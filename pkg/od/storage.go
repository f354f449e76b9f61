package od

import "github.com/lely-core/canopen-go/pkg/value"

// object is the packed-storage backing shared by every sub-object of
// an OD Object: a single buffer, with each sub-object's current value
// living at a fixed offset inside it. A standalone VAR/DOMAIN entry
// owns a private one-member object; an ARRAY or RECORD's Variables
// all share one object, so their current-value slots are contiguous
// inside a single allocation instead of each growing its own.
//
// Every structural change (InsertSub/RemoveSub) goes through
// rebuildStorage, which recomputes offsets, allocates the replacement
// buffer, and only swaps it in once fully built — a panic partway
// through (the only failure mode Go gives us for an allocation that is
// too large) leaves the object exactly as it was before the call.
type object struct {
	buf  []byte
	subs []*Variable
}

// slot returns the live, pointer-stable view of v's current value
// inside its parent object's packed buffer: base(object) + offset(v).
func (v *Variable) slot() []byte {
	return v.value
}

func sizeOf(v *Variable) int {
	if n := value.SizeOf(v.DataType); n >= 0 {
		return n
	}
	return len(v.valueDefault)
}

// InsertSub adds v to the object's sub-object set and rebuilds the
// packed buffer so v's value becomes reachable at base+offset.
func (o *object) InsertSub(v *Variable) {
	v.object = o
	o.subs = append(o.subs, v)
	o.rebuildStorage()
}

// RemoveSub drops the sub-object at subindex, if present, and rebuilds
// the packed buffer so the remaining sub-objects stay contiguous.
func (o *object) RemoveSub(subindex uint8) bool {
	for i, v := range o.subs {
		if v.SubIndex == subindex {
			o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
			o.rebuildStorage()
			return true
		}
	}
	return false
}

// rebuildStorage lays out every sub-object in sub-index order, aligning
// each to value.AlignOf(type) and reserving value.SizeOf(type) bytes,
// then allocates the new buffer and moves each sub-object's previous
// value into its new slot. The scratch layout is computed entirely
// before anything is mutated, and the new buffer is swapped in only at
// the very end (guarded by recover), so a panic during allocation or
// copy leaves the object in its pre-call state.
func (o *object) rebuildStorage() {
	type placement struct {
		v      *Variable
		offset int
		size   int
	}

	sorted := append([]*Variable(nil), o.subs...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].SubIndex < sorted[j-1].SubIndex; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	placements := make([]placement, 0, len(sorted))
	offset := 0
	for _, v := range sorted {
		align := value.AlignOf(v.DataType)
		if align > 1 {
			if rem := offset % align; rem != 0 {
				offset += align - rem
			}
		}
		size := sizeOf(v)
		placements = append(placements, placement{v, offset, size})
		offset += size
	}

	ok := false
	var newBuf []byte
	func() {
		defer func() {
			_ = recover()
		}()
		newBuf = make([]byte, offset)
		for _, p := range placements {
			value.Move(newBuf[p.offset:p.offset+p.size], p.v.value)
		}
		ok = true
	}()
	if !ok {
		return
	}

	o.buf = newBuf
	for _, p := range placements {
		p.v.offset = p.offset
		p.v.size = p.size
		p.v.value = o.buf[p.offset : p.offset+p.size]
	}
	// Keep subs sub-index sorted so FindSub can binary search it.
	o.subs = sorted
}

// FindSub looks up a sub-object by sub-index in O(log n) via the
// sub-index-sorted slice rebuildStorage maintains, rather than the
// linear/array-indexed scan GetSubObject does.
func (o *object) FindSub(subindex uint8) (*Variable, bool) {
	lo, hi := 0, len(o.subs)
	for lo < hi {
		mid := (lo + hi) / 2
		if o.subs[mid].SubIndex < subindex {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(o.subs) && o.subs[lo].SubIndex == subindex {
		return o.subs[lo], true
	}
	return nil, false
}

// FindSub looks up a sub-object of rec by sub-index in O(log n),
// generalizing the teacher's linear GetSubObject scan (array index for
// ARRAY, linear scan for RECORD) to a single binary search for both.
func (rec *VariableList) FindSub(subindex uint8) (*Variable, error) {
	if rec.obj == nil {
		return nil, ErrSubNotExist
	}
	v, ok := rec.obj.FindSub(subindex)
	if !ok {
		return nil, ErrSubNotExist
	}
	return v, nil
}

// SetVal decodes raw (a textual value, as accepted by pkg/value) for
// the sub-object at subIndex and installs it through that sub-object's
// download hook. Access is checked before anything else is decoded or
// range-checked: a read-only sub-object rejects the write with
// ErrReadonly regardless of whether raw would otherwise parse.
func (entry *Entry) SetVal(subIndex uint8, raw string) error {
	sub, err := entry.SubIndex(subIndex)
	if err != nil {
		return err
	}
	if sub.Attribute&AttributeSdoW == 0 {
		return ErrReadonly
	}
	encoded, err := value.EncodeString(raw, sub.DataType)
	if err != nil {
		return ErrTypeMismatch
	}
	if entry.od == nil || entry.od.LimitChecking() {
		if err := value.CheckRange(encoded, sub.DataType, sub.lowLimit, sub.highLimit); err != nil {
			return ErrInvalidValue
		}
	}
	return entry.WriteExactly(subIndex, encoded, false)
}

// Val reads the sub-object at subIndex through its upload hook and
// renders it back to text (base 10), the inverse of SetVal.
func (entry *Entry) Val(subIndex uint8) (string, error) {
	sub, err := entry.SubIndex(subIndex)
	if err != nil {
		return "", err
	}
	if sub.Attribute&AttributeSdoR == 0 {
		return "", ErrWriteOnly
	}
	buf := make([]byte, sub.DataLength())
	if err := entry.ReadExactly(subIndex, buf, false); err != nil {
		return "", err
	}
	return value.DecodeString(buf, sub.DataType, 10)
}
