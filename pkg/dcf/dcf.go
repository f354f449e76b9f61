// Package dcf implements the concise-DCF-style persisted-state format
// described in spec §6: an object-dictionary snapshot as a flat list
// of (index, sub-index, size, value-bytes) triples, generalizing
// pkg/od/export.go's full EDS-text export path down to the narrower
// binary-triple format used for persisting current values, without
// pulling in the rest of EDS/DCF text parsing (out of scope).
package dcf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/lely-core/canopen-go/pkg/od"
)

// Entry is one persisted (index, sub-index, size, value-bytes) triple.
type Entry struct {
	Index    uint16
	SubIndex uint8
	Data     []byte
}

// Dump walks every entry of odict in index order and writes its
// current value out as a concise-DCF triple stream: a leading
// UNSIGNED32 entry count, then for each triple a fixed
// (index uint16, sub-index uint8, size uint32) header followed by
// size bytes of value, all little-endian — the CiA 306 concise-DCF
// wire layout.
func Dump(odict *od.ObjectDictionary, w io.Writer) error {
	entries, err := collect(odict)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(entries)))
	if _, err := bw.Write(countBuf[:]); err != nil {
		return err
	}

	var hdr [7]byte
	for _, e := range entries {
		binary.LittleEndian.PutUint16(hdr[0:2], e.Index)
		hdr[2] = e.SubIndex
		binary.LittleEndian.PutUint32(hdr[3:7], uint32(len(e.Data)))
		if _, err := bw.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := bw.Write(e.Data); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// collect gathers one triple per sub-object, current value, sorted by
// (index, sub-index) to make Dump's output deterministic.
func collect(odict *od.ObjectDictionary) ([]Entry, error) {
	indexes := make([]int, 0)
	for index := range odict.Entries() {
		indexes = append(indexes, int(index))
	}
	sort.Ints(indexes)

	entries := make([]Entry, 0)
	for _, index := range indexes {
		entry := odict.Entries()[uint16(index)]
		for sub := 0; sub < entry.SubCount(); sub++ {
			variable, err := entry.SubIndex(uint8(sub))
			if err != nil {
				return nil, err
			}
			buf := make([]byte, variable.DataLength())
			if err := entry.ReadExactly(uint8(sub), buf, true); err != nil {
				return nil, fmt.Errorf("dcf: reading x%x sub%x: %w", index, sub, err)
			}
			entries = append(entries, Entry{
				Index:    uint16(index),
				SubIndex: uint8(sub),
				Data:     buf,
			})
		}
	}
	return entries, nil
}

// Load reads a concise-DCF triple stream written by Dump and installs
// each triple into odict via the value codec (od.Entry.WriteExactly,
// which range- and size-checks through the same path live SDO/PDO
// writes take). A triple naming an index/sub-index absent from odict
// is reported via ErrUnknownEntry rather than aborting the whole load,
// so a snapshot captured from a superset device can still be applied.
func Load(odict *od.ObjectDictionary, r io.Reader) error {
	br := bufio.NewReader(r)

	var countBuf [4]byte
	if _, err := io.ReadFull(br, countBuf[:]); err != nil {
		return fmt.Errorf("dcf: reading entry count: %w", err)
	}
	count := binary.LittleEndian.Uint32(countBuf[:])

	var hdr [7]byte
	var unknown error
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			return fmt.Errorf("dcf: reading triple %d header: %w", i, err)
		}
		index := binary.LittleEndian.Uint16(hdr[0:2])
		subIndex := hdr[2]
		size := binary.LittleEndian.Uint32(hdr[3:7])

		data := make([]byte, size)
		if _, err := io.ReadFull(br, data); err != nil {
			return fmt.Errorf("dcf: reading triple %d (x%x sub%x) value: %w", i, index, subIndex, err)
		}

		entry := odict.Index(index)
		if entry == nil {
			if unknown == nil {
				unknown = fmt.Errorf("%w: x%x", ErrUnknownEntry, index)
			}
			continue
		}
		if err := entry.WriteExactly(subIndex, data, true); err != nil {
			if errors.Is(err, od.ErrSubNotExist) {
				if unknown == nil {
					unknown = fmt.Errorf("%w: x%x sub%x", ErrUnknownEntry, index, subIndex)
				}
				continue
			}
			return fmt.Errorf("dcf: installing x%x sub%x: %w", index, subIndex, err)
		}
	}
	return unknown
}
