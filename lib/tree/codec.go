// Package tree holds the on-disk node layout shared by every B+Tree
// index: fixed-width header, leaf key/value slots, internal
// key/child-pointer slots. Keys and values are serialized through a
// Codec so the tree stays generic over comparable key/value types
// while keeping a fixed-width, byte-copy wire format.
package tree

import (
	"encoding/binary"

	"github.com/lintang-b-s/bptreedb/lib/disk"
)

// Codec encodes/decodes a fixed-width value of type T to/from a byte
// slice of exactly Size() bytes. Mirrors the fixed-width GenericKey
// byte-copy approach BusTub uses for B+Tree keys.
type Codec[T any] interface {
	Size() int
	Encode(v T, buf []byte)
	Decode(buf []byte) T
}

// Int64Codec serializes int64 keys/values as 8-byte little-endian.
type Int64Codec struct{}

func (Int64Codec) Size() int { return 8 }

func (Int64Codec) Encode(v int64, buf []byte) {
	binary.LittleEndian.PutUint64(buf, uint64(v))
}

func (Int64Codec) Decode(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf))
}

// RID (record id) locates a tuple by page and slot, the classic
// B+Tree leaf value.
type RID struct {
	PageID disk.PageID
	Slot   int32
}

// RIDCodec serializes RID as PageID(8) + slot(4) = 12 bytes.
type RIDCodec struct{}

func (RIDCodec) Size() int { return 12 }

func (RIDCodec) Encode(v RID, buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(v.PageID))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(v.Slot))
}

func (RIDCodec) Decode(buf []byte) RID {
	return RID{
		PageID: disk.PageID(binary.LittleEndian.Uint64(buf[0:8])),
		Slot:   int32(binary.LittleEndian.Uint32(buf[8:12])),
	}
}
