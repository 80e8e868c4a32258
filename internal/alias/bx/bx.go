// Package bx is a minimal little-endian byte helper: every on-disk
// integer in this engine (page headers, table-file headers) is exactly
// one u32, so this is the full surface the storage layer needs.
package bx

import "encoding/binary"

var LE = binary.LittleEndian

func U32(b []byte) uint32       { return LE.Uint32(b) }
func PutU32(b []byte, v uint32) { LE.PutUint32(b, v) }

func U32At(b []byte, off int) uint32       { return U32(b[off:]) }
func PutU32At(b []byte, off int, v uint32) { PutU32(b[off:], v) }
