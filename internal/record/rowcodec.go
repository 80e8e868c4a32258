package record

import (
	"errors"
	"math"

	"github.com/tuannm99/slotdb/internal/alias/bx"
)

var (
	ErrSchemaMismatch  = errors.New("record: value does not match column type")
	ErrBadBuffer       = errors.New("record: buffer too small for tuple")
	ErrCharTooLong     = errors.New("record: char value longer than column length")
	ErrUnsupportedKind = errors.New("record: unsupported column kind")
)

// EncodeRow writes values into a tuple_len-sized buffer laid out per
// schema.AttrOffsets. buf must already be schema.TupleLen bytes.
func EncodeRow(s *Schema, values []any, buf []byte) error {
	if len(values) != len(s.Columns) {
		return ErrSchemaMismatch
	}
	if len(buf) < s.TupleLen {
		return ErrBadBuffer
	}

	for i, col := range s.Columns {
		off := s.AttrOffsets[i]
		stride := col.Stride()
		if err := encodeValue(col, values[i], buf[off:off+stride]); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(col Column, v any, dst []byte) error {
	switch col.Kind {
	case KindInt:
		x, ok := asInt32(v)
		if !ok {
			return ErrSchemaMismatch
		}
		bx.PutU32(dst, uint32(x))

	case KindFloat:
		x, ok := asFloat32(v)
		if !ok {
			return ErrSchemaMismatch
		}
		bx.PutU32(dst, math.Float32bits(x))

	case KindChar:
		s, ok := v.(string)
		if !ok {
			return ErrSchemaMismatch
		}
		if len(s) > col.Len {
			return ErrCharTooLong
		}
		for i := range dst {
			dst[i] = 0
		}
		copy(dst, s)

	default:
		return ErrUnsupportedKind
	}
	return nil
}

// DecodeRow reads schema.TupleLen bytes from buf and returns one value per
// column, in schema order.
func DecodeRow(s *Schema, buf []byte) ([]any, error) {
	if len(buf) < s.TupleLen {
		return nil, ErrBadBuffer
	}

	out := make([]any, len(s.Columns))
	for i, col := range s.Columns {
		off := s.AttrOffsets[i]
		stride := col.Stride()
		v, err := decodeValue(col, buf[off:off+stride])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeValue(col Column, src []byte) (any, error) {
	switch col.Kind {
	case KindInt:
		return int32(bx.U32(src)), nil

	case KindFloat:
		return math.Float32frombits(bx.U32(src)), nil

	case KindChar:
		n := 0
		for n < len(src) && src[n] != 0 {
			n++
		}
		return string(src[:n]), nil

	default:
		return nil, ErrUnsupportedKind
	}
}

func asInt32(v any) (int32, bool) {
	switch x := v.(type) {
	case int32:
		return x, true
	case int:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), true
		}
	case int64:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return int32(x), true
		}
	case float32:
		return int32(x), true
	case float64:
		return int32(x), true
	}
	return 0, false
}

func asFloat32(v any) (float32, bool) {
	switch x := v.(type) {
	case float32:
		return x, true
	case float64:
		return float32(x), true
	case int32:
		return float32(x), true
	case int:
		return float32(x), true
	}
	return 0, false
}
