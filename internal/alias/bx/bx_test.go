package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU32RoundTrip(t *testing.T) {
	b := make([]byte, 4)
	var v uint32 = 0x01020304

	PutU32(b, v)
	// LE: 04 03 02 01
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b)
	assert.Equal(t, v, U32(b))
}

func TestU32AtOffset(t *testing.T) {
	buf := make([]byte, 16)

	PutU32At(buf, 0, 0x01020304)
	PutU32At(buf, 4, 0xAABBCCDD)

	assert.Equal(t, uint32(0x01020304), U32At(buf, 0))
	assert.Equal(t, uint32(0xAABBCCDD), U32At(buf, 4))
}
