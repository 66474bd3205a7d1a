package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestCloneBytes(t *testing.T) {
	assert.Nil(t, CloneBytes(nil))

	src := []byte("key")
	dst := CloneBytes(src)
	assert.Equal(t, src, dst)

	dst[0] = 'X'
	assert.Equal(t, byte('k'), src[0], "clone must not alias the source")
}
