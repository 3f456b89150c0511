package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferIntRoundTrip(t *testing.T) {
	b := NewBufferSize(8)
	_, err := WriteInt(b, 1234)
	require.NoError(t, err)

	var n int
	_, err = ReadInt(b, &n)
	require.NoError(t, err)
	require.Equal(t, 1234, n)
}

func TestBufferFloat64RoundTrip(t *testing.T) {
	b := NewBufferSize(8)
	_, err := WriteFloat64(b, 3.25)
	require.NoError(t, err)

	var f float64
	_, err = ReadFloat64(b, &f)
	require.NoError(t, err)
	require.Equal(t, 3.25, f)
}

func TestBufferUint64SliceRoundTrip(t *testing.T) {
	b := NewBufferSize(16)
	in := []uint64{1, 2, 3}
	_, err := WriteUint64Slice(b, in)
	require.NoError(t, err)

	out := make([]uint64, 3)
	_, err = ReadUint64Slice(b, out)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestBufferTruncatedRead(t *testing.T) {
	b := NewBuffer([]byte{1, 2, 3})
	var n int
	_, err := ReadInt(b, &n)
	require.Error(t, err)
}
