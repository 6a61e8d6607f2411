package mmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAnon_AllocWriteClose(t *testing.T) {
	size := 1 << 16 // 64 KiB
	m, err := MapAnon(size)
	require.NoError(t, err)

	assert.Equal(t, size, m.Size())

	buf := m.Bytes()
	require.Len(t, buf, size)

	// Anonymous mappings must be zero-initialized
	for _, off := range []int{0, 1, size / 2, size - 1} {
		assert.Zero(t, buf[off], "byte at offset %d not zero", off)
	}

	// Memory must be writable and stable
	buf[0] = 0xAB
	buf[size-1] = 0xCD
	assert.Equal(t, byte(0xAB), m.Bytes()[0])
	assert.Equal(t, byte(0xCD), m.Bytes()[size-1])

	require.NoError(t, m.Close())
}

func TestMapAnon_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -1024} {
		m, err := MapAnon(size)
		assert.Nil(t, m)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestMapAnon_Advise(t *testing.T) {
	m, err := MapAnon(1 << 12)
	require.NoError(t, err)
	defer m.Close()

	for _, pattern := range []AccessPattern{
		AccessDefault, AccessSequential, AccessRandom, AccessWillNeed,
	} {
		require.NoError(t, m.Advise(pattern))
	}
}

func TestMapAnon_AfterClose(t *testing.T) {
	m, err := MapAnon(1 << 12)
	require.NoError(t, err)

	require.NoError(t, m.Close())

	// Close is idempotent
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	assert.Equal(t, ErrClosed, m.Advise(AccessDefault))
}
