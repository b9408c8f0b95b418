package types

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAddressDeterministic(t *testing.T) {
	deployer := AddressFromString("1111111111111111111111111111111111111111")
	codeHash := HashBytes([]byte("some wasm byte code"))
	salt := []byte("salt")

	first := DeriveAddress(deployer, codeHash, salt)
	second := DeriveAddress(deployer, codeHash, salt)
	assert.Equal(t, first, second)

	// changing any one input changes the address
	otherDeployer := AddressFromString("2222222222222222222222222222222222222222")
	assert.NotEqual(t, first, DeriveAddress(otherDeployer, codeHash, salt))
	assert.NotEqual(t, first, DeriveAddress(deployer, HashBytes([]byte("other code")), salt))
	assert.NotEqual(t, first, DeriveAddress(deployer, codeHash, []byte("other salt")))
}

func TestDeriveAddressNoCollisions(t *testing.T) {
	deployer := AddressFromString("1111111111111111111111111111111111111111")
	codeHash := HashBytes([]byte("code"))

	seen := make(map[Address]struct{})
	for i := 0; i < 1000; i++ {
		salt := make([]byte, 16)
		_, err := rand.Read(salt)
		require.NoError(t, err)
		addr := DeriveAddress(deployer, codeHash, salt)
		_, dup := seen[addr]
		require.False(t, dup, "address collision for salt %x", salt)
		seen[addr] = struct{}{}
	}
}

func TestAddressRoundTrip(t *testing.T) {
	addr := DeriveAddress(ZeroAddress, ZeroHash, []byte("x"))
	parsed := AddressFromString(addr.String())
	assert.Equal(t, addr, parsed)

	// malformed input yields the zero address
	assert.Equal(t, ZeroAddress, AddressFromString("not-hex"))
	assert.Equal(t, ZeroAddress, AddressFromString("abcd"))
}

func TestHashRoundTrip(t *testing.T) {
	h := HashBytes([]byte("payload"))
	assert.Equal(t, h, HashFromString(h.String()))
	assert.Equal(t, ZeroHash, HashFromString("zz"))
}
