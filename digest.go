package conduit

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// PasswordDigest is the SHA3-512 digest of a raw password, stored as
// lowercase hex. The raw password is never retained past digest
// computation.
//
// The scheme is a single unsalted hash with no per-user cost factor. It is
// preserved here because stored credentials and the login comparison depend
// on it, but it is a known-weak construction; do not copy it into new
// systems.
type PasswordDigest struct {
	value string
}

// ComputePasswordDigest hashes raw and returns its digest. Empty passwords
// must be rejected by the caller before this point; the digest itself is
// total over its input.
func ComputePasswordDigest(raw string) PasswordDigest {
	sum := sha3.Sum512([]byte(raw))
	return PasswordDigest{value: hex.EncodeToString(sum[:])}
}

// PasswordDigestFromStored wraps a digest read back from the user store.
func PasswordDigestFromStored(stored string) PasswordDigest {
	return PasswordDigest{value: stored}
}

// Matches compares two digests in constant time.
func (d PasswordDigest) Matches(other PasswordDigest) bool {
	return subtle.ConstantTimeCompare([]byte(d.value), []byte(other.value)) == 1
}

func (d PasswordDigest) String() string {
	return d.value
}

// IsZero reports whether d is the zero value.
func (d PasswordDigest) IsZero() bool {
	return d.value == ""
}
