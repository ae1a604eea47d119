package circuit

import "golang.org/x/crypto/blake2b"

// Fingerprint returns a blake2b-256 content hash of the circuit's
// deterministic serialization. Two circuits with identical registers and
// operation sequences share a fingerprint, so passes can be checked for
// no-op behaviour cheaply.
func (c *Circuit) Fingerprint() ([32]byte, error) {
	buf, err := c.ToBytes()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(buf), nil
}
