package crypto

// SessionSealer protects the persisted session at rest. It knows nothing
// about the backend, the database or the user: its only job is to turn a
// serialized session into an opaque blob and back.
//
// The label is bound to the blob as associated data, so a blob sealed for
// one storage key cannot be opened under another.
type SessionSealer interface {
	// Seal encrypts plaintext and returns a base64 blob (nonce || ciphertext).
	Seal(plaintext []byte, label string) (string, error)

	// Open reverses Seal. It fails with ErrUnsealFailed when the key is wrong,
	// the label differs or the blob was tampered with.
	Open(sealed string, label string) ([]byte, error)
}
