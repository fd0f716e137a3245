// Package packaging assembles the final VR scene and writes it as an
// encrypted package.
//
// Build aggregates the specification, scene graph, and physics profile into a
// scene.VRScene. Export serializes the payload to JSON, seals it with
// XChaCha20-Poly1305 under the caller's key (or a freshly generated one), and
// writes <project>.vrpkg plus, for generated keys only, <project>.key.
//
// Token layout, base64url encoded as a whole:
//
//	version (1) | issued-at unix seconds (8, big endian) | nonce (24) | ciphertext
//
// Version and timestamp are authenticated as associated data, so tampering
// with either fails decryption the same way a wrong key does.
//
// Concurrent exports into the same directory with the same project name write
// the same paths; callers running conversions in parallel must pick distinct
// project names or directories.
package packaging
