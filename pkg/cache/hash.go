package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the SHA-256 of data as 64 lowercase hex characters. Input
// hashes, artifact keys and file cache paths are all derived from it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Struct fields encode in
// declaration order and map keys sorted, so equal values hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// artifactDigest folds the input hash and render options into one digest.
// ArtifactKeyOpts holds only strings, bools and floats, so encoding cannot
// fail.
func artifactDigest(inputHash string, opts ArtifactKeyOpts) string {
	h, _ := HashJSON(struct {
		Input string          `json:"input"`
		Opts  ArtifactKeyOpts `json:"opts"`
	}{inputHash, opts})
	return h
}
