package document

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Fingerprint returns the hex SHA3-256 hash of the document's full text.
// Two uploads of the same paper with different file names hash the same;
// a revised paper hashes differently.
func Fingerprint(doc Document) (string, error) {
	text, err := doc.FullText()
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint %s: %w", doc.FileName(), err)
	}
	sum := sha3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]), nil
}
