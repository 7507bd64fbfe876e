package feed

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Digest returns a hex SHA-256 over the structure of the given JSON
// documents. Documents are re-encoded canonically first, so key order and
// whitespace do not change the digest. A nil document stands for an absent
// feed and is distinct from an empty one.
func Digest(docs ...[]byte) (string, error) {
	h := sha256.New()
	for i, doc := range docs {
		if doc == nil {
			fmt.Fprintf(h, "doc:%d:absent\n", i)
			continue
		}

		dec := json.NewDecoder(bytes.NewReader(doc))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return "", errors.Wrapf(err, "digest: document %d", i)
		}
		canonical, err := json.Marshal(v)
		if err != nil {
			return "", errors.Wrapf(err, "digest: document %d", i)
		}
		fmt.Fprintf(h, "doc:%d:%d\n", i, len(canonical))
		h.Write(canonical)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
