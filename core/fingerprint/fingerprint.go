// Package fingerprint derives stable identifiers for dispatch parameter
// sets. Two parameter maps with the same key/value pairs always produce
// the same fingerprint regardless of construction order.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Width is the number of hex characters kept from the digest. Collisions
// are negligible at the few-thousand-job cardinality this tool sees.
const Width = 10

// Sum hashes a parameter map with keys in sorted order and returns the
// truncated hex digest.
func Sum(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\n", k, params[k])
	}
	return hex.EncodeToString(h.Sum(nil))[:Width]
}
