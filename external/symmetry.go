package external

import (
	"crypto/sha256"
	"encoding/base64"
	"sort"
	"strconv"
	"strings"
)

// SymmetryHash fingerprints a symmetry result: the sha256 (base64) of the
// distinct Wyckoff letters, followed by the space group number. Structures
// that differ only by atom order or cell choice share the hash.
func SymmetryHash(sym Symmetry) string {
	seen := make(map[string]bool, len(sym.Wyckoff))
	var letters []string
	for _, w := range sym.Wyckoff {
		if !seen[w] {
			seen[w] = true
			letters = append(letters, w)
		}
	}
	sort.Strings(letters)
	sum := sha256.Sum256([]byte(tupleRepr(letters)))
	return base64.StdEncoding.EncodeToString(sum[:]) + strconv.Itoa(sym.Number)
}

// tupleRepr renders letters as ('a', 'b'), ('a',) or ().
func tupleRepr(letters []string) string {
	var b strings.Builder
	b.WriteByte('(')
	for k, l := range letters {
		if k > 0 {
			b.WriteString(", ")
		}
		b.WriteString("'" + l + "'")
	}
	if len(letters) == 1 {
		b.WriteByte(',')
	}
	b.WriteByte(')')
	return b.String()
}
