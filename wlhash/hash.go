package wlhash

import (
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"lukechampine.com/blake3"
)

// digestHex is the width of node labels and fingerprints.
const digestHex = 32

// Hash returns the WL fingerprint of l.
//
// Complexity: O(rounds · (V + E) · log d) for maximum degree d.
func Hash(l Labeled, opts ...Option) string {
	o := options{rounds: DefaultRounds}
	for _, opt := range opts {
		opt(&o)
	}

	n := l.Len()
	labels := make([]string, n)
	for i := range labels {
		labels[i] = digest(l.Label(i))
	}

	next := make([]string, n)
	var b strings.Builder
	for r := 0; r < o.rounds; r++ {
		for i := 0; i < n; i++ {
			nbs := l.Neighbors(i)
			ls := make([]string, len(nbs))
			for k, j := range nbs {
				ls[k] = labels[j]
			}
			sort.Strings(ls)

			b.Reset()
			b.WriteString(labels[i])
			b.WriteByte('|')
			b.WriteString(strings.Join(ls, ","))
			next[i] = digest(b.String())
		}
		labels, next = next, labels
	}

	return digest(multiset(labels))
}

// multiset renders the sorted label:count list with counts divided by
// their gcd.
func multiset(labels []string) string {
	counts := make(map[string]int, len(labels))
	for _, l := range labels {
		counts[l]++
	}
	g := 0
	keys := make([]string, 0, len(counts))
	for k, c := range counts {
		keys = append(keys, k)
		g = gcd(g, c)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(counts[k] / g))
		b.WriteByte(';')
	}
	return b.String()
}

func digest(s string) string {
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:digestHex]
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
