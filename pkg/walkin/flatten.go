// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package walkin

import (
	"strconv"
	"strings"
)

// pair is one key=value element of a flattened reply.
type pair struct {
	key   string
	value string
}

// joinPairs renders pairs as "k=v, k=v" in the order given. Reply lines and
// the status de-duplication cache both depend on this ordering being stable.
func joinPairs(pairs []pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.key + "=" + p.value
	}
	return strings.Join(parts, ", ")
}

// prefixPairs re-roots pairs under a dotted path segment.
func prefixPairs(prefix string, pairs []pair) []pair {
	out := make([]pair, len(pairs))
	for i, p := range pairs {
		out[i] = pair{prefix + "." + p.key, p.value}
	}
	return out
}

// formatFloat renders floats the shortest way that round-trips, so whole
// numbers read bare (2, not 2.000000).
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatBool renders booleans as the wire's 1/0.
func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
