package records

import (
	"strings"

	"golang.org/x/exp/slices"
)

// JoinIds concatenates record ids in order, without separators.
func JoinIds(recs []Record) string {
	var sb strings.Builder
	sb.Grow(len(recs) * 64)
	for i := range recs {
		sb.WriteString(recs[i].Id)
	}
	return sb.String()
}

func Clone(recs []Record) []Record {
	return slices.Clone(recs)
}
