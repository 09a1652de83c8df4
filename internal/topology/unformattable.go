package topology

import (
	"sort"
	"strings"
)

// Reasons a device must never be destructively formatted.
const (
	ReasonRootFS     = "RootFS"
	ReasonActiveSwap = "ActiveSwap"
	ReasonExtended   = "Extended"
)

// ReasonSeparator joins multiple unformattable reasons on a disk.
const ReasonSeparator = ":"

// Unformattable classifies one block against the full block list and returns
// the reason(s) it must not be formatted, or an empty string if it is safe.
// A partitioned disk aggregates the reasons of its non-extended child
// partitions as a sorted, deduplicated, colon-joined union. The tree is two
// levels deep (disk, partitions), so plain recursion suffices.
func Unformattable(b *Block, all []*Block) string {
	if b.Stats.IsPartitioned {
		reasons := make(map[string]struct{})

		for _, child := range all {
			if child.ParentName != b.Name || child.Stats.IsExtended {
				continue
			}
			if r := Unformattable(child, all); r != "" {
				for _, part := range strings.Split(r, ReasonSeparator) {
					reasons[part] = struct{}{}
				}
			}
		}

		if len(reasons) == 0 {
			return ""
		}

		joined := make([]string, 0, len(reasons))
		for r := range reasons {
			joined = append(joined, r)
		}
		sort.Strings(joined)

		return strings.Join(joined, ReasonSeparator)
	}

	if b.Stats.IsRootFS {
		return ReasonRootFS
	}

	if b.Stats.IsActiveSwap {
		return ReasonActiveSwap
	}

	if b.Stats.IsExtended {
		return ReasonExtended
	}

	return ""
}

// applyUnformattable classifies every block of a cycle in place.
func applyUnformattable(blocks []*Block) {
	for _, b := range blocks {
		b.Stats.Unformattable = Unformattable(b, blocks)
	}
}
