package mindmap

import (
	"regexp"
	"strconv"
	"sync"
)

// DefaultPrefix is the prefix of generated node IDs.
const DefaultPrefix = "node"

// RootID is the ID of the root node in a freshly seeded tree.
const RootID = "root"

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

// idPattern returns the compiled "^<prefix>-(\d+)$" expression for prefix.
func idPattern(prefix string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[prefix]; ok {
		return re
	}
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-(\d+)$`)
	patternCache[prefix] = re
	return re
}

// NextID scans nodes for IDs of the form "<prefix>-<n>" and returns the
// highest n plus one, or 1 when no ID matches. IDs with other shapes
// (including "root") are ignored.
func NextID(nodes []Node, prefix string) int {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	re := idPattern(prefix)
	next := 1
	for _, n := range nodes {
		m := re.FindStringSubmatch(n.ID)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue // suffix overflows int
		}
		if v+1 > next {
			next = v + 1
		}
	}
	return next
}

// FormatID builds the ID for counter value n.
func FormatID(prefix string, n int) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "-" + strconv.Itoa(n)
}
