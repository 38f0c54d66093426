package nodeset

import (
	"sort"
	"strconv"
	"strings"
)

// Cluster is a finalized node set. Its fields are computed once when the set
// is frozen; consumers read them and never recompute.
type Cluster struct {
	Members        []int   `json:"members"` // ascending
	Size           int     `json:"size"`
	Density        float64 `json:"density"`
	InternalWeight float64 `json:"internal_weight"`
	BoundaryWeight float64 `json:"boundary_weight"`
	Quality        float64 `json:"quality"`
}

// Contains reports whether v is a member.
func (c *Cluster) Contains(v int) bool {
	i := sort.SearchInts(c.Members, v)
	return i < len(c.Members) && c.Members[i] == v
}

// Names renders the members through name, separated by sep.
func (c *Cluster) Names(name func(int) string, sep string) string {
	parts := make([]string, len(c.Members))
	for i, v := range c.Members {
		parts[i] = name(v)
	}
	return strings.Join(parts, sep)
}

// String renders the member indices separated by spaces.
func (c *Cluster) String() string {
	return c.Names(strconv.Itoa, " ")
}
