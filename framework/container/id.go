package container

import (
	"strconv"
	"strings"
)

// ID identifies a factory declaration inside its Container.
//
// IDs are assigned once, in declaration order, and never reused. The zero ID
// is never assigned, so it can be used as "no factory".
type ID uint64

// String renders the ID as "#n".
func (id ID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

// ParseID accepts both "n" and "#n".
func ParseID(s string) (ID, bool) {
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return ID(n), true
}
