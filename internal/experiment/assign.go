// Package experiment implements the deterministic per-user A/B split that
// gates the inaction intervention.
package experiment

import (
	"hash/fnv"

	"github.com/focustoday/focuspulse/internal/domain"
)

// Assign maps a user id to its cohort. The mapping is stable across calls
// and process restarts: it depends only on an FNV-1a hash of the id, so the
// same user always lands in the same arm and the parity bit splits the id
// space roughly 50/50.
//
// An empty user id is always Control: no experimental treatment without
// identity.
func Assign(userID string) domain.Group {
	if userID == "" {
		return domain.GroupControl
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	if h.Sum32()%2 == 0 {
		return domain.GroupExperimental
	}
	return domain.GroupControl
}

// IsExperimental reports whether the user is in the experimental arm.
func IsExperimental(userID string) bool {
	return Assign(userID) == domain.GroupExperimental
}
