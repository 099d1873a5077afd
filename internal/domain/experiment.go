package domain

// Group is one of the two arms of the per-user A/B split. Only the
// experimental arm receives the inaction intervention.
type Group string

const (
	GroupExperimental Group = "experimental"
	GroupControl      Group = "control"
)

func (g Group) String() string { return string(g) }

// Valid reports whether g is one of the closed set of groups.
func (g Group) Valid() bool {
	return g == GroupExperimental || g == GroupControl
}
