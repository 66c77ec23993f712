package rbac

// IdentitySet is an immutable set of privileged identities (email addresses).
// Membership is an exact, case-sensitive string match; an absent identity is
// never a member. The set is fixed at construction and never mutated.
type IdentitySet struct {
	members map[string]struct{}
}

// NewIdentitySet builds an IdentitySet from the configured identities.
// The input slice is copied; later changes to it do not affect the set.
func NewIdentitySet(identities []string) IdentitySet {
	members := make(map[string]struct{}, len(identities))
	for _, id := range identities {
		if id == "" {
			continue
		}

		members[id] = struct{}{}
	}

	return IdentitySet{members: members}
}

// Contains reports whether the identity is in the set.
// The empty identity (unauthenticated or not yet loaded) is never contained.
func (s IdentitySet) Contains(identity string) bool {
	if identity == "" {
		return false
	}

	_, ok := s.members[identity]

	return ok
}

// Len returns the number of identities in the set.
func (s IdentitySet) Len() int {
	return len(s.members)
}

// SpecialUsers holds the two privileged identity sets.
// Celebration feeds the birthday banner only; Maintenance gates the
// maintenance subtree. They are deliberately independent predicates: the
// security gate must never be widened by relaxing the cosmetic one, even
// when the two sets currently share members.
type SpecialUsers struct {
	Celebration IdentitySet
	Maintenance IdentitySet
}

// NewSpecialUsers builds both identity sets from their configured values.
func NewSpecialUsers(celebration, maintenance []string) SpecialUsers {
	return SpecialUsers{
		Celebration: NewIdentitySet(celebration),
		Maintenance: NewIdentitySet(maintenance),
	}
}
