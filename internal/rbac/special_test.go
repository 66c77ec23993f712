package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentitySet_Contains(t *testing.T) {
	set := NewIdentitySet([]string{"larik@example.com", "ops@example.com"})

	assert.True(t, set.Contains("larik@example.com"))
	assert.True(t, set.Contains("ops@example.com"))
	assert.False(t, set.Contains("someone@example.com"))
}

func TestIdentitySet_AbsentIdentity(t *testing.T) {
	set := NewIdentitySet([]string{"larik@example.com"})

	assert.False(t, set.Contains(""))
}

func TestIdentitySet_CaseSensitive(t *testing.T) {
	// exact-match semantics: case variants must not both match
	set := NewIdentitySet([]string{"foo@bar.com"})

	assert.True(t, set.Contains("foo@bar.com"))
	assert.False(t, set.Contains("Foo@Bar.com"))
	assert.False(t, set.Contains("FOO@BAR.COM"))
}

func TestIdentitySet_ImmutableAfterConstruction(t *testing.T) {
	src := []string{"larik@example.com"}
	set := NewIdentitySet(src)

	src[0] = "attacker@example.com"

	assert.True(t, set.Contains("larik@example.com"))
	assert.False(t, set.Contains("attacker@example.com"))
}

func TestIdentitySet_DropsEmptyEntries(t *testing.T) {
	set := NewIdentitySet([]string{"", "larik@example.com", ""})

	assert.Equal(t, 1, set.Len())
}

func TestSpecialUsers_IndependentSets(t *testing.T) {
	special := NewSpecialUsers(
		[]string{"birthday@example.com"},
		[]string{"ops@example.com"},
	)

	// celebration eligibility never implies maintenance access
	assert.True(t, special.Celebration.Contains("birthday@example.com"))
	assert.False(t, special.Maintenance.Contains("birthday@example.com"))

	assert.True(t, special.Maintenance.Contains("ops@example.com"))
	assert.False(t, special.Celebration.Contains("ops@example.com"))
}
