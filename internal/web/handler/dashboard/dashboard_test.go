package dashboard

import (
	"testing"
	"time"

	"github.com/larik-22/howufeelin/internal/celebration"
	"github.com/larik-22/howufeelin/internal/rbac"
)

func TestCelebrate(t *testing.T) {
	s := Service{
		special: rbac.NewSpecialUsers([]string{"birthday@example.com"}, nil),
		window:  celebration.For(6, 24, 7),
	}

	inWindow := time.Date(2026, 6, 24, 12, 0, 0, 0, time.UTC)
	outOfWindow := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	if !s.celebrate("birthday@example.com", inWindow) {
		t.Fatalf("expected banner for listed identity inside the window")
	}

	if s.celebrate("birthday@example.com", outOfWindow) {
		t.Fatalf("did not expect banner outside the window")
	}

	if s.celebrate("other@example.com", inWindow) {
		t.Fatalf("did not expect banner for unlisted identity")
	}

	// exact, case-sensitive identity match
	if s.celebrate("Birthday@example.com", inWindow) {
		t.Fatalf("identity match must be case sensitive")
	}
}

func TestCelebrate_MaintenanceSetDoesNotFeedBanner(t *testing.T) {
	s := Service{
		special: rbac.NewSpecialUsers(nil, []string{"ops@example.com"}),
		window:  celebration.For(6, 24, 7),
	}

	inWindow := time.Date(2026, 6, 24, 12, 0, 0, 0, time.UTC)

	if s.celebrate("ops@example.com", inWindow) {
		t.Fatalf("maintenance identities must not trigger the celebration banner")
	}
}
