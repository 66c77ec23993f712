// Package membership implements the leave-group workflow.
// A LeaveSession walks one user through leaving one group: confirm intent,
// delegate the removal to the persistence layer, report the outcome. The
// session owns all of its state; permission logic stays in the rbac package
// and persistence in the controllers.
package membership

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/larik-22/howufeelin/internal/rbac"
)

// State is the leave workflow state.
type State int

const (
	// StateIdle means no leave is in progress and no modal is shown.
	StateIdle State = iota
	// StateConfirming means the confirmation modal is open for a selected group.
	StateConfirming
	// StateLeaving means the removal has been delegated and is in flight.
	StateLeaving
)

// User-facing messages. Collaborator failures are always translated into the
// generic message; internal error detail never reaches the UI layer.
const (
	MsgAdminCannotLeave = "group admins cannot leave their own group"
	MsgLeaveFailed      = "something went wrong while leaving the group, please try again"
)

// Remover is the persistence collaborator that removes a membership.
type Remover interface {
	RemoveMember(groupID uint, userID uint64) error
}

// RemoverFunc adapts a function to the Remover interface.
type RemoverFunc func(groupID uint, userID uint64) error

// RemoveMember implements Remover.
func (f RemoverFunc) RemoveMember(groupID uint, userID uint64) error {
	return f(groupID, userID)
}

// Callbacks notify the caller about workflow outcomes.
// Either callback fires at most once per initiated leave attempt.
type Callbacks struct {
	// OnSuccess fires after a successful removal (e.g. to refresh a group list).
	OnSuccess func()
	// OnError fires with a user-facing message on precondition or collaborator failure.
	OnError func(msg string)
}

// LeaveSession tracks one in-progress leave workflow for one user.
// At most one removal is in flight per session; a second confirm while one is
// in flight is a no-op. All methods are safe for concurrent use.
type LeaveSession struct {
	mu       sync.Mutex
	state    State
	groupID  uint
	userID   uint64
	closed   bool
	remover  Remover
	callback Callbacks
}

// NewLeaveSession creates an idle leave session.
func NewLeaveSession(remover Remover, cb Callbacks) *LeaveSession {
	if remover == nil {
		panic("membership: remover is nil")
	}

	return &LeaveSession{
		state:    StateIdle,
		remover:  remover,
		callback: cb,
	}
}

// State returns the current workflow state.
func (s *LeaveSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Selected returns the group selected for leaving, if any.
func (s *LeaveSession) Selected() (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return 0, false
	}

	return s.groupID, true
}

// Begin starts the workflow for the user's intent to leave a group.
// Group admins are stopped before the confirmation modal ever opens: they
// must transfer the admin role through the separate transfer flow first.
func (s *LeaveSession) Begin(groupID uint, userID uint64, role rbac.Role) {
	s.mu.Lock()

	if s.closed || s.state != StateIdle {
		s.mu.Unlock()
		return
	}

	if role == rbac.RoleAdmin {
		s.mu.Unlock()
		s.fireError(MsgAdminCannotLeave)

		return
	}

	s.state = StateConfirming
	s.groupID = groupID
	s.userID = userID
	s.mu.Unlock()
}

// Cancel aborts a pending confirmation and clears the selection.
func (s *LeaveSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateConfirming {
		s.reset()
	}
}

// Confirm accepts the pending confirmation and performs the removal.
// Only valid while Confirming; a confirm while a removal is already in
// flight (or with no selection) is a no-op. Whatever the outcome, the
// session resets to Idle with its selection cleared; the user must
// re-initiate to try again.
func (s *LeaveSession) Confirm() {
	s.mu.Lock()

	if s.closed || s.state != StateConfirming {
		s.mu.Unlock()
		return
	}

	s.state = StateLeaving
	groupID, userID := s.groupID, s.userID
	s.mu.Unlock()

	err := s.remover.RemoveMember(groupID, userID)

	s.mu.Lock()
	if s.closed {
		// session was torn down while the removal was in flight;
		// apply no further state and fire no callbacks
		s.mu.Unlock()
		return
	}

	s.reset()
	s.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Uint("group_id", groupID).Uint64("user_id", userID).
			Msg("failed to remove group membership")
		s.fireError(MsgLeaveFailed)

		return
	}

	if s.callback.OnSuccess != nil {
		s.callback.OnSuccess()
	}
}

// Close tears the session down. Results of an in-flight removal arriving
// after Close apply no state updates and fire no callbacks.
func (s *LeaveSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.reset()
}

// reset returns the session to Idle with the selection cleared.
// Caller must hold s.mu.
func (s *LeaveSession) reset() {
	s.state = StateIdle
	s.groupID = 0
	s.userID = 0
}

func (s *LeaveSession) fireError(msg string) {
	if s.callback.OnError != nil {
		s.callback.OnError(msg)
	}
}
