package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/georgemunganga/localmarket/internal/api"
	"github.com/georgemunganga/localmarket/internal/client"
	"github.com/georgemunganga/localmarket/internal/session"
)

// User-facing copy for the delete-account dialog.
const (
	MsgPasswordRequired = "Please enter your password"
	MsgDeleteFailed     = "Failed to delete account. Please try again."
	MsgUnreachable      = "Could not reach the server. Check your connection and try again."
	MsgAccountDeleted   = "Your account has been deleted."
)

var (
	// ErrPasswordRequired is returned by Submit for an empty password.
	ErrPasswordRequired = errors.New("password is required")
	// ErrSubmitInFlight is returned when a delete request is already pending.
	ErrSubmitInFlight = errors.New("delete request already in progress")
	// ErrCloseWhileSubmitting is returned by Close while a request is pending.
	ErrCloseWhileSubmitting = errors.New("cannot close while deleting account")
	// ErrAccountDeleted is returned by Submit after the account is gone.
	ErrAccountDeleted = errors.New("account already deleted")
)

// DeleteState is the dialog state.
type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeleteSubmitting
	DeleteSuccess
	DeleteError
)

func (s DeleteState) String() string {
	switch s {
	case DeleteIdle:
		return "idle"
	case DeleteSubmitting:
		return "submitting"
	case DeleteSuccess:
		return "success"
	case DeleteError:
		return "error"
	}
	return fmt.Sprintf("DeleteState(%d)", int(s))
}

// AccountDeleter issues the delete request. *client.AuthService satisfies it.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, password string) (api.Response[struct{}], error)
}

// Navigator moves the user somewhere else with a flash message.
type Navigator interface {
	Redirect(ctx context.Context, path, message string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, path, message string)

// Redirect implements Navigator.
func (f NavigatorFunc) Redirect(ctx context.Context, path, message string) { f(ctx, path, message) }

// DeleteAccountFlow drives the delete-account dialog:
// idle -> submitting -> (success | error). From error the user may edit the
// password and submit again. Closing is refused while a request is pending.
type DeleteAccountFlow struct {
	deleter AccountDeleter
	session session.Terminator
	nav     Navigator

	mu      sync.Mutex
	state   DeleteState
	message string
}

// NewDeleteAccountFlow creates a flow in the idle state.
func NewDeleteAccountFlow(deleter AccountDeleter, sess session.Terminator, nav Navigator) *DeleteAccountFlow {
	return &DeleteAccountFlow{deleter: deleter, session: sess, nav: nav}
}

// Submit validates password and, if non-empty, issues exactly one delete
// request. On success the session is torn down before the redirect.
func (f *DeleteAccountFlow) Submit(ctx context.Context, password string) error {
	f.mu.Lock()
	switch f.state {
	case DeleteSubmitting:
		f.mu.Unlock()
		return ErrSubmitInFlight
	case DeleteSuccess:
		f.mu.Unlock()
		return ErrAccountDeleted
	}
	if password == "" {
		f.message = MsgPasswordRequired
		f.mu.Unlock()
		return ErrPasswordRequired
	}
	f.state = DeleteSubmitting
	f.message = ""
	f.mu.Unlock()

	if _, err := f.deleter.DeleteAccount(ctx, password); err != nil {
		f.mu.Lock()
		f.state = DeleteError
		f.message = deleteErrorMessage(err)
		f.mu.Unlock()
		return err
	}

	f.mu.Lock()
	f.state = DeleteSuccess
	f.message = MsgAccountDeleted
	f.mu.Unlock()

	// The account is gone even if the caller has gone away, so the session
	// must still be torn down before navigating.
	logoutErr := f.session.Logout(context.WithoutCancel(ctx))
	f.nav.Redirect(ctx, "/", MsgAccountDeleted)
	if logoutErr != nil {
		return fmt.Errorf("account deleted but session teardown failed: %w", logoutErr)
	}
	return nil
}

// Close dismisses the dialog and clears any message.
func (f *DeleteAccountFlow) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == DeleteSubmitting {
		return ErrCloseWhileSubmitting
	}
	if f.state != DeleteSuccess {
		f.state = DeleteIdle
		f.message = ""
	}
	return nil
}

// State returns the current state.
func (f *DeleteAccountFlow) State() DeleteState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message returns the validation, error or confirmation message to display.
func (f *DeleteAccountFlow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// CanClose reports whether the close action is enabled.
func (f *DeleteAccountFlow) CanClose() bool { return f.State() != DeleteSubmitting }

// CanCancel reports whether the cancel button is enabled.
func (f *DeleteAccountFlow) CanCancel() bool { return f.State() != DeleteSubmitting }

// CanSubmit reports whether the submit button is enabled.
func (f *DeleteAccountFlow) CanSubmit() bool {
	s := f.State()
	return s != DeleteSubmitting && s != DeleteSuccess
}

// ShowPasswordField reports whether the password input is rendered.
func (f *DeleteAccountFlow) ShowPasswordField() bool { return f.State() != DeleteSuccess }

func deleteErrorMessage(err error) string {
	if errors.Is(err, client.ErrTransport) {
		return MsgUnreachable
	}
	if msg := client.Message(err); msg != "" {
		return msg
	}
	return MsgDeleteFailed
}
