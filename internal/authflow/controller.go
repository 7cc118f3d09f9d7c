// Package authflow implements the login/signup/forgot/reset form state
// machine. The controller owns the form state exclusively; the identity
// provider is consumed through its boundary interface and results are
// folded back into the state under the controller lock.
package authflow

import (
	"context"
	"sync"
	"time"

	"carteira/internal/i18n"
	"carteira/internal/identity"
	"carteira/internal/validation"
)

// View is one of the four auth form views.
type View string

const (
	ViewLogin  View = "login"
	ViewSignup View = "signup"
	ViewForgot View = "forgot"
	ViewReset  View = "reset"
)

// State is a snapshot of the form. Error and Success are never both set;
// Loading is true only while exactly one provider call is in flight.
type State struct {
	View            View
	Email           string
	Password        string
	ConfirmPassword string
	ActionCode      string
	Loading         bool
	Error           string
	Success         string
}

const defaultSuccessTTL = 5 * time.Second

// Success messages shown by the flow.
const (
	msgAccountCreated = "Conta criada com sucesso!"
	msgResetMailSent  = "Email de recuperação enviado! Verifique sua caixa de entrada."
	msgPasswordReset  = "Senha alterada com sucesso! Faça login."
)

// Controller drives the auth form state machine. Submissions are
// serialized: at most one provider call is in flight per controller, and
// a second Submit while loading is ignored. Every submission is tagged
// with a generation token; a view switch invalidates it so a late result
// is discarded instead of applied to a now-irrelevant view.
type Controller struct {
	mu       sync.Mutex
	provider identity.Provider
	state    State
	gen      uint64

	successTimer *time.Timer
	successTTL   time.Duration

	onAuthenticated func(*identity.Session)
}

// Option configures a Controller.
type Option func(*Controller)

// WithSuccessTTL overrides the success message auto-clear delay.
func WithSuccessTTL(d time.Duration) Option {
	return func(c *Controller) { c.successTTL = d }
}

// WithAuthenticatedHandler sets the callback invoked when login or signup
// succeeds. The shell uses it to leave the auth flow.
func WithAuthenticatedHandler(fn func(*identity.Session)) Option {
	return func(c *Controller) { c.onAuthenticated = fn }
}

// New creates a controller starting on the login view.
func New(provider identity.Provider, opts ...Option) *Controller {
	c := &Controller{
		provider:   provider,
		state:      State{View: ViewLogin},
		successTTL: defaultSuccessTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SwitchView navigates to another view. A view switch is a full reset:
// fields, messages, loading, and the action code are cleared, and any
// in-flight submission is invalidated.
func (c *Controller) SwitchView(target View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.stopSuccessTimerLocked()
	c.state = State{View: target}
}

// HandleResetLink consumes the action code and mode flag from a password
// reset link. Presence of the code selects the reset view; the values are
// not validated beyond presence.
func (c *Controller) HandleResetLink(actionCode, mode string) {
	if actionCode == "" {
		return
	}
	_ = mode
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.stopSuccessTimerLocked()
	c.state = State{View: ViewReset, ActionCode: actionCode}
}

// SetEmail updates the email field.
func (c *Controller) SetEmail(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Email = v
}

// SetPassword updates the password field.
func (c *Controller) SetPassword(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Password = v
}

// SetConfirmPassword updates the password confirmation field.
func (c *Controller) SetConfirmPassword(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ConfirmPassword = v
}

// Submit validates the current view's fields and dispatches the matching
// provider operation. It is a no-op while another submission is loading.
// Validation failures set the error message without a provider call.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return nil
	}
	c.stopSuccessTimerLocked()
	c.state.Error = ""
	c.state.Success = ""

	if err := c.validateLocked(); err != nil {
		c.state.Error = err.Message
		c.mu.Unlock()
		return err
	}

	c.gen++
	gen := c.gen
	view := c.state.View
	email := c.state.Email
	password := c.state.Password
	actionCode := c.state.ActionCode
	c.state.Loading = true
	c.mu.Unlock()

	var session *identity.Session
	var err error
	switch view {
	case ViewLogin:
		session, err = c.provider.SignIn(ctx, email, password)
	case ViewSignup:
		session, err = c.provider.CreateAccount(ctx, email, password)
	case ViewForgot:
		err = c.provider.SendResetEmail(ctx, email)
	case ViewReset:
		err = c.provider.ConfirmReset(ctx, actionCode, password)
	}

	c.mu.Lock()
	if gen != c.gen {
		// The view changed while the call was in flight; the result no
		// longer belongs to the visible form.
		c.mu.Unlock()
		return err
	}
	c.state.Loading = false

	if err != nil {
		c.state.Error = i18n.TranslateError(err)
		c.mu.Unlock()
		return err
	}

	switch view {
	case ViewLogin:
		c.state = State{View: ViewLogin}
	case ViewSignup:
		c.state = State{View: ViewSignup, Success: msgAccountCreated}
		c.scheduleSuccessClearLocked(msgAccountCreated)
	case ViewForgot:
		// Back to login with the confirmation visible; fields reset.
		c.state = State{View: ViewLogin, Success: msgResetMailSent}
		c.scheduleSuccessClearLocked(msgResetMailSent)
	case ViewReset:
		c.state = State{View: ViewReset, Success: msgPasswordReset}
		c.scheduleSuccessClearLocked(msgPasswordReset)
	}
	handler := c.onAuthenticated
	c.mu.Unlock()

	if session != nil && handler != nil {
		handler(session)
	}
	return nil
}

// validateLocked runs the client-side rules for the current view and
// returns the first failure.
func (c *Controller) validateLocked() *validation.FieldError {
	s := &c.state
	switch s.View {
	case ViewLogin:
		if err := validation.Email(s.Email); err != nil {
			return err
		}
		return validation.Password(s.Password, validation.PasswordModeLogin)
	case ViewSignup:
		if err := validation.Email(s.Email); err != nil {
			return err
		}
		if err := validation.Password(s.Password, validation.PasswordModeSignup); err != nil {
			return err
		}
		return validation.Confirmation(s.Password, s.ConfirmPassword)
	case ViewForgot:
		return validation.Email(s.Email)
	case ViewReset:
		if s.ActionCode == "" {
			return &validation.FieldError{
				Field:   "action_code",
				Code:    validation.CodeInvalidActionCode,
				Message: "Código inválido ou expirado.",
			}
		}
		if err := validation.Password(s.Password, validation.PasswordModeSignup); err != nil {
			return err
		}
		return validation.Confirmation(s.Password, s.ConfirmPassword)
	}
	return nil
}

// scheduleSuccessClearLocked arms the auto-clear timer for msg. A newer
// message or a view switch cancels the pending clear.
func (c *Controller) scheduleSuccessClearLocked(msg string) {
	c.stopSuccessTimerLocked()
	c.successTimer = time.AfterFunc(c.successTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state.Success == msg {
			c.state.Success = ""
		}
	})
}

func (c *Controller) stopSuccessTimerLocked() {
	if c.successTimer != nil {
		c.successTimer.Stop()
		c.successTimer = nil
	}
}
