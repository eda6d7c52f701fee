package customer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tinywasm/customer/internal/logger"
)

const (
	invalidFormMessage   = "Please fill in all fields correctly"
	signupSuccessMessage = "Registration successful! Redirecting to shop..."
)

// Controller owns the auth page state and runs the login and signup flows.
// Only one submission may be pending at a time, whatever the submit button
// looks like.
type Controller struct {
	mu    sync.Mutex
	cfg   Config
	deps  Collaborators
	state ViewState
}

func NewController(cfg Config, deps Collaborators) (*Controller, error) {
	if deps.Provider == nil || deps.Session == nil || deps.Persistent == nil || deps.Navigator == nil {
		return nil, ErrMissingDependency
	}
	if deps.Notifier == nil {
		deps.Notifier = logNotifier{}
	}
	if deps.Errors == nil {
		deps.Errors = logErrorHandler{}
	}
	if deps.Schedule == nil {
		deps.Schedule = afterFunc
	}
	cfg = cfg.withDefaults()
	return &Controller{cfg: cfg, deps: deps, state: newViewState(cfg)}, nil
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Refresh renders the current state in full.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.render()
}

// render must be called with c.mu held.
func (c *Controller) render() {
	Render(c.state, c.deps.Surface)
}

// SwitchTab activates exactly one form. Anything but TabLogin selects signup.
func (c *Controller) SwitchTab(tab Tab) {
	if tab != TabLogin {
		tab = TabSignup
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Active = tab
	c.render()
}

// SetValue records what the customer typed into an input.
func (c *Controller) SetValue(formID, inputID, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	in, err := c.lookup(formID, inputID)
	if err != nil {
		return err
	}
	in.Value = value
	return nil
}

// Blur gives immediate feedback for one input. Only emptiness is checked;
// email and phone formats wait for submit.
func (c *Controller) Blur(formID, inputID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	in, err := c.lookup(formID, inputID)
	if err != nil {
		return err
	}
	if in.Required {
		in.Invalid = isBlank(in.Value)
		c.render()
	}
	return nil
}

func (c *Controller) lookup(formID, inputID string) (*Input, error) {
	f := c.state.form(formID)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownForm, formID)
	}
	in := f.input(inputID)
	if in == nil {
		return nil, fmt.Errorf("%w: %s#%s", ErrUnknownForm, formID, inputID)
	}
	return in, nil
}

// ValidateForm re-checks every required input of the form, marking the ones
// that fail. Unknown forms are never valid.
func (c *Controller) ValidateForm(formID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.state.form(formID)
	if f == nil {
		return false
	}
	ok := validateForm(f)
	c.render()
	return ok
}

func validateForm(f *Form) bool {
	ok := true
	for i := range f.Inputs {
		in := &f.Inputs[i]
		if !in.Required {
			continue
		}
		in.Invalid = !validateInput(*in)
		if in.Invalid {
			ok = false
		}
	}
	return ok
}

// HandleLogin signs the customer in with the login form values.
func (c *Controller) HandleLogin(ctx context.Context) error {
	return c.submit(ctx, LoginFormID, func(ctx context.Context, f *Form) error {
		creds := Credentials{
			Email:    f.Value("loginEmail"),
			Password: f.Value("loginPassword"),
		}
		sess, err := c.deps.Provider.SignIn(ctx, creds)
		if err != nil {
			return err
		}
		logger.Infof(ctx, "login successful for %s", hideEmail(creds.Email))

		if sess == nil {
			// Signing in always yields a session; its absence points at the provider setup.
			logger.Warnf(ctx, "auth provider returned no session for %s, token not stored", hideEmail(creds.Email))
		} else if err := c.storeToken(sess.AccessToken()); err != nil {
			return err
		}
		c.deps.Navigator.Navigate(c.cfg.RedirectURL)
		return nil
	})
}

// HandleSignup creates the account and redirects after a short delay so the
// success notification stays visible. A provider that requires email
// confirmation returns no session; an empty token is stored then.
func (c *Controller) HandleSignup(ctx context.Context) error {
	return c.submit(ctx, SignupFormID, func(ctx context.Context, f *Form) error {
		p := SignupProfile{
			Name:     f.Value("signupName"),
			Email:    f.Value("signupEmail"),
			Password: f.Value("signupPassword"),
			Phone:    f.Value("signupPhone"),
			Address:  f.Value("signupAddress"),
		}
		sess, err := c.deps.Provider.SignUp(ctx, p.Credentials(), p.Profile())
		if err != nil {
			return err
		}
		logger.Infof(ctx, "signup successful for %s (session: %t)", hideEmail(p.Email), sess != nil)

		if err := c.storeToken(sess.AccessToken()); err != nil {
			return err
		}
		c.deps.Notifier.Notify(signupSuccessMessage, NotifySuccess)
		c.deps.Schedule(c.cfg.SignupRedirectDelay, func() {
			c.deps.Navigator.Navigate(c.cfg.RedirectURL)
		})
		return nil
	})
}

// submit runs one guarded round trip. The submit control is restored on every
// exit path, including a panicking provider.
func (c *Controller) submit(ctx context.Context, formID string, call func(context.Context, *Form) error) error {
	c.mu.Lock()
	if c.state.InFlight {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	f := c.state.form(formID)
	if f == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownForm, formID)
	}
	if !validateForm(f) {
		c.render()
		c.mu.Unlock()
		c.deps.Notifier.Notify(invalidFormMessage, NotifyError)
		return ErrInvalidForm
	}
	c.state.InFlight = true
	f.setBusy(true)
	snapshot := *f
	snapshot.Inputs = append([]Input(nil), f.Inputs...)
	c.render()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.state.InFlight = false
		c.state.form(formID).setBusy(false)
		c.render()
	}()

	ctx = logger.WithKV(ctx, "form", formID)
	if err := call(ctx, &snapshot); err != nil {
		c.deps.Errors.HandleError(err)
		return err
	}
	return nil
}

// storeToken writes the token to the session scope, then the persistent one.
func (c *Controller) storeToken(token string) error {
	if err := c.deps.Session.SetItem(c.cfg.TokenKey, token); err != nil {
		return fmt.Errorf("session storage: %w", err)
	}
	if err := c.deps.Persistent.SetItem(c.cfg.TokenKey, token); err != nil {
		return fmt.Errorf("persistent storage: %w", err)
	}
	return nil
}

// hideEmail keeps the shape of an address for logs without its content.
func hideEmail(email string) string {
	return strings.Map(func(r rune) rune {
		if r != '@' && r != '.' {
			return 'x'
		}
		return r
	}, email)
}
