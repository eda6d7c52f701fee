package customer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeProvider struct {
	mu       sync.Mutex
	session  *Session
	err      error
	block    chan struct{}
	signIns  []Credentials
	signUps  []Profile
	inflight func()
}

func (p *fakeProvider) SignIn(ctx context.Context, creds Credentials) (*Session, error) {
	p.mu.Lock()
	p.signIns = append(p.signIns, creds)
	p.mu.Unlock()
	p.wait()
	return p.session, p.err
}

func (p *fakeProvider) SignUp(ctx context.Context, creds Credentials, profile Profile) (*Session, error) {
	p.mu.Lock()
	p.signUps = append(p.signUps, profile)
	p.mu.Unlock()
	p.wait()
	return p.session, p.err
}

func (p *fakeProvider) wait() {
	if p.inflight != nil {
		p.inflight()
	}
	if p.block != nil {
		<-p.block
	}
}

type recordingNavigator struct {
	mu   sync.Mutex
	urls []string
}

func (n *recordingNavigator) Navigate(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urls = append(n.urls, url)
}

func (n *recordingNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.urls...)
}

type notification struct {
	message string
	kind    NotificationKind
}

type recordingNotifier struct {
	got []notification
}

func (n *recordingNotifier) Notify(message string, kind NotificationKind) {
	n.got = append(n.got, notification{message, kind})
}

type recordingErrors struct {
	got []error
}

func (e *recordingErrors) HandleError(err error) {
	e.got = append(e.got, err)
}

type failingStorage struct{}

func (failingStorage) SetItem(string, string) error { return errors.New("quota exceeded") }

// recordingSurface keeps the last value written per element.
type recordingSurface struct {
	classes  map[string]map[string]bool
	disabled map[string]bool
	text     map[string]string
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{
		classes:  make(map[string]map[string]bool),
		disabled: make(map[string]bool),
		text:     make(map[string]string),
	}
}

func (s *recordingSurface) SetClass(id, class string, on bool) {
	if s.classes[id] == nil {
		s.classes[id] = make(map[string]bool)
	}
	s.classes[id][class] = on
}

func (s *recordingSurface) SetDisabled(id string, disabled bool) { s.disabled[id] = disabled }
func (s *recordingSurface) SetText(id, text string) { s.text[id] = text }

type scheduled struct {
	delay time.Duration
	fn    func()
}

type harness struct {
	ctrl       *Controller
	provider   *fakeProvider
	session    *MemoryStorage
	persistent *MemoryStorage
	nav        *recordingNavigator
	notes      *recordingNotifier
	errs       *recordingErrors
	surface    *recordingSurface
	timers     []scheduled
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		provider:   &fakeProvider{},
		session:    NewMemoryStorage(),
		persistent: NewMemoryStorage(),
		nav:        &recordingNavigator{},
		notes:      &recordingNotifier{},
		errs:       &recordingErrors{},
		surface:    newRecordingSurface(),
	}
	ctrl, err := NewController(Config{}, Collaborators{
		Provider:   h.provider,
		Session:    h.session,
		Persistent: h.persistent,
		Navigator:  h.nav,
		Notifier:   h.notes,
		Errors:     h.errs,
		Surface:    h.surface,
		Schedule: func(d time.Duration, f func()) {
			h.timers = append(h.timers, scheduled{d, f})
		},
	})
	require.NoError(t, err)
	h.ctrl = ctrl
	return h
}

func (h *harness) fill(t *testing.T, formID string, values map[string]string) {
	t.Helper()
	for id, v := range values {
		require.NoError(t, h.ctrl.SetValue(formID, id, v))
	}
}

func (h *harness) fillLogin(t *testing.T) {
	h.fill(t, LoginFormID, map[string]string{
		"loginEmail":    "shopper@example.com",
		"loginPassword": " password123 ",
	})
}

func (h *harness) fillSignup(t *testing.T) {
	h.fill(t, SignupFormID, map[string]string{
		"signupName":     " Ada Lovelace ",
		"signupEmail":    "ada@example.com",
		"signupPassword": "password123",
		"signupPhone":    "+1 555-123-4567",
		"signupAddress":  " 12 Analytical Way ",
	})
}

func sessionWith(token string) *Session {
	return &Session{Token: &oauth2.Token{AccessToken: token, TokenType: "bearer"}}
}

func assertIdle(t *testing.T, f Form) {
	t.Helper()
	assert.False(t, f.Submit.Disabled)
	assert.Equal(t, f.Submit.IdleLabel, f.Submit.Label)
}

func inputByID(f Form, id string) Input {
	for _, in := range f.Inputs {
		if in.ID == id {
			return in
		}
	}
	return Input{}
}

func TestNewControllerRequiresCollaborators(t *testing.T) {
	_, err := NewController(Config{}, Collaborators{Provider: &fakeProvider{}})
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestSwitchTab(t *testing.T) {
	h := newHarness(t)

	assertActive := func(want Tab) {
		t.Helper()
		s := h.ctrl.State()
		assert.Equal(t, want, s.Active)
		login, signup := h.surface.classes[LoginFormID][activeClass], h.surface.classes[SignupFormID][activeClass]
		assert.True(t, login != signup, "exactly one form must be active")
		assert.Equal(t, want == TabLogin, login)
		assert.Equal(t, want == TabLogin, h.surface.classes["loginTab"][activeClass])
		assert.Equal(t, want == TabSignup, h.surface.classes["signupTab"][activeClass])
	}

	h.ctrl.SwitchTab(TabLogin)
	assertActive(TabLogin)
	h.ctrl.SwitchTab(TabSignup)
	assertActive(TabSignup)
	h.ctrl.SwitchTab(TabSignup)
	assertActive(TabSignup)
	h.ctrl.SwitchTab(TabLogin)
	h.ctrl.SwitchTab(TabLogin)
	assertActive(TabLogin)
	h.ctrl.SwitchTab("anything else")
	assertActive(TabSignup)
}

func TestValidateForm(t *testing.T) {
	h := newHarness(t)

	t.Run("empty input is marked", func(t *testing.T) {
		require.NoError(t, h.ctrl.SetValue(LoginFormID, "loginEmail", "a@b.com"))
		assert.False(t, h.ctrl.ValidateForm(LoginFormID))

		f := h.ctrl.State().Login
		assert.False(t, inputByID(f, "loginEmail").Invalid)
		assert.True(t, inputByID(f, "loginPassword").Invalid)
		assert.True(t, h.surface.classes["loginPassword"][errorClass])
	})

	t.Run("valid form clears markers", func(t *testing.T) {
		require.NoError(t, h.ctrl.SetValue(LoginFormID, "loginPassword", "secret"))
		assert.True(t, h.ctrl.ValidateForm(LoginFormID))

		for _, in := range h.ctrl.State().Login.Inputs {
			assert.False(t, in.Invalid, in.ID)
			assert.False(t, h.surface.classes[in.ID][errorClass], in.ID)
		}
	})

	t.Run("formats are checked", func(t *testing.T) {
		h.fillSignup(t)
		require.NoError(t, h.ctrl.SetValue(SignupFormID, "signupEmail", "ada@example"))
		require.NoError(t, h.ctrl.SetValue(SignupFormID, "signupPhone", "12345"))
		assert.False(t, h.ctrl.ValidateForm(SignupFormID))

		f := h.ctrl.State().Signup
		assert.True(t, inputByID(f, "signupEmail").Invalid)
		assert.True(t, inputByID(f, "signupPhone").Invalid)
		assert.False(t, inputByID(f, "signupName").Invalid)
	})

	t.Run("whitespace only is empty", func(t *testing.T) {
		require.NoError(t, h.ctrl.SetValue(SignupFormID, "signupName", "   "))
		assert.False(t, h.ctrl.ValidateForm(SignupFormID))
		assert.True(t, inputByID(h.ctrl.State().Signup, "signupName").Invalid)
	})

	t.Run("unknown form", func(t *testing.T) {
		assert.False(t, h.ctrl.ValidateForm("checkoutForm"))
	})
}

func TestBlurChecksEmptinessOnly(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Blur(SignupFormID, "signupPhone"))
	assert.True(t, h.surface.classes["signupPhone"][errorClass])

	require.NoError(t, h.ctrl.SetValue(SignupFormID, "signupPhone", "12345"))
	require.NoError(t, h.ctrl.Blur(SignupFormID, "signupPhone"))
	assert.False(t, h.surface.classes["signupPhone"][errorClass], "format waits for submit")

	assert.ErrorIs(t, h.ctrl.Blur(SignupFormID, "signupFax"), ErrUnknownForm)
	assert.ErrorIs(t, h.ctrl.SetValue("cartForm", "x", "y"), ErrUnknownForm)
}

func TestHandleLogin(t *testing.T) {
	t.Run("success stores token and navigates", func(t *testing.T) {
		h := newHarness(t)
		h.provider.session = sessionWith("access-1")
		h.fillLogin(t)

		require.NoError(t, h.ctrl.HandleLogin(context.Background()))

		require.Len(t, h.provider.signIns, 1)
		assert.Equal(t, Credentials{Email: "shopper@example.com", Password: "password123"}, h.provider.signIns[0])
		for _, s := range []*MemoryStorage{h.session, h.persistent} {
			tok, ok := s.GetItem("token")
			assert.True(t, ok)
			assert.Equal(t, "access-1", tok)
		}
		assert.Equal(t, []string{"shop.html"}, h.nav.visited())
		assert.Empty(t, h.errs.got)
		assertIdle(t, h.ctrl.State().Login)
		assert.Equal(t, "Sign In", h.surface.text["loginSubmit"])
		assert.False(t, h.ctrl.State().InFlight)
	})

	t.Run("submit control is busy while in flight", func(t *testing.T) {
		h := newHarness(t)
		h.provider.session = sessionWith("access-1")
		h.provider.inflight = func() {
			f := h.ctrl.State().Login
			assert.True(t, f.Submit.Disabled)
			assert.Equal(t, "Signing In...", f.Submit.Label)
			assert.True(t, h.ctrl.State().InFlight)
		}
		h.fillLogin(t)

		require.NoError(t, h.ctrl.HandleLogin(context.Background()))
	})

	t.Run("provider error", func(t *testing.T) {
		h := newHarness(t)
		h.provider.err = &ProviderError{Status: 400, Code: "invalid_credentials", Message: "Invalid login credentials"}
		h.fillLogin(t)

		err := h.ctrl.HandleLogin(context.Background())

		var pe *ProviderError
		require.ErrorAs(t, err, &pe)
		require.Len(t, h.errs.got, 1)
		assert.Same(t, pe, h.errs.got[0])
		_, stored := h.session.GetItem("token")
		assert.False(t, stored)
		_, stored = h.persistent.GetItem("token")
		assert.False(t, stored)
		assert.Empty(t, h.nav.visited())
		assertIdle(t, h.ctrl.State().Login)
		assert.False(t, h.surface.disabled["loginSubmit"])
		assert.Equal(t, "Sign In", h.surface.text["loginSubmit"])
	})

	t.Run("invalid form never calls the provider", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.ctrl.SetValue(LoginFormID, "loginEmail", "not-an-email"))

		err := h.ctrl.HandleLogin(context.Background())

		assert.ErrorIs(t, err, ErrInvalidForm)
		assert.Empty(t, h.provider.signIns)
		assert.Equal(t, []notification{{"Please fill in all fields correctly", NotifyError}}, h.notes.got)
		assert.Empty(t, h.errs.got)
	})

	t.Run("padded email fails the pattern", func(t *testing.T) {
		h := newHarness(t)
		h.fillLogin(t)
		require.NoError(t, h.ctrl.SetValue(LoginFormID, "loginEmail", " shopper@example.com "))

		err := h.ctrl.HandleLogin(context.Background())

		assert.ErrorIs(t, err, ErrInvalidForm)
		assert.Empty(t, h.provider.signIns)
		assert.True(t, inputByID(h.ctrl.State().Login, "loginEmail").Invalid)
		assert.False(t, inputByID(h.ctrl.State().Login, "loginPassword").Invalid)
	})

	t.Run("missing session navigates without a token", func(t *testing.T) {
		h := newHarness(t)
		h.fillLogin(t)

		require.NoError(t, h.ctrl.HandleLogin(context.Background()))

		_, stored := h.session.GetItem("token")
		assert.False(t, stored)
		assert.Equal(t, []string{"shop.html"}, h.nav.visited())
	})

	t.Run("storage failure is reported", func(t *testing.T) {
		h := newHarness(t)
		h.provider.session = sessionWith("access-1")
		h.ctrl.deps.Persistent = failingStorage{}
		h.fillLogin(t)

		err := h.ctrl.HandleLogin(context.Background())

		require.Error(t, err)
		assert.Len(t, h.errs.got, 1)
		assert.Empty(t, h.nav.visited())
		assertIdle(t, h.ctrl.State().Login)
	})

	t.Run("panicking provider still restores the control", func(t *testing.T) {
		h := newHarness(t)
		h.provider.inflight = func() { panic("boom") }
		h.fillLogin(t)

		assert.Panics(t, func() { _ = h.ctrl.HandleLogin(context.Background()) })
		assertIdle(t, h.ctrl.State().Login)
		assert.False(t, h.ctrl.State().InFlight)
	})
}

func TestSecondSubmitWhileInFlight(t *testing.T) {
	h := newHarness(t)
	h.provider.session = sessionWith("access-1")
	h.provider.block = make(chan struct{})
	started := make(chan struct{})
	h.provider.inflight = func() { close(started) }
	h.fillLogin(t)
	h.fillSignup(t)

	done := make(chan error, 1)
	go func() { done <- h.ctrl.HandleLogin(context.Background()) }()
	select {
	case <-started:
	case err := <-done:
		t.Fatalf("login finished before reaching the provider: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("login never reached the provider")
	}

	assert.ErrorIs(t, h.ctrl.HandleLogin(context.Background()), ErrSubmitInFlight)
	assert.ErrorIs(t, h.ctrl.HandleSignup(context.Background()), ErrSubmitInFlight)

	close(h.provider.block)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("login did not finish")
	}
	assert.Len(t, h.provider.signIns, 1)
	assert.Empty(t, h.provider.signUps)
}

func TestHandleSignup(t *testing.T) {
	t.Run("no session stores empty token and delays navigation", func(t *testing.T) {
		h := newHarness(t)
		h.fillSignup(t)

		require.NoError(t, h.ctrl.HandleSignup(context.Background()))

		require.Len(t, h.provider.signUps, 1)
		assert.Equal(t, Profile{Name: "Ada Lovelace", Phone: "+1 555-123-4567", Address: "12 Analytical Way"}, h.provider.signUps[0])
		for _, s := range []*MemoryStorage{h.session, h.persistent} {
			tok, ok := s.GetItem("token")
			assert.True(t, ok)
			assert.Empty(t, tok)
		}
		assert.Equal(t, []notification{{"Registration successful! Redirecting to shop...", NotifySuccess}}, h.notes.got)

		assert.Empty(t, h.nav.visited(), "navigation must wait for the delay")
		require.Len(t, h.timers, 1)
		assert.Equal(t, 1500*time.Millisecond, h.timers[0].delay)

		h.timers[0].fn()
		assert.Equal(t, []string{"shop.html"}, h.nav.visited())
		assertIdle(t, h.ctrl.State().Signup)
		assert.Equal(t, "Create Account", h.surface.text["signupSubmit"])
	})

	t.Run("session token is stored", func(t *testing.T) {
		h := newHarness(t)
		h.provider.session = sessionWith("access-2")
		h.fillSignup(t)

		require.NoError(t, h.ctrl.HandleSignup(context.Background()))

		tok, _ := h.persistent.GetItem("token")
		assert.Equal(t, "access-2", tok)
	})

	t.Run("busy label", func(t *testing.T) {
		h := newHarness(t)
		h.provider.inflight = func() {
			assert.Equal(t, "Creating Account...", h.ctrl.State().Signup.Submit.Label)
		}
		h.fillSignup(t)
		require.NoError(t, h.ctrl.HandleSignup(context.Background()))
	})

	t.Run("provider error", func(t *testing.T) {
		h := newHarness(t)
		h.provider.err = errors.New("network down")
		h.fillSignup(t)

		require.Error(t, h.ctrl.HandleSignup(context.Background()))
		assert.Len(t, h.errs.got, 1)
		assert.Empty(t, h.notes.got)
		assert.Empty(t, h.timers)
		_, stored := h.session.GetItem("token")
		assert.False(t, stored)
		assertIdle(t, h.ctrl.State().Signup)
	})
}

func TestDefaultSchedulerDelaysNavigation(t *testing.T) {
	nav := &recordingNavigator{}
	ctrl, err := NewController(Config{SignupRedirectDelay: 50 * time.Millisecond}, Collaborators{
		Provider:   &fakeProvider{},
		Session:    NewMemoryStorage(),
		Persistent: NewMemoryStorage(),
		Navigator:  nav,
	})
	require.NoError(t, err)

	for id, v := range map[string]string{
		"signupName": "Ada", "signupEmail": "ada@example.com", "signupPassword": "password123",
		"signupPhone": "5551234567", "signupAddress": "12 Analytical Way",
	} {
		require.NoError(t, ctrl.SetValue(SignupFormID, id, v))
	}

	require.NoError(t, ctrl.HandleSignup(context.Background()))
	assert.Empty(t, nav.visited())
	assert.Eventually(t, func() bool { return len(nav.visited()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestStateIsACopy(t *testing.T) {
	h := newHarness(t)
	s := h.ctrl.State()
	s.Login.Inputs[0].Value = "changed"
	assert.Empty(t, h.ctrl.State().Login.Inputs[0].Value)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Invalid login credentials", UserMessage(&ProviderError{Status: 400, Message: "Invalid login credentials"}))
	assert.Equal(t, "Invalid login credentials", UserMessage(ErrInvalidCredentials))
	assert.Equal(t, "Something went wrong, please try again", UserMessage(errors.New("dial tcp: refused")))
}

func TestErrorPayload(t *testing.T) {
	err := fmt.Errorf("sign in: %w", &ProviderError{Status: 400, Code: "invalid_credentials", Message: "Invalid login credentials"})
	assert.Equal(t, map[string]any{"message": "Invalid login credentials", "code": "invalid_credentials", "status": 400}, ErrorPayload(err))

	assert.Equal(t, map[string]any{"message": "Something went wrong, please try again", "code": "", "status": 0},
		ErrorPayload(errors.New("dial tcp: refused")))
}
