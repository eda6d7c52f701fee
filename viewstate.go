package customer

// Tab names one of the two mutually exclusive forms.
type Tab string

const (
	TabLogin  Tab = "login"
	TabSignup Tab = "signup"
)

const (
	LoginFormID  = "loginForm"
	SignupFormID = "signupForm"

	activeClass = "active"
	errorClass  = "error"
)

type InputType string

const (
	InputText     InputType = "text"
	InputEmail    InputType = "email"
	InputPassword InputType = "password"
	InputTel      InputType = "tel"
)

type Input struct {
	ID       string
	Name     string
	Type     InputType
	Label    string
	Required bool
	Value    string
	Invalid  bool
}

type SubmitControl struct {
	ID        string
	IdleLabel string
	BusyLabel string
	Label     string
	Disabled  bool
}

type Form struct {
	ID     string
	Tab    Tab
	Inputs []Input
	Submit SubmitControl
}

// ViewState is the whole state of the auth page. Rendering is a projection
// of it; nothing else is read back from the page.
type ViewState struct {
	Active      Tab
	LoginTabID  string
	SignupTabID string
	Login       Form
	Signup      Form
	InFlight    bool
}

func newViewState(cfg Config) ViewState {
	return ViewState{
		Active:      TabLogin,
		LoginTabID:  cfg.LoginTabID,
		SignupTabID: cfg.SignupTabID,
		Login: Form{
			ID:  LoginFormID,
			Tab: TabLogin,
			Inputs: []Input{
				{ID: "loginEmail", Name: "email", Type: InputEmail, Label: "Email", Required: true},
				{ID: "loginPassword", Name: "password", Type: InputPassword, Label: "Password", Required: true},
			},
			Submit: newSubmit("loginSubmit", "Sign In", "Signing In..."),
		},
		Signup: Form{
			ID:  SignupFormID,
			Tab: TabSignup,
			Inputs: []Input{
				{ID: "signupName", Name: "name", Type: InputText, Label: "Full Name", Required: true},
				{ID: "signupEmail", Name: "email", Type: InputEmail, Label: "Email", Required: true},
				{ID: "signupPassword", Name: "password", Type: InputPassword, Label: "Password", Required: true},
				{ID: "signupPhone", Name: "phone", Type: InputTel, Label: "Phone", Required: true},
				{ID: "signupAddress", Name: "address", Type: InputText, Label: "Address", Required: true},
			},
			Submit: newSubmit("signupSubmit", "Create Account", "Creating Account..."),
		},
	}
}

// NewViewState returns the initial page state: login active, nothing typed.
func NewViewState(cfg Config) ViewState {
	return newViewState(cfg.withDefaults())
}

func newSubmit(id, idle, busy string) SubmitControl {
	return SubmitControl{ID: id, IdleLabel: idle, BusyLabel: busy, Label: idle}
}

// Forms returns both forms, login first.
func (s *ViewState) Forms() []*Form {
	return []*Form{&s.Login, &s.Signup}
}

func (s *ViewState) form(id string) *Form {
	for _, f := range s.Forms() {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (s ViewState) clone() ViewState {
	s.Login.Inputs = append([]Input(nil), s.Login.Inputs...)
	s.Signup.Inputs = append([]Input(nil), s.Signup.Inputs...)
	return s
}

func (f *Form) input(id string) *Input {
	for i := range f.Inputs {
		if f.Inputs[i].ID == id {
			return &f.Inputs[i]
		}
	}
	return nil
}

// Value returns the trimmed value of the input with the given id.
func (f *Form) Value(id string) string {
	if in := f.input(id); in != nil {
		return trim(in.Value)
	}
	return ""
}

func (f *Form) setBusy(busy bool) {
	f.Submit.Disabled = busy
	if busy {
		f.Submit.Label = f.Submit.BusyLabel
	} else {
		f.Submit.Label = f.Submit.IdleLabel
	}
}
