package customer

// Surface is the page the view state is projected onto.
type Surface interface {
	SetClass(id, class string, on bool)
	SetDisabled(id string, disabled bool)
	SetText(id, text string)
}

// Render projects s onto out. It only writes; it never reads the page.
func Render(s ViewState, out Surface) {
	if out == nil {
		return
	}
	out.SetClass(s.LoginTabID, activeClass, s.Active == TabLogin)
	out.SetClass(s.SignupTabID, activeClass, s.Active == TabSignup)

	for _, f := range s.Forms() {
		out.SetClass(f.ID, activeClass, s.Active == f.Tab)
		for _, in := range f.Inputs {
			out.SetClass(in.ID, errorClass, in.Invalid)
		}
		out.SetDisabled(f.Submit.ID, f.Submit.Disabled)
		out.SetText(f.Submit.ID, f.Submit.Label)
	}
}
