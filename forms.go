package customer

import "github.com/tinywasm/fmt"

// LoginData is validated by LoginModule on both frontend and backend.
type LoginData struct {
	Email    string
	Password string
}

func (d *LoginData) Schema() []fmt.Field {
	return []fmt.Field{
		{Name: "Email", Type: fmt.FieldText, NotNull: true, Input: "email"},
		{Name: "Password", Type: fmt.FieldText, NotNull: true, Input: "password"},
	}
}

func (d *LoginData) Pointers() []any { return []any{&d.Email, &d.Password} }

// FormName keeps the form id stable as "<parent>.login".
func (d *LoginData) FormName() string { return "login" }
