package customer

import (
	"github.com/tinywasm/fmt"
	"github.com/tinywasm/form"
)

// actionCreate is the crud action byte for a submitted form.
const actionCreate byte = 'c'

type loginModule struct {
	form *form.Form
}

func (m *loginModule) HandlerName() string { return "login" }

// ValidateData applies the login form's input rules to data.
func (m *loginModule) ValidateData(action byte, data fmt.Fielder) error {
	return m.form.ValidateData(action, data)
}
