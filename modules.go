package customer

import (
	"github.com/tinywasm/fmt"
	_ "github.com/tinywasm/fmt/dictionary"
	"github.com/tinywasm/form"
)

var LoginModule *loginModule

func init() {
	LoginModule = &loginModule{form: mustForm(LoginFormID, &LoginData{})}
}

func mustForm(parentID string, data fmt.Fielder) *form.Form {
	f, err := form.New(parentID, data)
	if err != nil {
		panic("customer: mustForm: " + err.Error())
	}
	return f
}
