//go:build wasm

package customer

import (
	"context"
	"fmt"
	"syscall/js"
)

// jsSurface renders onto the live document.
type jsSurface struct {
	doc js.Value
}

func (s jsSurface) el(id string) (js.Value, bool) {
	v := s.doc.Call("getElementById", id)
	return v, !v.IsNull() && !v.IsUndefined()
}

func (s jsSurface) SetClass(id, class string, on bool) {
	if el, ok := s.el(id); ok {
		el.Get("classList").Call("toggle", class, on)
	}
}

func (s jsSurface) SetDisabled(id string, disabled bool) {
	if el, ok := s.el(id); ok {
		el.Set("disabled", disabled)
	}
}

func (s jsSurface) SetText(id, text string) {
	if el, ok := s.el(id); ok {
		el.Set("textContent", text)
	}
}

// jsStorage is sessionStorage or localStorage.
type jsStorage struct {
	obj js.Value
}

func (s jsStorage) SetItem(key, value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("storage: %v", r)
		}
	}()
	s.obj.Call("setItem", key, value)
	return nil
}

type jsNavigator struct{}

func (jsNavigator) Navigate(url string) {
	js.Global().Get("window").Get("location").Set("href", url)
}

// jsNotifier and jsErrorHandler hand over to the page's own functions when it
// defines them. handleError receives the ErrorPayload object.
type jsNotifier struct{}

func (jsNotifier) Notify(message string, kind NotificationKind) {
	if fn := js.Global().Get("showNotification"); fn.Type() == js.TypeFunction {
		fn.Invoke(message, string(kind))
		return
	}
	logNotifier{}.Notify(message, kind)
}

type jsErrorHandler struct{}

func (jsErrorHandler) HandleError(err error) {
	if fn := js.Global().Get("handleError"); fn.Type() == js.TypeFunction {
		fn.Invoke(ErrorPayload(err))
		return
	}
	logErrorHandler{}.HandleError(err)
}

// BrowserCollaborators wires p to the current page.
func BrowserCollaborators(p Provider) Collaborators {
	g := js.Global()
	return Collaborators{
		Provider:   p,
		Session:    jsStorage{obj: g.Get("sessionStorage")},
		Persistent: jsStorage{obj: g.Get("localStorage")},
		Navigator:  jsNavigator{},
		Notifier:   jsNotifier{},
		Errors:     jsErrorHandler{},
		Surface:    jsSurface{doc: g.Get("document")},
	}
}

// Mount registers the page listeners once the document is parsed: tab
// clicks, form submits and a blur listener on every required input.
// The returned function releases them.
func Mount(ctx context.Context, c *Controller) (release func()) {
	doc := js.Global().Get("document")
	var funcs []js.Func

	listen := func(target js.Value, event string, fn func(this js.Value, args []js.Value) any) {
		if target.IsNull() || target.IsUndefined() {
			return
		}
		f := js.FuncOf(fn)
		funcs = append(funcs, f)
		target.Call("addEventListener", event, f)
	}

	bind := func() {
		state := c.State()
		listen(doc.Call("getElementById", state.LoginTabID), "click", func(js.Value, []js.Value) any {
			c.SwitchTab(TabLogin)
			return nil
		})
		listen(doc.Call("getElementById", state.SignupTabID), "click", func(js.Value, []js.Value) any {
			c.SwitchTab(TabSignup)
			return nil
		})

		for _, f := range state.Forms() {
			form := *f
			handle := c.HandleLogin
			if form.ID == SignupFormID {
				handle = c.HandleSignup
			}
			listen(doc.Call("getElementById", form.ID), "submit", func(_ js.Value, args []js.Value) any {
				if len(args) > 0 {
					args[0].Call("preventDefault")
				}
				syncValues(doc, c, form)
				// Event callbacks must not block on network calls. Failures
				// are already reported through the notifier and error handler.
				go func() { _ = handle(ctx) }()
				return nil
			})

			for _, in := range form.Inputs {
				if !in.Required {
					continue
				}
				formID, inputID := form.ID, in.ID
				el := doc.Call("getElementById", inputID)
				listen(el, "blur", func(js.Value, []js.Value) any {
					_ = c.SetValue(formID, inputID, el.Get("value").String())
					_ = c.Blur(formID, inputID)
					return nil
				})
			}
		}
		c.Refresh()
	}

	if doc.Get("readyState").String() == "loading" {
		var ready js.Func
		ready = js.FuncOf(func(js.Value, []js.Value) any {
			bind()
			ready.Release()
			return nil
		})
		doc.Call("addEventListener", "DOMContentLoaded", ready)
	} else {
		bind()
	}

	return func() {
		for _, f := range funcs {
			f.Release()
		}
	}
}

func syncValues(doc js.Value, c *Controller, form Form) {
	for _, in := range form.Inputs {
		el := doc.Call("getElementById", in.ID)
		if el.IsNull() || el.IsUndefined() {
			continue
		}
		_ = c.SetValue(form.ID, in.ID, el.Get("value").String())
	}
}
