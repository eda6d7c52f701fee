//go:build !wasm

package customer

import (
	"bytes"
	"html/template"
)

// PageOptions are the page-level values around the two forms.
type PageOptions struct {
	Title     string // default: "Customer Login"
	AssetsURL string // where wasm_exec.js and customer.wasm are served, default: "/assets"
	AuthURL   string // auth API base for the browser client, default: same origin
	AnonKey   string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Opts.Title}}</title>
</head>
<body>
<div class="auth-container">
  <div class="tabs">
    <button type="button" id="{{.State.LoginTabID}}" class="tab-button{{if eq .State.Active "login"}} active{{end}}">Sign In</button>
    <button type="button" id="{{.State.SignupTabID}}" class="tab-button{{if eq .State.Active "signup"}} active{{end}}">Sign Up</button>
  </div>
{{range .Forms}}
  <form id="{{.ID}}" class="auth-form{{if eq .Tab $.State.Active}} active{{end}}" novalidate>
{{- range .Inputs}}
    <div class="form-group">
      <label for="{{.ID}}">{{.Label}}</label>
      <input id="{{.ID}}" name="{{.Name}}" type="{{.Type}}" value="{{.Value}}"{{if .Invalid}} class="error"{{end}}{{if .Required}} required{{end}}>
    </div>
{{- end}}
    <button type="submit" id="{{.Submit.ID}}" class="login-button"{{if .Submit.Disabled}} disabled{{end}}>{{.Submit.Label}}</button>
  </form>
{{end}}
  <div id="notification" class="notification" role="status"></div>
</div>
<script>
window.shopAuthConfig = {url: {{.Opts.AuthURL}}, anonKey: {{.Opts.AnonKey}}};
function showNotification(message, kind) {
  var n = document.getElementById("notification");
  n.textContent = message;
  n.className = "notification " + kind;
}
function handleError(error) {
  showNotification(error && error.message ? error.message : String(error), "error");
}
</script>
<script src="{{.Opts.AssetsURL}}/wasm_exec.js"></script>
<script>
const go = new Go();
WebAssembly.instantiateStreaming(fetch("{{.Opts.AssetsURL}}/customer.wasm"), go.importObject).then((r) => go.run(r.instance));
</script>
</body>
</html>
`))

// RenderPage renders the auth page for s. It is the server-side counterpart
// of Render: same ids, same classes.
func RenderPage(s ViewState, opts PageOptions) (string, error) {
	if opts.Title == "" {
		opts.Title = "Customer Login"
	}
	if opts.AssetsURL == "" {
		opts.AssetsURL = "/assets"
	}
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		State ViewState
		Forms []*Form
		Opts  PageOptions
	}{State: s, Forms: s.Forms(), Opts: opts})
	return buf.String(), err
}
