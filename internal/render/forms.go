package render

import (
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func init() {
	register(site.KindContactForm, renderContactForm)
	register(site.KindNewsletter, renderNewsletter)
	register(site.KindLoginForm, renderLoginForm)
	register(site.KindSearchBox, renderSearchBox)
	register(site.KindBookingForm, renderBookingForm)
	register(site.KindSurvey, renderSurvey)
}

var defaultContactFields = []site.Props{
	{"name": "name", "label": "Name", "type": "text", "required": true},
	{"name": "email", "label": "Email", "type": "email", "required": true},
	{"name": "message", "label": "Message", "type": "textarea", "required": true},
}

// formAction prefers the export-wide action URL over a per-component one.
func (n *node) formAction() string {
	if n.ctx.FormActionURL != "" {
		return safeURL(n.ctx.FormActionURL)
	}
	return orHash(safeURL(n.p.String("action")))
}

// form wraps fields in a form that the behavior script submits optimistically.
func (n *node) form(class, body, submitLabel string) string {
	success := n.p.StringOr("successMessage", "Thank you! We'll be in touch.")
	body += `<button class="sp-btn sp-btn-primary" type="submit">` + esc(submitLabel) + "</button>" +
		textEl("p", "sp-form-success", success, attr("role", "status"), " hidden")
	return n.wrap("form", "sp-form "+class, body,
		attr("action", n.formAction()), attr("method", "post"), attr("data-sp-form", cssIdent(strings.TrimPrefix(class, "sp-"))))
}

// field renders one labelled input from {name, label, type, required, placeholder, options}.
func (n *node) field(f site.Props) string {
	label := itemLabel(f)
	name := cssIdent(f.StringOr("name", strings.ToLower(label)))
	if name == "" {
		return ""
	}
	id := n.uid("field-" + name)
	typ := strings.ToLower(f.StringOr("type", "text"))
	common := attr("id", id) + attr("name", name) + attr("placeholder", f.String("placeholder")) + flag("required", f.Bool("required"))

	var input string
	switch typ {
	case "textarea":
		input = "<textarea" + common + ` rows="5"></textarea>`
	case "select":
		var opts strings.Builder
		for _, o := range f.List("options") {
			v := labelOf(o)
			opts.WriteString("<option" + attr("value", v) + ">" + esc(v) + "</option>")
		}
		input = "<select" + common + ">" + opts.String() + "</select>"
	case "checkbox":
		return el("label", "sp-field sp-field-checkbox", `<input type="checkbox"`+common+">"+esc(label), attr("for", id))
	default:
		switch typ {
		case "text", "email", "tel", "number", "date", "time", "url", "password":
		default:
			typ = "text"
		}
		input = "<input" + attr("type", typ) + common + ">"
	}
	return el("div", "sp-field", textEl("label", "", label, attr("for", id))+input)
}

func renderContactForm(n *node) string {
	fields := n.p.Items("fields")
	if len(fields) == 0 {
		fields = defaultContactFields
	}
	var b strings.Builder
	b.WriteString(textEl("h2", "sp-form-title", n.p.String("title")))
	for _, f := range fields {
		b.WriteString(n.field(f))
	}
	return n.form("sp-contact-form", b.String(), n.p.StringOr("submitLabel", "Send"))
}

func renderNewsletter(n *node) string {
	body := textEl("h2", "sp-form-title", n.p.String("title")) +
		textEl("p", "", n.p.String("text")) +
		`<div class="sp-inline-fields"><input type="email" name="email" required` + attr("placeholder", n.p.StringOr("placeholder", "you@example.com")) + attr("aria-label", "Email") + "></div>"
	return n.form("sp-newsletter", body, n.p.StringOr("buttonLabel", "Subscribe"))
}

func renderLoginForm(n *node) string {
	body := textEl("h2", "sp-form-title", n.p.StringOr("title", "Sign in")) +
		n.field(site.Props{"name": "email", "label": n.p.StringOr("emailLabel", "Email"), "type": "email", "required": true}) +
		n.field(site.Props{"name": "password", "label": n.p.StringOr("passwordLabel", "Password"), "type": "password", "required": true})
	return n.form("sp-login-form", body, n.p.StringOr("submitLabel", "Sign in"))
}

func renderSearchBox(n *node) string {
	action := orHash(safeURL(n.p.String("action")))
	body := `<input type="search" name="q"` + attr("placeholder", n.p.StringOr("placeholder", "Search")) + attr("aria-label", "Search") + ">" +
		`<button class="sp-btn sp-btn-primary" type="submit">` + esc(n.p.StringOr("buttonLabel", "Search")) + "</button>"
	return n.wrap("form", "sp-search", body, attr("action", action), attr("method", "get"), attr("role", "search"))
}

func renderBookingForm(n *node) string {
	var b strings.Builder
	b.WriteString(textEl("h2", "sp-form-title", n.p.String("title")))
	b.WriteString(n.field(site.Props{"name": "name", "label": "Name", "required": true}))
	b.WriteString(n.field(site.Props{"name": "email", "label": "Email", "type": "email", "required": true}))
	if services := n.p.List("services"); len(services) > 0 {
		b.WriteString(n.field(site.Props{"name": "service", "label": n.p.StringOr("serviceLabel", "Service"), "type": "select", "options": services}))
	}
	b.WriteString(n.field(site.Props{"name": "date", "label": "Date", "type": "date", "required": true}))
	b.WriteString(n.field(site.Props{"name": "time", "label": "Time", "type": "time"}))
	return n.form("sp-booking-form", b.String(), n.p.StringOr("submitLabel", "Book"))
}

func renderSurvey(n *node) string {
	var b strings.Builder
	b.WriteString(textEl("h2", "sp-form-title", n.p.String("title")))
	for i, q := range n.p.Items("questions") {
		name := "q" + itoa(i+1)
		question := q.StringOr("question", itemLabel(q))
		var input string
		switch strings.ToLower(q.String("type")) {
		case "choice", "single":
			for _, o := range q.List("options") {
				v := labelOf(o)
				input += `<label class="sp-choice"><input type="radio"` + attr("name", name) + attr("value", v) + ">" + esc(v) + "</label>"
			}
		case "rating":
			for r := 1; r <= 5; r++ {
				input += `<label class="sp-choice"><input type="radio"` + attr("name", name) + attr("value", itoa(r)) + ">" + itoa(r) + "</label>"
			}
		default:
			input = "<textarea" + attr("name", name) + ` rows="3"></textarea>`
		}
		b.WriteString(el("fieldset", "sp-survey-question", "<legend>"+esc(question)+"</legend>"+input))
	}
	return n.form("sp-survey", b.String(), n.p.StringOr("submitLabel", "Submit"))
}
