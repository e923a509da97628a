package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Type selects a notification template
type Type string

const (
	TypeAdminReply     Type = "admin_reply"
	TypeStatusChanged  Type = "status_changed"
	TypeTicketCreated  Type = "ticket_created"
	TypeNewTicketAdmin Type = "new_ticket_admin"
)

// IsValid reports whether a template exists for the type
func (t Type) IsValid() bool {
	switch t {
	case TypeAdminReply, TypeStatusChanged, TypeTicketCreated, TypeNewTicketAdmin:
		return true
	}
	return false
}

// ForAdmin reports whether the notification goes to the store team rather than the customer
func (t Type) ForAdmin() bool {
	return t == TypeNewTicketAdmin
}

// Notification carries the fields the templates draw from
type Notification struct {
	Type           Type   `json:"type"`
	TicketID       string `json:"ticketId"`
	TicketNumber   int64  `json:"ticketNumber"`
	Subject        string `json:"subject"`
	Description    string `json:"description"`
	TicketType     string `json:"ticketType"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus"`
	Message        string `json:"message"`
	AuthorName     string `json:"authorName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerName   string `json:"customerName"`
	AdminEmail     string `json:"adminEmail"`
	// StaffOnly keeps staff alerts from falling back to the customer address
	StaffOnly bool `json:"-"`
}

// StoreInfo brands outgoing email
type StoreInfo struct {
	Name string
	URL  string
}

type templateData struct {
	Notification
	Store        StoreInfo
	Greeting     string
	BodyHTML     template.HTML
	TicketURL    string
	NumberPrefix string
}

const layoutHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222; line-height: 1.5;">
{{template "content" .}}
<hr style="border: none; border-top: 1px solid #ddd;">
<p style="font-size: 12px; color: #777;">{{.Store.Name}}{{if .Store.URL}} &middot; <a href="{{.Store.URL}}">{{.Store.URL}}</a>{{end}}</p>
</body>
</html>`

var htmlBodies = map[Type]string{
	TypeAdminReply: `<p>{{.Greeting}}</p>
<p>Our team replied to your support request {{.NumberPrefix}}<strong>{{.Subject}}</strong>:</p>
<blockquote style="border-left: 3px solid #ccc; margin: 0; padding-left: 12px;">{{.BodyHTML}}</blockquote>
{{if .TicketURL}}<p><a href="{{.TicketURL}}">View your ticket</a></p>{{end}}`,

	TypeStatusChanged: `<p>{{.Greeting}}</p>
<p>The status of your support request {{.NumberPrefix}}<strong>{{.Subject}}</strong> changed{{if .PreviousStatus}} from {{.PreviousStatus}}{{end}} to <strong>{{.Status}}</strong>.</p>
{{if .TicketURL}}<p><a href="{{.TicketURL}}">View your ticket</a></p>{{end}}`,

	TypeTicketCreated: `<p>{{.Greeting}}</p>
<p>We received your support request {{.NumberPrefix}}<strong>{{.Subject}}</strong> and will get back to you soon.</p>
{{if .BodyHTML}}<blockquote style="border-left: 3px solid #ccc; margin: 0; padding-left: 12px;">{{.BodyHTML}}</blockquote>{{end}}
{{if .TicketURL}}<p><a href="{{.TicketURL}}">View your ticket</a></p>{{end}}`,

	TypeNewTicketAdmin: `<p>A new support ticket {{.NumberPrefix}}was opened.</p>
<table cellpadding="4">
<tr><td><strong>Subject</strong></td><td>{{.Subject}}</td></tr>
{{if .TicketType}}<tr><td><strong>Type</strong></td><td>{{.TicketType}}</td></tr>{{end}}
{{if .Priority}}<tr><td><strong>Priority</strong></td><td>{{.Priority}}</td></tr>{{end}}
<tr><td><strong>Customer</strong></td><td>{{.CustomerName}}{{if .CustomerEmail}} &lt;{{.CustomerEmail}}&gt;{{end}}</td></tr>
</table>
{{if .BodyHTML}}<div>{{.BodyHTML}}</div>{{end}}`,
}

var textBodies = map[Type]string{
	TypeAdminReply: `{{.Greeting}}

Our team replied to your support request {{.NumberPrefix}}"{{.Subject}}":

{{.Message}}
{{if .TicketURL}}
View your ticket: {{.TicketURL}}{{end}}
`,
	TypeStatusChanged: `{{.Greeting}}

The status of your support request {{.NumberPrefix}}"{{.Subject}}" changed{{if .PreviousStatus}} from {{.PreviousStatus}}{{end}} to {{.Status}}.
{{if .TicketURL}}
View your ticket: {{.TicketURL}}{{end}}
`,
	TypeTicketCreated: `{{.Greeting}}

We received your support request {{.NumberPrefix}}"{{.Subject}}" and will get back to you soon.
{{if .TicketURL}}
View your ticket: {{.TicketURL}}{{end}}
`,
	TypeNewTicketAdmin: `A new support ticket {{.NumberPrefix}}was opened.

Subject: {{.Subject}}
Type: {{.TicketType}}
Priority: {{.Priority}}
Customer: {{.CustomerName}} {{.CustomerEmail}}

{{.Description}}
`,
}

// Renderer turns notifications into subject lines and HTML/text bodies
type Renderer struct {
	store  StoreInfo
	md     goldmark.Markdown
	policy *bluemonday.Policy
	html   map[Type]*template.Template
	text   map[Type]*texttemplate.Template
}

// NewRenderer parses every template up front
func NewRenderer(store StoreInfo) (*Renderer, error) {
	if store.Name == "" {
		store.Name = "Support"
	}

	r := &Renderer{
		store: store,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
		html:   make(map[Type]*template.Template, len(htmlBodies)),
		text:   make(map[Type]*texttemplate.Template, len(textBodies)),
	}

	for t, body := range htmlBodies {
		tmpl, err := template.New(string(t)).Parse(layoutHTML)
		if err == nil {
			_, err = tmpl.New("content").Parse(body)
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s html template: %w", t, err)
		}
		r.html[t] = tmpl
	}
	for t, body := range textBodies {
		tmpl, err := texttemplate.New(string(t)).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse %s text template: %w", t, err)
		}
		r.text[t] = tmpl
	}
	return r, nil
}

// Subject builds the subject line for a notification
func (r *Renderer) Subject(n *Notification) string {
	number := ""
	if n.TicketNumber > 0 {
		number = fmt.Sprintf(" #%d", n.TicketNumber)
	}

	switch n.Type {
	case TypeAdminReply:
		return fmt.Sprintf("[%s] New reply on your ticket%s", r.store.Name, number)
	case TypeStatusChanged:
		return fmt.Sprintf("[%s] Ticket%s is now %s", r.store.Name, number, n.Status)
	case TypeTicketCreated:
		return fmt.Sprintf("[%s] We received your request%s", r.store.Name, number)
	case TypeNewTicketAdmin:
		return fmt.Sprintf("[%s] New ticket%s: %s", r.store.Name, number, n.Subject)
	}
	return fmt.Sprintf("[%s] Ticket update%s", r.store.Name, number)
}

// Render produces the subject and both bodies
func (r *Renderer) Render(n *Notification) (subject, htmlBody, textBody string, err error) {
	htmlTmpl, ok := r.html[n.Type]
	if !ok {
		return "", "", "", fmt.Errorf("no template for notification type %q", n.Type)
	}

	markdown := n.Message
	if n.Type == TypeTicketCreated || n.Type == TypeNewTicketAdmin {
		markdown = n.Description
	}
	bodyHTML, err := r.markdownToHTML(markdown)
	if err != nil {
		return "", "", "", err
	}

	data := templateData{
		Notification: *n,
		Store:        r.store,
		Greeting:     greeting(n.CustomerName),
		BodyHTML:     template.HTML(bodyHTML),
		TicketURL:    r.ticketURL(n),
	}
	if n.TicketNumber > 0 {
		data.NumberPrefix = fmt.Sprintf("#%d ", n.TicketNumber)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", n.Type, err)
	}
	if err := r.text[n.Type].Execute(&textBuf, data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", n.Type, err)
	}
	return r.Subject(n), htmlBuf.String(), textBuf.String(), nil
}

// markdownToHTML renders user-supplied markdown and strips anything unsafe
func (r *Renderer) markdownToHTML(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

func (r *Renderer) ticketURL(n *Notification) string {
	if r.store.URL == "" || n.TicketID == "" || n.Type.ForAdmin() {
		return ""
	}
	return strings.TrimRight(r.store.URL, "/") + "/account/support?ticket=" + n.TicketID
}

func greeting(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Hello,"
	}
	return "Hi " + name + ","
}
