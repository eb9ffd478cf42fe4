package notification

import "strings"

// Template is a subject/body pair with {field} placeholders substituted
// at render time. Unknown placeholders are left in place so a template
// typo is visible in the delivered mail instead of silently vanishing.
type Template struct {
	Subject string
	Body    string
}

const (
	TemplateTicketCreated = "ticket_created"
	TemplateStatusChanged = "status_changed"
	TemplateCommentAdded  = "comment_added"
)

var templates = map[string]Template{
	TemplateTicketCreated: {
		Subject: "[{ticket_number}] Ticket received: {title}",
		Body: "Hello {requester_name},\n\n" +
			"Your ticket {ticket_number} \"{title}\" has been received with {priority} priority.\n" +
			"We aim to resolve it by {sla_deadline}.\n\n" +
			"Regards,\n{organization}",
	},
	TemplateStatusChanged: {
		Subject: "[{ticket_number}] Status update: {new_status}",
		Body: "Hello,\n\n" +
			"Ticket {ticket_number} \"{title}\" moved from {old_status} to {new_status}.\n\n" +
			"Regards,\n{organization}",
	},
	TemplateCommentAdded: {
		Subject: "[{ticket_number}] New comment on your ticket",
		Body: "Hello,\n\n" +
			"{author_name} commented on ticket {ticket_number} \"{title}\".\n\n" +
			"Regards,\n{organization}",
	},
}

// Render substitutes {field} placeholders from fields into the named
// template. ok is false for an unknown template name.
func Render(name string, fields map[string]string) (subject, body string, ok bool) {
	tpl, found := templates[name]
	if !found {
		return "", "", false
	}

	pairs := make([]string, 0, len(fields)*2)
	for k, v := range fields {
		pairs = append(pairs, "{"+k+"}", v)
	}
	r := strings.NewReplacer(pairs...)

	return r.Replace(tpl.Subject), r.Replace(tpl.Body), true
}
