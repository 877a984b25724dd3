package letters

import (
	"fmt"
	"strings"
	"text/template"
)

const attendanceBody = `{{.Date}}

To whom it may concern,

This letter confirms that {{.FullName}} is currently enrolled as a trainee in the
HackYourFuture program{{if .Cohort}} (cohort {{.Cohort}}){{end}} and attends classes
on a weekly basis.

Please contact us if you require further information.

Kind regards,

HackYourFuture
`

const completionBody = `{{.Date}}

To whom it may concern,

We are pleased to confirm that {{.FullName}} has successfully completed the
HackYourFuture program{{if .Cohort}} as part of cohort {{.Cohort}}{{end}}. During the
program, {{.FirstName}} studied full-stack web development, including JavaScript,
Node.js and databases, and completed a final project.

We wish {{.FirstName}} every success in their future career.

Kind regards,

HackYourFuture
`

const warningBody = `{{.Date}}

Dear {{.FirstName}},

This letter is a formal warning regarding your participation in the HackYourFuture
program. Your recent attendance and progress do not meet the commitments agreed at
the start of the program. Please contact your mentor within one week to discuss how
to get back on track.

Continued absence without notice may lead to removal from the program.

Kind regards,

HackYourFuture
`

var templates = map[Type]*template.Template{
	TypeAttendance: template.Must(template.New(string(TypeAttendance)).Parse(attendanceBody)),
	TypeCompletion: template.Must(template.New(string(TypeCompletion)).Parse(completionBody)),
	TypeWarning:    template.Must(template.New(string(TypeWarning)).Parse(warningBody)),
}

var titles = map[Type]string{
	TypeAttendance: "Confirmation of Enrollment",
	TypeCompletion: "Certificate of Completion",
	TypeWarning:    "Formal Warning",
}

// renderBody executes the template for the given type against the placeholder data.
func renderBody(t Type, data map[string]string) (string, error) {
	tmpl, ok := templates[t]
	if !ok {
		return "", fmt.Errorf("no template for letter type %q", t)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s letter: %w", t, err)
	}
	return sb.String(), nil
}
