// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// Template names, also used as metrics labels.
const (
	TemplateVerificationSubmitted      = "verification_submitted"
	TemplateVerificationSubmittedAdmin = "verification_submitted_admin"
	TemplateVerificationVerified       = "verification_verified"
	TemplateVerificationDeclined       = "verification_declined"
	TemplateApplicationReviewed        = "application_reviewed"
)

// VerificationEmailData holds data for the verification notification templates.
type VerificationEmailData struct {
	SiteName      string
	StudentName   string
	StudentEmail  string
	StudentNumber string
	Course        string
	Campus        string
	YearLevel     string
	SubmittedAt   string // already formatted for display
	Remarks       string
	PortalURL     string
}

// ApplicationReviewedData holds data for the application status email.
type ApplicationReviewedData struct {
	SiteName        string
	StudentName     string
	ScholarshipName string
	TrackerCode     string
	StatusLabel     string
	Remarks         string
	TrackURL        string
}

type row struct {
	Label string
	Value string
}

// layout is the content every template fills in.
type layout struct {
	SiteName    string
	Title       string
	Heading     string
	Paragraphs  []string
	Rows        []row
	ButtonURL   string
	ButtonLabel string
	Footer      string
}

// BuildVerificationSubmitted is the receipt sent to the student.
func BuildVerificationSubmitted(d VerificationEmailData) Email {
	l := layout{
		SiteName: d.SiteName,
		Title:    "Verification received",
		Heading:  fmt.Sprintf("Hi %s, we received your verification", d.StudentName),
		Paragraphs: []string{
			"Your student verification has been submitted and is now pending review.",
			"You will receive another email once an administrator has reviewed your documents.",
		},
		Rows: []row{
			{"Student number", d.StudentNumber},
			{"Course", d.Course},
			{"Year level", d.YearLevel},
			{"Submitted", d.SubmittedAt},
		},
		ButtonURL:   d.PortalURL,
		ButtonLabel: "Open ScholarHub",
		Footer:      "If you did not submit this request, please contact the scholarship office.",
	}
	return render(TemplateVerificationSubmitted, fmt.Sprintf("%s: verification received", d.SiteName), l)
}

// BuildVerificationSubmittedAdmin notifies the administrator of a new submission.
func BuildVerificationSubmittedAdmin(d VerificationEmailData) Email {
	l := layout{
		SiteName:   d.SiteName,
		Title:      "New verification",
		Heading:    "A new student verification is waiting for review",
		Paragraphs: []string{fmt.Sprintf("%s submitted identity documents for verification.", d.StudentName)},
		Rows: []row{
			{"Name", d.StudentName},
			{"Email", d.StudentEmail},
			{"Student number", d.StudentNumber},
			{"Course", d.Course},
			{"Campus", d.Campus},
			{"Year level", d.YearLevel},
			{"Submitted", d.SubmittedAt},
		},
		ButtonURL:   d.PortalURL,
		ButtonLabel: "Review verifications",
	}
	return render(TemplateVerificationSubmittedAdmin, fmt.Sprintf("New verification: %s", d.StudentName), l)
}

// BuildVerificationVerified tells the student their account is verified.
func BuildVerificationVerified(d VerificationEmailData) Email {
	l := layout{
		SiteName: d.SiteName,
		Title:    "Verification approved",
		Heading:  fmt.Sprintf("Congratulations %s, you are verified", d.StudentName),
		Paragraphs: []string{
			"Your student verification has been approved. You can now apply for scholarships on ScholarHub.",
		},
		ButtonURL:   d.PortalURL,
		ButtonLabel: "Browse scholarships",
	}
	if d.Remarks != "" {
		l.Rows = []row{{"Remarks", d.Remarks}}
	}
	return render(TemplateVerificationVerified, fmt.Sprintf("%s: verification approved", d.SiteName), l)
}

// BuildVerificationDeclined tells the student their submission was declined.
func BuildVerificationDeclined(d VerificationEmailData) Email {
	remarks := d.Remarks
	if remarks == "" {
		remarks = "No remarks were provided."
	}
	l := layout{
		SiteName: d.SiteName,
		Title:    "Verification declined",
		Heading:  fmt.Sprintf("Hi %s, your verification was not approved", d.StudentName),
		Paragraphs: []string{
			"An administrator reviewed your documents and could not verify them.",
			"You may submit a new verification with corrected documents.",
		},
		Rows:        []row{{"Remarks", remarks}},
		ButtonURL:   d.PortalURL,
		ButtonLabel: "Submit again",
	}
	return render(TemplateVerificationDeclined, fmt.Sprintf("%s: verification declined", d.SiteName), l)
}

// BuildApplicationReviewed tells the applicant their status changed.
func BuildApplicationReviewed(d ApplicationReviewedData) Email {
	rows := []row{
		{"Scholarship", d.ScholarshipName},
		{"Tracking code", d.TrackerCode},
		{"Status", d.StatusLabel},
	}
	if d.Remarks != "" {
		rows = append(rows, row{"Remarks", d.Remarks})
	}
	l := layout{
		SiteName:    d.SiteName,
		Title:       "Application update",
		Heading:     fmt.Sprintf("Hi %s, your application status changed", d.StudentName),
		Paragraphs:  []string{"Your scholarship application has been reviewed."},
		Rows:        rows,
		ButtonURL:   d.TrackURL,
		ButtonLabel: "Track application",
	}
	return render(TemplateApplicationReviewed, fmt.Sprintf("%s: application %s", d.SiteName, d.StatusLabel), l)
}

func render(name, subject string, l layout) Email {
	if l.SiteName == "" {
		l.SiteName = "ScholarHub"
	}
	return Email{
		Subject:  subject,
		TextBody: buildText(l),
		HTMLBody: buildHTML(l),
		Template: name,
	}
}

func buildText(l layout) string {
	var b strings.Builder
	b.WriteString(l.Heading + "\n\n")
	for _, p := range l.Paragraphs {
		b.WriteString(p + "\n\n")
	}
	for _, r := range l.Rows {
		if r.Value != "" {
			fmt.Fprintf(&b, "%s: %s\n", r.Label, r.Value)
		}
	}
	if l.ButtonURL != "" {
		fmt.Fprintf(&b, "\n%s: %s\n", l.ButtonLabel, l.ButtonURL)
	}
	if l.Footer != "" {
		b.WriteString("\n" + l.Footer + "\n")
	}
	return b.String()
}

var layoutTmpl = template.Must(template.New("layout").Parse(layoutHTMLTemplate))

func buildHTML(l layout) string {
	var buf bytes.Buffer
	_ = layoutTmpl.Execute(&buf, l)
	return buf.String()
}

const layoutHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 520px; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);">
          <tr>
            <td style="padding: 28px 32px 20px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 22px; font-weight: 600; color: #047857;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px;">
              <h2 style="margin: 0 0 16px; font-size: 18px; color: #111827;">{{.Heading}}</h2>
              {{range .Paragraphs}}<p style="margin: 0 0 16px; font-size: 15px; color: #374151; line-height: 1.5;">{{.}}</p>
              {{end}}
              {{if .Rows}}<table role="presentation" width="100%" cellspacing="0" cellpadding="6" style="margin: 8px 0 24px; font-size: 14px; background-color: #f9fafb; border-radius: 6px;">
                {{range .Rows}}{{if .Value}}<tr>
                  <td style="color: #6b7280; width: 40%;">{{.Label}}</td>
                  <td style="color: #111827; font-weight: 500;">{{.Value}}</td>
                </tr>{{end}}{{end}}
              </table>{{end}}
              {{if .ButtonURL}}<table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td align="center">
                    <a href="{{.ButtonURL}}" style="display: inline-block; padding: 12px 28px; background-color: #047857; color: #ffffff; text-decoration: none; font-size: 15px; font-weight: 500; border-radius: 6px;">{{.ButtonLabel}}</a>
                  </td>
                </tr>
              </table>{{end}}
            </td>
          </tr>
          {{if .Footer}}<tr>
            <td style="padding: 20px 32px; background-color: #f9fafb; border-top: 1px solid #e5e7eb; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 12px; color: #9ca3af; text-align: center;">{{.Footer}}</p>
            </td>
          </tr>{{end}}
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`
