// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	CC       []string
	BCC      []string
	Subject  string
	Body     string
	HTMLBody string
}

// LeadAssignedData holds data for lead assignment emails
type LeadAssignedData struct {
	AssigneeName string
	CompanyName  string
	AssignedBy   string
	LeadURL      string
}

// LeadConvertedData holds data for conversion announcement emails
type LeadConvertedData struct {
	OwnerName   string
	CompanyName string
	ClientURL   string
}

// StaleLeadData holds data for stale-lead reminder emails
type StaleLeadData struct {
	OwnerName     string
	CompanyName   string
	DaysSinceLast int
	LeadURL       string
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {

	// Lead Assigned Template
	s.templates["lead_assigned"] = template.Must(template.New("lead_assigned").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1d4ed8; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .card { background: white; border-radius: 8px; padding: 20px; margin: 20px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .btn { display: inline-block; background: #1d4ed8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 15px; }
        .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Lead Assigned</h1>
        </div>
        <div class="content">
            <p>Hi {{.AssigneeName}},</p>
            <p><strong>{{.AssignedBy}}</strong> assigned you as lead on a new mandate.</p>

            <div class="card">
                <h2>{{.CompanyName}}</h2>
            </div>

            <a href="{{.LeadURL}}" class="btn">Open Lead</a>
        </div>
        <div class="footer">
            <p>Maple CRM</p>
        </div>
    </div>
</body>
</html>
`))

	// Lead Converted Template
	s.templates["lead_converted"] = template.Must(template.New("lead_converted").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #059669; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .btn { display: inline-block; background: #059669; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 15px; }
        .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Lead Converted</h1>
        </div>
        <div class="content">
            <p>Hi {{.OwnerName}},</p>
            <p><strong>{{.CompanyName}}</strong> is now an active client. The pipeline record moved to the client tracker.</p>

            <a href="{{.ClientURL}}" class="btn">View Client</a>
        </div>
        <div class="footer">
            <p>Maple CRM</p>
        </div>
    </div>
</body>
</html>
`))

	// Stale Lead Reminder Template
	s.templates["stale_lead"] = template.Must(template.New("stale_lead").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #d97706; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .btn { display: inline-block; background: #d97706; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 15px; }
        .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Lead Needs Attention</h1>
        </div>
        <div class="content">
            <p>Hi {{.OwnerName}},</p>
            <p><strong>{{.CompanyName}}</strong> has had no contact recorded for {{.DaysSinceLast}} days.</p>

            <a href="{{.LeadURL}}" class="btn">Open Lead</a>
        </div>
        <div class="footer">
            <p>Maple CRM</p>
        </div>
    </div>
</body>
</html>
`))
}

// Send sends a raw email message. With no SMTP host configured it logs and
// returns nil so the rest of the pipeline keeps working in development.
func (s *Service) Send(to []string, subject, htmlBody string) error {
	return s.send(&Email{To: to, Subject: subject, HTMLBody: htmlBody})
}

func (s *Service) send(email *Email) error {
	if s.config.Host == "" {
		log.Println("Email not configured, skipping send")
		return nil
	}

	// Build message
	var msg bytes.Buffer

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	if len(email.CC) > 0 {
		msg.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(email.CC, ", ")))
	}
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	recipients := append(email.To, email.CC...)
	recipients = append(recipients, email.BCC...)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("TLS dial error: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			return fmt.Errorf("SMTP client error: %w", err)
		}
		defer client.Close()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("auth error: %w", err)
		}

		if err = client.Mail(s.config.From); err != nil {
			return fmt.Errorf("mail error: %w", err)
		}

		for _, rcpt := range recipients {
			if err = client.Rcpt(rcpt); err != nil {
				return fmt.Errorf("rcpt error: %w", err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("data error: %w", err)
		}

		_, err = w.Write(msg.Bytes())
		if err != nil {
			return fmt.Errorf("write error: %w", err)
		}

		err = w.Close()
		if err != nil {
			return fmt.Errorf("close error: %w", err)
		}

		return client.Quit()
	}

	// Non-TLS
	return smtp.SendMail(addr, auth, s.config.From, recipients, msg.Bytes())
}

// SendWithTemplate renders a named template and sends the result.
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template %q not found", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execute error: %w", err)
	}

	return s.send(&Email{To: to, Subject: subject, HTMLBody: body.String()})
}

// SendLeadAssigned notifies a team member about a new assignment.
func (s *Service) SendLeadAssigned(to string, data LeadAssignedData) error {
	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[Maple CRM] Lead assigned: %s", data.CompanyName),
		"lead_assigned",
		data,
	)
}

// SendLeadConverted announces a lead converting to a client.
func (s *Service) SendLeadConverted(to string, data LeadConvertedData) error {
	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[Maple CRM] %s is now a client", data.CompanyName),
		"lead_converted",
		data,
	)
}

// SendStaleLeadReminder nudges an owner about a lead with no recent contact.
func (s *Service) SendStaleLeadReminder(to string, data StaleLeadData) error {
	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[Maple CRM] %s needs a follow-up", data.CompanyName),
		"stale_lead",
		data,
	)
}
