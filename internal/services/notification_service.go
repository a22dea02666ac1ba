package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"text/template"
	"time"
)

// NotificationService delivers templated email. MAIL_MODE=log writes the
// rendered message to the log; MAIL_MODE=relay POSTs it to the configured
// mail relay endpoint.
type NotificationService interface {
	SendEmail(ctx context.Context, recipient, subject, templateName string, data map[string]interface{}) error
}

type notificationService struct {
	mode       string
	endpoint   string
	from       string
	httpClient *http.Client
	templates  map[string]*template.Template
}

var emailTemplates = map[string]string{
	"payment_reminder": "Hi {{.FirstName}},\n\nA payment of {{printf \"%.2f\" .Amount}} for invoice {{.InvoiceNumber}} is due on {{.DueDate}}.\n\nThanks,\n{{.BusinessName}}",
	"invoice_overdue":  "Hi {{.FirstName}},\n\nInvoice {{.InvoiceNumber}} for {{printf \"%.2f\" .Amount}} is now overdue.\n\nThanks,\n{{.BusinessName}}",
	"welcome":          "Hi {{.FirstName}},\n\nYour account is ready. Sign in to start adding clients and bookings.",
}

func NewNotificationService(mode, endpoint, from string) NotificationService {
	templates := make(map[string]*template.Template, len(emailTemplates))
	for name, body := range emailTemplates {
		templates[name] = template.Must(template.New(name).Parse(body))
	}

	return &notificationService{
		mode:     mode,
		endpoint: endpoint,
		from:     from,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		templates: templates,
	}
}

func (s *notificationService) SendEmail(ctx context.Context, recipient, subject, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	if s.mode == "log" {
		log.Printf("EMAIL to=%s subject=%q\n%s", recipient, subject, body.String())
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"from":    s.from,
		"to":      recipient,
		"subject": subject,
		"body":    body.String(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}
	return nil
}
