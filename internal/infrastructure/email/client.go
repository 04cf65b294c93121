// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"
	"os"

	"github.com/SiteWright/sitewright-go/internal/infrastructure/email/templates"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendWelcomeEmail(toEmail, displayName string) error
	SendPublishNotificationEmail(toEmail, websiteName, publishedURL string) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@sitewright.dev"
	}

	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "SiteWright"
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

// SendWelcomeEmail greets a newly registered account.
func (c *ResendClient) SendWelcomeEmail(toEmail, displayName string) error {
	subject := "Welcome to SiteWright"

	content := templates.GetWelcomeContent(templates.WelcomeProps{
		Name: displayName,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Content: content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send welcome email via Resend: %w", err)
	}
	return nil
}

// SendPublishNotificationEmail tells the site owner their website went live.
func (c *ResendClient) SendPublishNotificationEmail(toEmail, websiteName, publishedURL string) error {
	subject := fmt.Sprintf("%s is live", websiteName)

	content := templates.GetPublishNotificationContent(templates.PublishNotificationProps{
		WebsiteName:  websiteName,
		PublishedURL: publishedURL,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Content: content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send publish notification via Resend: %w", err)
	}
	return nil
}
