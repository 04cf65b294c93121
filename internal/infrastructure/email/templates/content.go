// Package templates provides the bodies of the transactional emails.
package templates

import "fmt"

type WelcomeProps struct {
	Name string
}

type PublishNotificationProps struct {
	WebsiteName  string
	PublishedURL string
}

// GetWelcomeContent builds the welcome email body.
func GetWelcomeContent(props WelcomeProps) string {
	name := props.Name
	if name == "" {
		name = "there"
	}

	content := GetParagraph(fmt.Sprintf("Hi %s,", name))
	content += GetParagraph("Welcome to SiteWright. Pick a template, make it yours, and publish when you are ready.")
	return content
}

// GetPublishNotificationContent builds the publish confirmation body.
func GetPublishNotificationContent(props PublishNotificationProps) string {
	content := GetParagraph(fmt.Sprintf("Your website %q has been published.", props.WebsiteName))

	if props.PublishedURL != "" {
		content += GetParagraph("It is live at the address below.")
		content += GetButton(ButtonProps{
			Text: "View your website",
			URL:  props.PublishedURL,
		})
	}

	content += GetParagraph("You can keep editing any time. Publishing again replaces the live snapshot.")
	return content
}
