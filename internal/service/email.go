package service

import (
	"fmt"
	"html"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Rahnken/recipe-tracker/internal/logger"
	"github.com/Rahnken/recipe-tracker/internal/models"
)

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	frontendURL  string
	log          *logger.Logger
}

// readSecret reads a Docker secret from the secrets directory, falling back
// to the upper-cased environment variable of the same name.
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(os.Getenv(strings.ToUpper(name)))
}

func NewEmailService(baseLog *logger.Logger) *EmailService {
	s := &EmailService{
		smtpHost:     readSecret("smtp_host"),
		smtpPort:     readSecret("smtp_port"),
		smtpUsername: readSecret("smtp_username"),
		smtpPassword: readSecret("smtp_password"),
		fromEmail:    readSecret("email_from"),
		fromName:     readSecret("email_from_name"),
		frontendURL:  os.Getenv("FRONTEND_URL"),
		log:          baseLog.With("service", "EmailService"),
	}
	if s.fromName == "" {
		s.fromName = "Recipe Tracker"
	}
	if s.frontendURL == "" {
		s.frontendURL = "http://localhost:3000"
	}
	s.log.Info("email service initialized", "smtp_host", s.smtpHost, "smtp_configured", s.configured())
	return s
}

func (s *EmailService) configured() bool {
	return s.smtpHost != "" && s.smtpPort != ""
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	// Without SMTP the message is only logged.
	if !s.configured() {
		s.log.Info("smtp not configured, logging email", "to", to, "subject", subject, "body", body)
		return nil
	}

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendShareNotification tells to that a recipe was shared with them.
func (s *EmailService) SendShareNotification(to string, recipe *models.Recipe, sharedBy *models.User, permission models.SharePermission) error {
	subject, body := s.buildShareEmail(recipe, sharedBy, permission)
	return s.SendEmail(to, subject, body)
}

func (s *EmailService) buildShareEmail(recipe *models.Recipe, sharedBy *models.User, permission models.SharePermission) (string, string) {
	caser := cases.Title(language.English)
	access := caser.String(strings.ToLower(string(permission)))

	who := "Someone"
	if sharedBy != nil && sharedBy.Name != "" {
		who = sharedBy.Name
	}

	subject := fmt.Sprintf("[Recipe Tracker] %s shared %q with you (%s)", who, recipe.Name, access)

	link := fmt.Sprintf("%s/recipes/%s", strings.TrimRight(s.frontendURL, "/"), recipe.ID)
	description := ""
	if recipe.Description != "" {
		description = fmt.Sprintf("<p style=\"color: #555;\">%s</p>", html.EscapeString(recipe.Description))
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>A recipe was shared with you</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="margin-top: 0;">%s</h2>
	%s
	<p><strong>%s</strong> gave you <strong>%s</strong> access.</p>
	<p><a href="%s">Open the recipe</a></p>
</body>
</html>
	`,
		html.EscapeString(recipe.Name),
		description,
		html.EscapeString(who),
		access,
		link,
	)
	return subject, body
}
