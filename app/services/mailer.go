package services

import (
	"fmt"
	"log"
	"net/smtp"
)

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type Mailer struct {
	config MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{config: cfg}
}

func (m *Mailer) SendHTMLEmail(to, subject, htmlBody string) error {
	headers := map[string]string{
		"From":         m.config.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"UTF-8\"",
	}

	var msg string
	for k, v := range headers {
		msg += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	msg += "\r\n" + htmlBody

	auth := smtp.PlainAuth(m.config.From, m.config.Username, m.config.Password, m.config.Host)
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func BuildOtpEmailBody(purposeTitle, otpCode string, expiryMinutes int) string {
	return fmt.Sprintf(`
        <!DOCTYPE html>
        <html>
        <head>
            <meta charset="utf-8">
            <title>%s</title>
            <style>
                body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
                .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
                .content { padding: 20px; text-align: center; }
                .otp-code { font-size: 2em; font-weight: bold; color: #007bff; margin: 20px 0; padding: 10px; background-color: #e9f5ff; border-radius: 5px; display: inline-block;}
                .footer { font-size: 0.8em; color: #777; text-align: center; margin-top: 20px; border-top: 1px solid #ddd; padding-top: 10px; }
            </style>
        </head>
        <body>
            <div class="container">
                <div class="content">
                    <h2>%s</h2>
                    <p>Enter the following verification code:</p>
                    <p class="otp-code">%s</p>
                    <p>This code expires in %d minutes. If you did not request it, you can ignore this email.</p>
                </div>
                <div class="footer">This is an automated message, please do not reply.</div>
            </div>
        </body>
        </html>`, purposeTitle, purposeTitle, otpCode, expiryMinutes)
}
