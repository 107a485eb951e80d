package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"
)

// SendBookingConfirmationEmail sends the booking confirmation. When SMTP is
// not configured the email is logged instead of sent, so local setups keep
// working.
func SendBookingConfirmationEmail(recipientEmail, bookingReference, firstName, listingTitle string, startDate, endDate time.Time) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := os.Getenv("SMTP_FROM_NAME")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] confirmation to:%s booking:%s listing:%s", recipientEmail, bookingReference, listingTitle)
		return nil
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", " ")
	}

	firstName = safe(firstName)
	listingTitle = safe(listingTitle)
	if firstName == "" {
		firstName = "Valued Customer"
	}
	if listingTitle == "" {
		listingTitle = "N/A"
	}

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	to := []string{recipientEmail}
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	subject := "Booking Confirmation"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Thank you for your booking!\n\n"+
			"Booking Details:\n"+
			"- Booking ID: %s\n"+
			"- Property: %s\n"+
			"- Check-in: %s\n"+
			"- Check-out: %s\n\n"+
			"We look forward to hosting you!\n",
		firstName, bookingReference, listingTitle,
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"),
	)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipientEmail))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(body + "\r\n")

	if err := smtp.SendMail(addr, auth, smtpUser, to, []byte(sb.String())); err != nil {
		log.Printf("Failed to send confirmation email to %s: %v", recipientEmail, err)
		return err
	}

	log.Printf("Confirmation email sent to %s for booking %s", recipientEmail, bookingReference)
	return nil
}
