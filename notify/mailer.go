package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"salle-backend/utils"
)

type Kind string

const (
	KindBookingConfirmation Kind = "booking_confirmation"
	KindAdminAlert          Kind = "admin_alert"
	KindCancellationNotice  Kind = "cancellation_notice"
)

// Message is the structured payload handed to the dispatch worker. It is
// self-contained: the worker never goes back to the database.
type Message struct {
	Kind Kind

	// Recipients; for admin alerts this is every admin account.
	To []string

	ReservationRef string
	CustomerName   string
	RoomName       string
	StartDate      string // 2006-01-02
	EndDate        string // 2006-01-02
	TotalPrice     int64  // effective price in FCFA

	// Human-readable catering recap, e.g. "Déjeuner complet, Pause-café".
	CateringSummary string
}

// Sender delivers a single message. Implementations must be safe for use
// from the worker goroutine.
type Sender interface {
	Send(msg Message) error
}

// SMTPSender builds multipart plain+HTML mail and ships it over SMTP.
// When the SMTP environment is not configured it logs the message and
// reports success, so local setups work without a relay.
type SMTPSender struct {
	Log zerolog.Logger
}

func NewSMTPSender(log zerolog.Logger) *SMTPSender {
	return &SMTPSender{Log: log}
}

func (s *SMTPSender) Send(msg Message) error {
	smtpHost := utils.EnvOrDefault("SMTP_HOST", "")
	smtpPort := utils.EnvOrDefault("SMTP_PORT", "587")
	smtpUser := utils.EnvOrDefault("SMTP_USERNAME", "")
	smtpPass := utils.EnvOrDefault("SMTP_PASSWORD", "")
	fromName := utils.EnvOrDefault("SMTP_FROM_NAME", "Réservation de Salles")

	if len(msg.To) == 0 {
		return fmt.Errorf("message %s has no recipients", msg.Kind)
	}

	if smtpHost == "" || smtpUser == "" || smtpPass == "" {
		s.Log.Info().
			Str("kind", string(msg.Kind)).
			Strs("to", msg.To).
			Str("reservation", msg.ReservationRef).
			Msg("[MOCK EMAIL] SMTP not configured, skipping delivery")
		return nil
	}

	subject, plainBody, htmlBody := renderTemplates(msg)

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)
	boundary := "----=_SALLE_EMAIL_BOUNDARY"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, smtpUser, msg.To, []byte(sb.String())); err != nil {
		return fmt.Errorf("smtp send %s: %w", msg.Kind, err)
	}
	return nil
}

func renderTemplates(msg Message) (subject, plain, html string) {
	price := utils.FormatFCFA(msg.TotalPrice)
	catering := msg.CateringSummary
	if catering == "" {
		catering = "Aucune"
	}

	switch msg.Kind {
	case KindAdminAlert:
		subject = fmt.Sprintf("Nouvelle réservation %s - %s", msg.ReservationRef, msg.RoomName)
		plain = fmt.Sprintf(
			"Nouvelle réservation reçue.\n\n"+
				"Référence : %s\nClient : %s\nSalle : %s\nDu %s au %s\n"+
				"Restauration : %s\nPrix total : %s\n\n"+
				"Connectez-vous à la console d'administration pour la confirmer.\n",
			msg.ReservationRef, msg.CustomerName, msg.RoomName, msg.StartDate, msg.EndDate, catering, price,
		)
	case KindCancellationNotice:
		subject = fmt.Sprintf("Annulation de votre réservation %s", msg.ReservationRef)
		plain = fmt.Sprintf(
			"Bonjour %s,\n\n"+
				"Votre réservation %s de la salle %s (du %s au %s, %s) a été annulée.\n\n"+
				"Pour toute question, répondez simplement à cet email.\n",
			msg.CustomerName, msg.ReservationRef, msg.RoomName, msg.StartDate, msg.EndDate, price,
		)
	default: // booking confirmation
		subject = fmt.Sprintf("Votre demande de réservation %s", msg.ReservationRef)
		plain = fmt.Sprintf(
			"Bonjour %s,\n\n"+
				"Nous avons bien reçu votre demande de réservation de la salle %s du %s au %s.\n"+
				"Restauration : %s\nPrix total estimé : %s\n\n"+
				"Votre réservation est en attente de confirmation. Vous recevrez un email dès qu'elle sera validée.\n",
			msg.CustomerName, msg.RoomName, msg.StartDate, msg.EndDate, catering, price,
		)
	}

	html = fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
.price { font-size:20px; font-weight:bold; color:#0b74ff; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>%s</h2>
    <pre style="font-family:inherit;white-space:pre-wrap;">%s</pre>
    <p class="price">%s</p>
  </div>
</div>
</body>
</html>`, subject, plain, price)

	return subject, plain, html
}
