package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"yoga-studio/pkg/utils"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. Implementations must be safe to call from
// goroutines; services fire them async and never fail a request on mail errors.
type Mailer interface {
	SendOTP(to, code string, expiryMinutes int)
	SendBookingConfirmation(to string, data BookingConfirmationData)
}

type BookingConfirmationData struct {
	StudentName string
	ClassTitle  string
	StudioName  string
	Reference   string
	Date        string
	Time        string
	AmountCents int64
}

const confirmationTmpl = `
<h2>You're booked, {{.StudentName}}!</h2>
<p>{{.ClassTitle}} with {{.StudioName}}</p>
<p>{{.Date}} at {{.Time}}</p>
<p>Booking reference: <strong>{{.Reference}}</strong></p>
{{if gt .AmountCents 0}}<p>Amount paid: {{.Amount}}</p>{{end}}
<p>Show the attached QR code if asked for your reference.</p>
`

type smtpMailer struct {
	config utils.EmailConfig
	tmpl   *template.Template
	log    *zap.Logger
}

func New(config utils.EmailConfig, log *zap.Logger) Mailer {
	return &smtpMailer{
		config: config,
		tmpl:   template.Must(template.New("confirmation").Parse(confirmationTmpl)),
		log:    log.With(zap.String("component", "mailer")),
	}
}

func (m *smtpMailer) SendOTP(to, code string, expiryMinutes int) {
	body := fmt.Sprintf("<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
		code, expiryMinutes)
	m.send(to, "Your verification code", body, nil)
}

func (m *smtpMailer) SendBookingConfirmation(to string, data BookingConfirmationData) {
	var body bytes.Buffer
	err := m.tmpl.Execute(&body, struct {
		BookingConfirmationData
		Amount string
	}{data, utils.FormatCents(data.AmountCents)})
	if err != nil {
		m.log.Error("Failed to render confirmation email", zap.Error(err))
		return
	}

	// QR with the booking reference, attached as PNG
	png, err := qrcode.Encode(data.Reference, qrcode.Medium, 256)
	if err != nil {
		m.log.Warn("Failed to generate reference QR, sending without it",
			zap.Error(err), zap.String("reference", data.Reference))
		png = nil
	}

	m.send(to, "Booking confirmed: "+data.ClassTitle, body.String(), png)
}

func (m *smtpMailer) send(to, subject, htmlBody string, attachmentPNG []byte) {
	if m.config.Host == "" {
		m.log.Debug("SMTP not configured, skipping email",
			zap.String("to", to), zap.String("subject", subject))
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if attachmentPNG != nil {
		msg.Attach("booking-reference.png", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachmentPNG)
			return err
		}))
	}

	d := gomail.NewDialer(m.config.Host, m.config.Port, m.config.User, m.config.Password)
	if err := d.DialAndSend(msg); err != nil {
		m.log.Error("Failed to send email",
			zap.Error(err), zap.String("to", to), zap.String("subject", subject))
		return
	}

	m.log.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
}
