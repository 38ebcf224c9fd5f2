// Package sendgrid emails certificate holders through the SendGrid v3 API.
package sendgrid

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	sg "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/righttechcentre/lms-api/internal/api/metrics"
	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
	provider    = "sendgrid"
)

type Config struct {
	APIKey   string
	From     string
	FromName string
	Host     string
}

// Notifier implements ports.CertificateNotifier.
type Notifier struct {
	apiKey string
	host   string
	from   *sgmail.Email
	log    zerolog.Logger
}

var _ ports.CertificateNotifier = (*Notifier)(nil)

func NewNotifier(cfg Config, log zerolog.Logger) *Notifier {
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	return &Notifier{
		apiKey: cfg.APIKey,
		host:   host,
		from:   sgmail.NewEmail(cfg.FromName, cfg.From),
		log:    log,
	}
}

// CertificateIssued sends the holder a congratulation with the verification number.
func (n *Notifier) CertificateIssued(ctx context.Context, user *domain.User, cert *domain.Certificate) error {
	req := sg.GetRequest(n.apiKey, endpoint, n.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(buildMessage(n.from, user, cert))

	start := time.Now()
	res, err := sg.MakeRequestWithContext(ctx, req)
	outcome := "ok"
	if err != nil || res.StatusCode >= 400 {
		outcome = "error"
	}
	metrics.ExternalCallDuration.WithLabelValues(provider, outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", res.StatusCode, res.Body)
	}
	n.log.Debug().Str("certificate_number", cert.CertificateNumber).Str("to", user.Email).Msg("certificate email sent")
	return nil
}

func buildMessage(from *sgmail.Email, user *domain.User, cert *domain.Certificate) *sgmail.SGMailV3 {
	subject := fmt.Sprintf("Your certificate for %s", cert.CourseTitle)

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(user.FullName, user.Email))
	p.Subject = subject

	plain := fmt.Sprintf(
		"Congratulations %s!\n\nYou have completed %s (%d credit hours).\nCertificate number: %s\nIssued: %s\n",
		user.FullName, cert.CourseTitle, cert.CreditHours, cert.CertificateNumber, cert.IssuedAt.Format("2006-01-02"),
	)
	rich := fmt.Sprintf(
		"<p>Congratulations %s!</p><p>You have completed <strong>%s</strong> (%d credit hours).</p><p>Certificate number: <code>%s</code><br>Issued: %s</p>",
		html.EscapeString(user.FullName), html.EscapeString(cert.CourseTitle), cert.CreditHours,
		cert.CertificateNumber, cert.IssuedAt.Format("2006-01-02"),
	)

	m := sgmail.NewV3Mail()
	m.SetFrom(from)
	m.Subject = subject
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", plain), sgmail.NewContent("text/html", rich))
	return m
}
