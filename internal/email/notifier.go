// Package email delivers sales notifications over SMTP. It subscribes
// to domain events and owns all message rendering; nothing else in the
// application knows how a notification looks.
package email

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	gomail "github.com/wneessen/go-mail"
)

// hotLeadThreshold is the minimum score a new lead needs to trigger an
// immediate sales notification.
const hotLeadThreshold = 80

const (
	subjectHotLeadFmt    = "Hot lead: %s (%d)"
	subjectStaleLeadsFmt = "%d leads need contact"
)

// Notifier sends hot-lead and stale-lead emails to the sales address.
type Notifier struct {
	cfg config.EmailConfig
	log *logger.Logger
}

func NewNotifier(cfg config.EmailConfig, log *logger.Logger) *Notifier {
	return &Notifier{cfg: cfg, log: log}
}

// RegisterHandlers subscribes the notifier to the events it acts on.
func (n *Notifier) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(n.onLeadCreated))
	bus.Subscribe(events.StaleLeadsDetected{}.EventName(), events.HandlerFunc(n.onStaleLeads))
}

func (n *Notifier) onLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok {
		return nil
	}
	if e.Score < hotLeadThreshold {
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<h2>New hot lead</h2>")
	fmt.Fprintf(&body, "<p><strong>%s</strong> &mdash; %s</p>", e.Name, e.ServiceType)
	fmt.Fprintf(&body, "<p>Location: %s</p>", e.Location)
	fmt.Fprintf(&body, "<p>Score: %d</p>", e.Score)
	if len(e.Tags) > 0 {
		fmt.Fprintf(&body, "<p>Tags: %s</p>", strings.Join(e.Tags, ", "))
	}
	if e.Source != "" {
		fmt.Fprintf(&body, "<p>Source: %s</p>", e.Source)
	}

	subject := fmt.Sprintf(subjectHotLeadFmt, e.Name, e.Score)
	return n.send(ctx, subject, body.String())
}

func (n *Notifier) onStaleLeads(ctx context.Context, event events.Event) error {
	e, ok := event.(events.StaleLeadsDetected)
	if !ok {
		return nil
	}
	if len(e.LeadIDs) == 0 {
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<h2>Leads going cold</h2>")
	fmt.Fprintf(&body, "<p>%d active leads have gone more than a day without contact.</p>", len(e.LeadIDs))
	fmt.Fprintf(&body, "<ul>")
	for _, id := range e.LeadIDs {
		fmt.Fprintf(&body, "<li>%s</li>", id)
	}
	fmt.Fprintf(&body, "</ul>")

	subject := fmt.Sprintf(subjectStaleLeadsFmt, len(e.LeadIDs))
	return n.send(ctx, subject, body.String())
}

func (n *Notifier) send(ctx context.Context, subject, htmlContent string) error {
	if !n.cfg.IsEmailEnabled() {
		n.log.Debug("email disabled, dropping notification", "subject", subject)
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(n.cfg.GetEmailFromName(), n.cfg.GetEmailFromAddress()); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(n.cfg.GetSalesNotifyAddress()); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(n.cfg.GetSMTPHost(),
		gomail.WithPort(n.cfg.GetSMTPPort()),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.cfg.GetSMTPUsername()),
		gomail.WithPassword(n.cfg.GetSMTPPassword()),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
