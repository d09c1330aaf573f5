package mailer

import (
	"context"
	"fmt"
	"strings"
)

// Notifier turns portal events into mail.
type Notifier struct {
	sender Sender
	appURL string
}

func NewNotifier(sender Sender, appURL string) *Notifier {
	return &Notifier{sender: sender, appURL: strings.TrimRight(appURL, "/")}
}

func (n *Notifier) NotifyStatus(ctx context.Context, to, name, applicationID, status, notes string) error {
	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", fallback(name, "applicant"))
	switch strings.ToUpper(status) {
	case "APPROVED":
		fmt.Fprintf(&body, "Your driver's license application %s has been approved.\n", applicationID)
		body.WriteString("You can collect your license at the issuing office.\n")
	case "REJECTED":
		fmt.Fprintf(&body, "Your driver's license application %s has been rejected.\n", applicationID)
	default:
		fmt.Fprintf(&body, "The status of your driver's license application %s is now %s.\n", applicationID, status)
	}
	if notes != "" {
		fmt.Fprintf(&body, "\nReviewer notes: %s\n", notes)
	}
	fmt.Fprintf(&body, "\nTrack your application: %s/applications/%s\n", n.appURL, applicationID)

	return n.sender.Send(ctx, Message{
		To:      to,
		Subject: fmt.Sprintf("License application %s: %s", applicationID, strings.ToUpper(status)),
		Body:    body.String(),
	})
}

func (n *Notifier) SendOTP(ctx context.Context, to, name, code string) error {
	body := fmt.Sprintf("Dear %s,\n\nYour verification code is %s. It expires in 10 minutes.\nIf you did not request it, ignore this message.\n",
		fallback(name, "citizen"), code)
	return n.sender.Send(ctx, Message{To: to, Subject: "Your verification code", Body: body})
}

func fallback(s, d string) string {
	if strings.TrimSpace(s) == "" {
		return d
	}
	return s
}
