package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"github.com/campusboard/noticeboard/internal/config"
)

type Service interface {
	SendUrgentNotice(ctx context.Context, toEmail, recipientName, noticeTitle string) error
}

type service struct {
	client *resend.Client
	cfg    *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		cfg:    cfg,
	}
}

var urgentNoticeTmpl = template.Must(template.New("urgent").Parse(`
<h2>Urgent notice</h2>
<p>Hi {{.Name}},</p>
<p>An urgent notice has been posted to the board:</p>
<p><strong>{{.Title}}</strong></p>
<p>Log in to read the full notice and any attachments.</p>
`))

func (s *service) SendUrgentNotice(ctx context.Context, toEmail, recipientName, noticeTitle string) error {
	var body bytes.Buffer
	if err := urgentNoticeTmpl.Execute(&body, struct {
		Name  string
		Title string
	}{Name: recipientName, Title: noticeTitle}); err != nil {
		return fmt.Errorf("failed to render urgent notice email: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Notice Board <%s>", s.cfg.FromEmail),
		To:      []string{toEmail},
		Subject: "Urgent notice: " + noticeTitle,
		Html:    body.String(),
	}

	_, err := s.client.Emails.Send(params)
	return err
}
