// services/notifier.go
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notification is the structured payload handed to a dispatcher. Subject and
// Body are the operator's template; rendering belongs to the notifier.
type Notification struct {
	ToEmails      []string
	ToPhone       string
	RecipientName string
	Subject       string
	Body          string
	Fields        map[string]string
}

// Notifier transmits one notification; a nil error means delivered to the
// provider.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// renderTemplate substitutes [Placeholder] tokens and appends the per-item
// display fields as detail lines.
func renderTemplate(tmpl string, n Notification) string {
	out := strings.ReplaceAll(tmpl, "[RecipientName]", n.RecipientName)
	for key, val := range n.Fields {
		token := "[" + strings.ToUpper(key[:1]) + key[1:] + "]"
		out = strings.ReplaceAll(out, token, val)
	}

	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(out)
	b.WriteString("\n\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("%s: %s\n", k, n.Fields[k]))
	}
	return b.String()
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier delivers reminders over AWS SES.
type SESNotifier struct {
	client sesAPI
	from   string
}

func NewSESNotifier(ctx context.Context) (*SESNotifier, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	from := os.Getenv("REMINDER_FROM_EMAIL")
	if from == "" {
		return nil, errors.New("REMINDER_FROM_EMAIL not set")
	}
	return &SESNotifier{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (s *SESNotifier) Send(ctx context.Context, n Notification) error {
	if len(n.ToEmails) == 0 {
		return errors.New("no recipient email")
	}

	body := renderTemplate(n.Body, n)

	input := &ses.SendEmailInput{
		Source: &s.from,
		Destination: &types.Destination{
			ToAddresses: n.ToEmails,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: &n.Subject},
			Body: &types.Body{
				Text: &types.Content{Data: &body},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}

type twilioMessageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioNotifier delivers reminders as SMS, or WhatsApp when the phone is in
// E.164 format, the way the rest of the console messages customers.
type TwilioNotifier struct {
	api          twilioMessageAPI
	smsFrom      string
	whatsappFrom string
}

func NewTwilioNotifier() *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: os.Getenv("TWILIO_ACCOUNT_SID"),
		Password: os.Getenv("TWILIO_AUTH_TOKEN"),
	})
	return &TwilioNotifier{
		api:          client.Api,
		smsFrom:      os.Getenv("TWILIO_PHONE_NUMBER"),
		whatsappFrom: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
	}
}

func (t *TwilioNotifier) Send(ctx context.Context, n Notification) error {
	if n.ToPhone == "" {
		return errors.New("no recipient phone")
	}

	body := n.Subject + "\n\n" + renderTemplate(n.Body, n)

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)

	// WhatsApp when the phone is E.164, SMS otherwise
	if strings.HasPrefix(n.ToPhone, "+") && t.whatsappFrom != "" {
		params.SetTo("whatsapp:" + n.ToPhone)
		params.SetFrom("whatsapp:" + t.whatsappFrom)
	} else {
		params.SetTo(n.ToPhone)
		params.SetFrom(t.smsFrom)
	}

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid == nil {
		return errors.New("twilio returned no message SID")
	}
	return nil
}
