package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func TestRenderTemplate(t *testing.T) {
	n := Notification{
		RecipientName: "Acme Trading LLC",
		Body:          "Dear [RecipientName], your [ServiceName] expires on [ExpiryDate].",
		Fields: map[string]string{
			"serviceName": "Web hosting",
			"expiryDate":  "2024-06-08",
			"amount":      "1200.50",
		},
	}

	out := renderTemplate(n.Body, n)

	assert.Contains(t, out, "Dear Acme Trading LLC, your Web hosting expires on 2024-06-08.")
	// detail lines follow in stable order
	assert.Contains(t, out, "amount: 1200.50\nexpiryDate: 2024-06-08\nserviceName: Web hosting\n")
	assert.NotContains(t, out, "[RecipientName]")
}

func TestRenderTemplateNoFields(t *testing.T) {
	out := renderTemplate("Hello [RecipientName]", Notification{RecipientName: "Jane"})
	assert.Contains(t, out, "Hello Jane")
}

type mockSESClient struct {
	input *ses.SendEmailInput
	err   error
}

func (m *mockSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

func TestSESNotifierSend(t *testing.T) {
	client := &mockSESClient{}
	notifier := &SESNotifier{client: client, from: "noreply@console.example"}

	err := notifier.Send(context.Background(), Notification{
		ToEmails:      []string{"ops@acme.example", "finance@acme.example"},
		RecipientName: "Acme Trading LLC",
		Subject:       "Expiry reminder",
		Body:          "Dear [RecipientName]",
	})
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "noreply@console.example", *client.input.Source)
	assert.Equal(t, []string{"ops@acme.example", "finance@acme.example"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Expiry reminder", *client.input.Message.Subject.Data)
	assert.Contains(t, *client.input.Message.Body.Text.Data, "Dear Acme Trading LLC")
}

func TestSESNotifierSendNoRecipients(t *testing.T) {
	notifier := &SESNotifier{client: &mockSESClient{}, from: "noreply@console.example"}

	err := notifier.Send(context.Background(), Notification{})
	assert.Error(t, err)
}

func TestSESNotifierSendProviderFailure(t *testing.T) {
	client := &mockSESClient{err: errors.New("MessageRejected")}
	notifier := &SESNotifier{client: client, from: "noreply@console.example"}

	err := notifier.Send(context.Background(), Notification{ToEmails: []string{"ops@acme.example"}})
	assert.ErrorContains(t, err, "MessageRejected")
}

type mockTwilioClient struct {
	params *twilioApi.CreateMessageParams
	sid    *string
	err    error
}

func (m *mockTwilioClient) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	m.params = params
	if m.err != nil {
		return nil, m.err
	}
	return &twilioApi.ApiV2010Message{Sid: m.sid}, nil
}

func TestTwilioNotifierSendSMS(t *testing.T) {
	sid := "SM123"
	client := &mockTwilioClient{sid: &sid}
	notifier := &TwilioNotifier{api: client, smsFrom: "5550100"}

	err := notifier.Send(context.Background(), Notification{
		ToPhone: "5550199",
		Subject: "Expiry reminder",
		Body:    "expires soon",
	})
	require.NoError(t, err)

	require.NotNil(t, client.params)
	assert.Equal(t, "5550199", *client.params.To)
	assert.Equal(t, "5550100", *client.params.From)
	assert.Contains(t, *client.params.Body, "Expiry reminder")
}

func TestTwilioNotifierPrefersWhatsAppForE164(t *testing.T) {
	sid := "SM123"
	client := &mockTwilioClient{sid: &sid}
	notifier := &TwilioNotifier{api: client, smsFrom: "5550100", whatsappFrom: "5550111"}

	err := notifier.Send(context.Background(), Notification{ToPhone: "+971501234567"})
	require.NoError(t, err)

	assert.Equal(t, "whatsapp:+971501234567", *client.params.To)
	assert.Equal(t, "whatsapp:5550111", *client.params.From)
}

func TestTwilioNotifierNoPhone(t *testing.T) {
	notifier := &TwilioNotifier{api: &mockTwilioClient{}}

	err := notifier.Send(context.Background(), Notification{})
	assert.Error(t, err)
}

func TestTwilioNotifierMissingSid(t *testing.T) {
	notifier := &TwilioNotifier{api: &mockTwilioClient{}, smsFrom: "5550100"}

	err := notifier.Send(context.Background(), Notification{ToPhone: "5550199"})
	assert.ErrorContains(t, err, "no message SID")
}
