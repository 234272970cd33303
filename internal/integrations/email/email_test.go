package email

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeSendGrid struct {
	resp *rest.Response
	err  error
	sent *mail.SGMailV3
}

func (f *fakeSendGrid) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.sent = m
	return f.resp, f.err
}

type fakeSES struct {
	err   error
	input *sesv2.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

var testMessage = Message{
	To:      "asha@example.com",
	ToName:  "Asha",
	Subject: "Appointment Confirmed - CareClarity",
	HTML:    "<p>hi</p>",
}

func TestSendGridSender(t *testing.T) {
	tests := []struct {
		name    string
		fake    *fakeSendGrid
		wantErr error
	}{
		{name: "accepted", fake: &fakeSendGrid{resp: &rest.Response{StatusCode: 202}}},
		{name: "rejected", fake: &fakeSendGrid{resp: &rest.Response{StatusCode: 401, Body: "bad key"}}, wantErr: ErrRejected},
		{name: "network", fake: &fakeSendGrid{err: errors.New("timeout")}, wantErr: ErrSend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &SendGridSender{client: tt.fake, fromEmail: "noreply@careclarity.app", fromName: "CareClarity", log: nopLogger{}}

			err := s.Send(context.Background(), testMessage)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tt.fake.sent)
			assert.Equal(t, "Appointment Confirmed - CareClarity", tt.fake.sent.Subject)
			assert.Equal(t, "noreply@careclarity.app", tt.fake.sent.From.Address)
		})
	}
}

func TestSESSender(t *testing.T) {
	fake := &fakeSES{}
	s := &SESSender{client: fake, fromEmail: "noreply@careclarity.app", fromName: "CareClarity", log: nopLogger{}}

	require.NoError(t, s.Send(context.Background(), testMessage))
	assert.Equal(t, "CareClarity <noreply@careclarity.app>", aws.ToString(fake.input.FromEmailAddress))
	assert.Equal(t, []string{"asha@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "<p>hi</p>", aws.ToString(fake.input.Content.Simple.Body.Html.Data))
	assert.Nil(t, fake.input.Content.Simple.Body.Text)

	fake.err = errors.New("MessageRejected")
	assert.ErrorIs(t, s.Send(context.Background(), testMessage), ErrSend)
}

func TestSenders_RequireRecipient(t *testing.T) {
	senders := []Sender{
		NewLogSender(nopLogger{}),
		&SESSender{client: &fakeSES{}, log: nopLogger{}},
		&SendGridSender{client: &fakeSendGrid{}, log: nopLogger{}},
	}
	for _, s := range senders {
		assert.ErrorIs(t, s.Send(context.Background(), Message{Subject: "x"}), ErrNoRecipient)
	}
}
