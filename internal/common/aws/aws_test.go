package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSES struct {
	input *ses.SendEmailInput
	err   error
}

func (s *stubSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	s.input = params
	if s.err != nil {
		return nil, s.err
	}
	return &ses.SendEmailOutput{MessageId: awssdk.String("ses-1")}, nil
}

type stubSNS struct {
	input *sns.PublishInput
}

func (s *stubSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	s.input = params
	return &sns.PublishOutput{MessageId: awssdk.String("sns-1")}, nil
}

func TestSendText(t *testing.T) {
	api := &stubSES{}
	client := NewSESClientWithAPI(api)

	id, err := client.SendText(context.Background(), "site@example.com", []string{"sales@example.com"}, "New lead", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, "site@example.com", awssdk.ToString(api.input.Source))
	assert.Equal(t, []string{"sales@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "New lead", awssdk.ToString(api.input.Message.Subject.Data))
	assert.Equal(t, "hello", awssdk.ToString(api.input.Message.Body.Text.Data))
}

func TestSendText_Errors(t *testing.T) {
	client := NewSESClientWithAPI(&stubSES{err: errors.New("throttled")})

	_, err := client.SendText(context.Background(), "a@b.co", nil, "s", "b")
	assert.EqualError(t, err, "no recipients")

	_, err = client.SendText(context.Background(), "a@b.co", []string{"c@d.co"}, "s", "b")
	assert.EqualError(t, err, "throttled")
}

func TestPublishEvent(t *testing.T) {
	api := &stubSNS{}
	client := NewSNSClientWithAPI(api)

	id, err := client.PublishEvent(context.Background(), "arn:aws:sns:us-east-1:1:leads", "lead.registered", map[string]string{"email": "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "sns-1", id)
	assert.Equal(t, "arn:aws:sns:us-east-1:1:leads", awssdk.ToString(api.input.TopicArn))
	assert.Equal(t, "lead.registered", awssdk.ToString(api.input.MessageAttributes["eventType"].StringValue))

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(awssdk.ToString(api.input.Message)), &body))
	assert.Equal(t, "a@b.co", body["email"])
}
