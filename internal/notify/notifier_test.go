// internal/notify/notifier_test.go
package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgen/internal/common/config"
	"leadgen/internal/common/logger"
	"leadgen/internal/models"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *config.NotifyConfig {
	cfg := &config.NotifyConfig{Enabled: true}
	cfg.Email.Transport = TransportSES
	cfg.Email.FromEmail = "noreply@newtechcomputers.com"
	cfg.Email.ToEmail = "jay@newtechcomputers.com"
	cfg.AWS.Region = "us-east-1"
	return cfg
}

func createTestNotifier(t *testing.T, cfg *config.NotifyConfig, sesClient SESService, snsClient SNSService) *Notifier {
	return &Notifier{
		config:    cfg,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    logger.NewTestLogger(t),
	}
}

func testRunResult() RunResult {
	return RunResult{
		RunID:     "run-001",
		LeadCount: 7,
		SavedTo:   "Google Sheets + Local Backup",
		Criteria: models.SearchCriteria{
			SizeRange: "201-500",
			Industry:  "hardware",
			Location:  "india",
		},
		CompletedAt: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
	}
}

// ==========================
// Notification Tests
// ==========================

func TestNotifier_NotifyRunComplete_Disabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.Enabled = false

	sesCalled := false
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			sesCalled = true
			return &ses.SendEmailOutput{}, nil
		},
	}

	notifier := createTestNotifier(t, cfg, mockSES, nil)
	output, err := notifier.NotifyRunComplete(context.Background(), testRunResult())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.False(t, sesCalled)
}

func TestNotifier_NotifyRunComplete_SESSuccess(t *testing.T) {
	var sentInput *ses.SendEmailInput
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			sentInput = params
			return &ses.SendEmailOutput{}, nil
		},
	}

	notifier := createTestNotifier(t, createTestConfig(), mockSES, nil)
	output, err := notifier.NotifyRunComplete(context.Background(), testRunResult())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.NotEmpty(t, output.NotificationID)

	require.NotNil(t, sentInput)
	assert.Equal(t, "noreply@newtechcomputers.com", *sentInput.Source)
	assert.Equal(t, []string{"jay@newtechcomputers.com"}, sentInput.Destination.ToAddresses)
	assert.Equal(t, "Lead generation run run-001 complete", *sentInput.Message.Subject.Data)
	assert.Contains(t, *sentInput.Message.Body.Text.Data, "Leads generated: 7")
	assert.Contains(t, *sentInput.Message.Body.Text.Data, "201-500 employees, hardware, india")
	assert.Contains(t, *sentInput.Message.Body.Text.Data, "Saved to: Google Sheets + Local Backup")
}

func TestNotifier_NotifyRunComplete_WithSNSPublish(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return &ses.SendEmailOutput{}, nil
		},
	}

	var published *sns.PublishInput
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			published = params
			return &sns.PublishOutput{}, nil
		},
	}

	cfg := createTestConfig()
	cfg.SMS.TopicARN = "arn:aws:sns:us-east-1:123456789012:leadgen-runs"

	notifier := createTestNotifier(t, cfg, mockSES, mockSNS)
	output, err := notifier.NotifyRunComplete(context.Background(), testRunResult())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)

	require.NotNil(t, published)
	assert.Equal(t, cfg.SMS.TopicARN, *published.TopicArn)
	assert.Equal(t, "Lead generation complete: 7 leads saved to Google Sheets + Local Backup", *published.Message)
}

func TestNotifier_NotifyRunComplete_EmailFailure(t *testing.T) {
	mockSES := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, fmt.Errorf("ses unavailable")
		},
	}

	notifier := createTestNotifier(t, createTestConfig(), mockSES, nil)
	output, err := notifier.NotifyRunComplete(context.Background(), testRunResult())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFY_SEND_FAILED")
	assert.Equal(t, StatusFailed, output.Status)
}

func TestNotifier_NotifyRunComplete_UnknownTransport(t *testing.T) {
	cfg := createTestConfig()
	cfg.Email.Transport = "carrier-pigeon"

	notifier := createTestNotifier(t, cfg, nil, nil)
	output, err := notifier.NotifyRunComplete(context.Background(), testRunResult())

	require.Error(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

// ==========================
// Template Rendering Tests
// ==========================

func TestRenderTemplate(t *testing.T) {
	data := map[string]interface{}{
		"leadCount": 3,
		"savedTo":   "data/output/leads.json",
	}

	rendered := renderTemplate("{{leadCount}} leads in {{savedTo}}{{missing}}", data)
	assert.Equal(t, "3 leads in data/output/leads.json", rendered)
}
