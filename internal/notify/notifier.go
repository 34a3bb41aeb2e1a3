// Package notify sends run-completion notices to the sales operator over
// email and, optionally, an SNS topic.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
	gomail "gopkg.in/mail.v2"

	"leadgen/internal/common/config"
	"leadgen/internal/common/errors"
	"leadgen/internal/common/logger"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier delivers run-completion notices per the notify configuration.
type Notifier struct {
	config    *config.NotifyConfig
	sesClient SESService
	snsClient SNSService
	logger    logger.Logger
}

func NewNotifier(ctx context.Context, cfg *config.NotifyConfig, log logger.Logger) (*Notifier, error) {
	n := &Notifier{
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"service": "notify"}),
	}

	if !cfg.Enabled {
		return n, nil
	}

	if cfg.Email.Transport == TransportSES || cfg.SMS.TopicARN != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		n.sesClient = ses.NewFromConfig(awsCfg)
		n.snsClient = sns.NewFromConfig(awsCfg)
	}

	return n, nil
}

// NotifyRunComplete sends the run summary to the configured operator. A send
// failure is returned as a non-fatal error, the run itself already succeeded.
func (n *Notifier) NotifyRunComplete(ctx context.Context, result RunResult) (*NotifyOutput, error) {
	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	if !n.config.Enabled {
		return &NotifyOutput{NotificationID: notificationID, Status: StatusDisabled, SentAt: sentAt}, nil
	}

	data := map[string]interface{}{
		"runId":       result.RunID,
		"leadCount":   result.LeadCount,
		"savedTo":     result.SavedTo,
		"sizeRange":   result.Criteria.SizeRange,
		"industry":    result.Criteria.Industry,
		"location":    result.Criteria.Location,
		"completedAt": result.CompletedAt.UTC().Format(time.RFC3339),
	}

	subject := renderTemplate(runCompleteTemplate["subject"], data)
	body := renderTemplate(runCompleteTemplate["body"], data)

	if err := n.sendEmail(ctx, subject, body); err != nil {
		n.logger.Error("Notification email failed", map[string]interface{}{
			"transport": n.config.Email.Transport,
			"error":     err.Error(),
		})
		return &NotifyOutput{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt},
			errors.NewNotifySendFailedError(n.config.Email.Transport, err)
	}

	if n.config.SMS.TopicARN != "" {
		summary := renderTemplate(runCompleteTemplate["sms"], data)
		if err := n.publishSummary(ctx, summary); err != nil {
			n.logger.Error("Notification publish failed", map[string]interface{}{
				"topic": n.config.SMS.TopicARN,
				"error": err.Error(),
			})
			return &NotifyOutput{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt},
				errors.NewNotifySendFailedError("sns", err)
		}
	}

	n.logger.Info("Run notification sent", map[string]interface{}{
		"notificationId": notificationID,
		"transport":      n.config.Email.Transport,
	})
	return &NotifyOutput{NotificationID: notificationID, Status: StatusSent, SentAt: sentAt}, nil
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body string) error {
	switch n.config.Email.Transport {
	case TransportSES:
		return n.sendEmailSES(ctx, subject, body)
	case TransportSMTP:
		return n.sendEmailSMTP(subject, body)
	default:
		return fmt.Errorf("unknown email transport: %s", n.config.Email.Transport)
	}
}

func (n *Notifier) sendEmailSES(ctx context.Context, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.config.Email.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.Email.FromEmail),
	})
	return err
}

func (n *Notifier) sendEmailSMTP(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.config.Email.FromEmail)
	m.SetHeader("To", n.config.Email.ToEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	dialer := gomail.NewDialer(n.config.SMTP.Host, n.config.SMTP.Port, n.config.SMTP.Username, n.config.SMTP.Password)
	dialer.Timeout = 10 * time.Second

	return dialer.DialAndSend(m)
}

func (n *Notifier) publishSummary(ctx context.Context, summary string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.SMS.TopicARN),
		Message:  aws.String(summary),
	})
	return err
}

// Simplified template rendering with placeholder removal for missing values
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	// First, replace all known placeholders
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Remove any remaining placeholders (missing values)
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
