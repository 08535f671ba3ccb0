// Package notify sends best-effort email notifications for parcel events.
// Failures are logged and swallowed; a notification must never fail an
// otherwise-successful business operation.
package notify

import (
	"context"
	"fmt"
	"log"

	"fasttrack-courier/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// ServiceInterface defines the notification contract consumed by the business
// modules.
type ServiceInterface interface {
	ParcelCreated(ctx context.Context, toEmail string, parcel *models.Parcel)
	ParcelStatusChanged(ctx context.Context, toEmail string, parcel *models.Parcel, oldStatus, notes string)
}

// emailClient is the slice of the SES v2 API the service uses.
type emailClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Service sends notification emails through Amazon SES.
type Service struct {
	client      emailClient
	sender      string
	frontendURL string
	enabled     bool
}

// NewService builds the notifier. With enabled false it degrades to a no-op
// that logs what it would have sent, matching local development without SES
// credentials.
func NewService(ctx context.Context, region, sender, frontendURL string, enabled bool) (*Service, error) {
	s := &Service{sender: sender, frontendURL: frontendURL, enabled: enabled}
	if !enabled {
		return s, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("notify: load aws config: %w", err)
	}
	s.client = sesv2.NewFromConfig(awsCfg)
	return s, nil
}

// ParcelCreated notifies the merchant that a parcel was registered and shares
// the tracking link.
func (s *Service) ParcelCreated(ctx context.Context, toEmail string, parcel *models.Parcel) {
	subject := fmt.Sprintf("Parcel Created: %s", parcel.TrackingID)
	html := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
		  <h2>Your parcel has been created</h2>
		  <p>Tracking ID: <strong>%s</strong></p>
		  <p>Recipient: %s</p>
		  <p>You can follow its progress at <a href="%s/tracking/%s">%s/tracking/%s</a>.</p>
		</div>`,
		parcel.TrackingID, parcel.RecipientName,
		s.frontendURL, parcel.TrackingID, s.frontendURL, parcel.TrackingID)
	text := fmt.Sprintf("Your parcel %s has been created. Track it at %s/tracking/%s",
		parcel.TrackingID, s.frontendURL, parcel.TrackingID)
	s.send(ctx, toEmail, subject, html, text)
}

// ParcelStatusChanged notifies the merchant that a parcel moved to a new
// status, rendered with the status display table.
func (s *Service) ParcelStatusChanged(ctx context.Context, toEmail string, parcel *models.Parcel, oldStatus, notes string) {
	display := DisplayFor(parcel.Status)
	subject := fmt.Sprintf("Parcel Status Update: %s - %s", parcel.TrackingID, display.Label)
	notesBlock := ""
	if notes != "" {
		notesBlock = fmt.Sprintf("<p><em>Notes: %s</em></p>", notes)
	}
	html := fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
		  <h2 style="color:%s">%s %s</h2>
		  <p>%s</p>
		  <p>Tracking ID: <strong>%s</strong></p>
		  <p>Previous status: %s</p>
		  %s
		  <p>Track it at <a href="%s/tracking/%s">%s/tracking/%s</a>.</p>
		</div>`,
		display.Color, display.Icon, display.Label,
		display.Description, parcel.TrackingID, DisplayFor(oldStatus).Label, notesBlock,
		s.frontendURL, parcel.TrackingID, s.frontendURL, parcel.TrackingID)
	text := fmt.Sprintf("Parcel %s is now %s (was %s). %s",
		parcel.TrackingID, display.Label, DisplayFor(oldStatus).Label, display.Description)
	s.send(ctx, toEmail, subject, html, text)
}

func (s *Service) send(ctx context.Context, toEmail, subject, html, text string) {
	if toEmail == "" {
		return
	}
	if !s.enabled || s.client == nil {
		log.Printf("notify: email disabled, would have sent to %s: %s", toEmail, subject)
		return
	}
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("FastTrack Courier <%s>", s.sender)),
		Destination:      &types.Destination{ToAddresses: []string{toEmail}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(html)},
					Text: &types.Content{Data: aws.String(text)},
				},
			},
		},
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		log.Printf("notify: failed to send email to %s: %v", toEmail, err)
	}
}
