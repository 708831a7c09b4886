package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/yethikrishna/y0-waitlist-builder/internal/common"
	"github.com/yethikrishna/y0-waitlist-builder/internal/metrics"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
	"github.com/yethikrishna/y0-waitlist-builder/internal/validation"
)

// ErrInvalidNotification is returned when any payload field fails
// validation. The caller responds generically; specifics go to the log.
var ErrInvalidNotification = errors.New("invalid notification payload")

// Template values are interpolated through html/template, so user-supplied
// strings are escaped before they reach the markup.
var adminEmailTmpl = template.Must(template.New("admin_signup").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; background-color: #0a0a0f; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #0a0a0f;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 600px; background: linear-gradient(135deg, #1a1a2e 0%, #16213e 100%); border-radius: 16px; overflow: hidden;">
          <tr>
            <td style="padding: 40px 40px 20px; text-align: center; border-bottom: 1px solid rgba(255,255,255,0.1);">
              <h1 style="margin: 0; color: #ffffff; font-size: 28px; font-weight: 700;">New Waitlist Signup!</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 40px;">
              <table role="presentation" width="100%" cellspacing="0" cellpadding="0">
                <tr>
                  <td width="48%" style="padding-right: 8px;">
                    <div style="background: rgba(99, 102, 241, 0.1); border: 1px solid rgba(99, 102, 241, 0.2); border-radius: 12px; padding: 20px; text-align: center;">
                      <div style="color: #a5b4fc; font-size: 12px; text-transform: uppercase; letter-spacing: 1px; margin-bottom: 8px;">Position</div>
                      <div style="color: #ffffff; font-size: 32px; font-weight: 700;">#{{.Position}}</div>
                    </div>
                  </td>
                  <td width="48%" style="padding-left: 8px;">
                    <div style="background: rgba(139, 92, 246, 0.1); border: 1px solid rgba(139, 92, 246, 0.2); border-radius: 12px; padding: 20px; text-align: center;">
                      <div style="color: #c4b5fd; font-size: 12px; text-transform: uppercase; letter-spacing: 1px; margin-bottom: 8px;">Total Signups</div>
                      <div style="color: #ffffff; font-size: 32px; font-weight: 700;">{{.TotalSignups}}</div>
                    </div>
                  </td>
                </tr>
              </table>
              <div style="margin-top: 24px; background: rgba(255,255,255,0.05); border-radius: 12px; padding: 24px;">
                <div style="color: #9ca3af; font-size: 12px; text-transform: uppercase; letter-spacing: 1px; margin-bottom: 8px;">Email Address</div>
                <div style="color: #ffffff; font-size: 18px; font-weight: 600; word-break: break-all;">{{.Email}}</div>
              </div>
              {{if .ReferredBy}}
              <div style="margin-top: 16px; background: rgba(34, 197, 94, 0.1); border: 1px solid rgba(34, 197, 94, 0.2); border-radius: 12px; padding: 20px;">
                <div style="color: #86efac; font-size: 12px; text-transform: uppercase; letter-spacing: 1px; margin-bottom: 4px;">Referred By</div>
                <div style="color: #ffffff; font-size: 14px; font-family: monospace;">{{.ReferredBy}}</div>
              </div>
              {{end}}
              <div style="margin-top: 24px; text-align: center; color: #6b7280; font-size: 13px;">
                Signed up on {{.SignedUpAt}}
              </div>
            </td>
          </tr>
          <tr>
            <td style="padding: 24px 40px; background: rgba(0,0,0,0.2); border-top: 1px solid rgba(255,255,255,0.05);">
              <div style="text-align: center; color: #6b7280; font-size: 12px;">Y0 Waitlist Admin Notification</div>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`))

type adminEmailData struct {
	Email        string
	Position     int
	TotalSignups int
	ReferredBy   string
	SignedUpAt   string
}

// NotificationService formats and sends the new-signup email to the admin.
type NotificationService struct {
	mailer     common.Mailer
	adminEmail string
	metricsReg *metrics.MetricsRegistry
}

func NewNotificationService(mailer common.Mailer, adminEmail string, metricsReg *metrics.MetricsRegistry) *NotificationService {
	return &NotificationService{
		mailer:     mailer,
		adminEmail: adminEmail,
		metricsReg: metricsReg,
	}
}

// RenderAdminEmail validates the payload and renders the HTML body.
func (svc *NotificationService) RenderAdminEmail(req dtos.NotifyRequest) (string, error) {
	if !validation.ValidEmail(req.Email) {
		return "", fmt.Errorf("%w: bad email", ErrInvalidNotification)
	}
	if !validation.ValidPosition(req.Position) {
		return "", fmt.Errorf("%w: bad position %d", ErrInvalidNotification, req.Position)
	}
	if req.ReferredBy != "" && !validation.ValidReferralCode(req.ReferredBy) {
		return "", fmt.Errorf("%w: bad referral code", ErrInvalidNotification)
	}

	var buf bytes.Buffer
	err := adminEmailTmpl.Execute(&buf, adminEmailData{
		Email:        req.Email,
		Position:     req.Position,
		TotalSignups: req.TotalSignups,
		ReferredBy:   req.ReferredBy,
		SignedUpAt:   time.Now().Format("Monday, January 2, 2006 15:04"),
	})
	if err != nil {
		return "", fmt.Errorf("render admin email: %w", err)
	}

	return buf.String(), nil
}

// Send renders the email and delivers it through the mail provider.
func (svc *NotificationService) Send(ctx context.Context, req dtos.NotifyRequest) error {
	html, err := svc.RenderAdminEmail(req)
	if err != nil {
		svc.countOutcome("invalid")
		return err
	}

	if svc.mailer == nil || svc.adminEmail == "" {
		svc.countOutcome("skipped")
		return errors.New("admin notification not configured")
	}

	subject := fmt.Sprintf("New Signup #%d: %s", req.Position, req.Email)
	if err := svc.mailer.Send(ctx, svc.adminEmail, subject, html); err != nil {
		svc.countOutcome("failed")
		return fmt.Errorf("send admin notification: %w", err)
	}

	svc.countOutcome("sent")
	return nil
}

func (svc *NotificationService) countOutcome(outcome string) {
	if svc.metricsReg != nil {
		svc.metricsReg.NotificationsTotal.WithLabelValues(outcome).Inc()
	}
}
