// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kitvault/kitvault-backend/internal/config"
	"github.com/kitvault/kitvault-backend/internal/models"
)

// NotificationService records admin inbox entries and sends submitter
// emails. Every method tolerates a nil receiver so callers can fire
// notifications without caring whether the service is wired.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// NotifySubmissionReceived drops a review-queue entry into the admin inbox.
func (s *NotificationService) NotifySubmissionReceived(submission *models.Submission) error {
	if s == nil || s.db == nil {
		return nil
	}

	notification := &models.AdminNotification{
		Type:                "submission_received",
		Title:               "New Kit Submission",
		Message:             fmt.Sprintf("New submission '%s %s' is waiting for review", submission.TeamName, submission.Season),
		Priority:            "medium",
		RelatedResourceType: "submission",
		RelatedResourceID:   &submission.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).Warn("Failed to create submission notification")
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// NotifyBatchReceived summarizes a bulk submission as one inbox entry
// instead of one per row.
func (s *NotificationService) NotifyBatchReceived(submitterID uuid.UUID, count int) error {
	if s == nil || s.db == nil {
		return nil
	}

	notification := &models.AdminNotification{
		Type:                "batch_received",
		Title:               "Bulk Kit Submission",
		Message:             fmt.Sprintf("A batch of %d submissions is waiting for review", count),
		Priority:            "medium",
		RelatedResourceType: "profile",
		RelatedResourceID:   &submitterID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).Warn("Failed to create batch notification")
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *NotificationService) NotifySubmissionApproved(submission *models.Submission, jerseyID uuid.UUID) error {
	if s == nil || s.db == nil {
		return nil
	}

	var submitter models.Profile
	if err := s.db.First(&submitter, "id = ?", submission.SubmitterID).Error; err != nil {
		logrus.WithError(err).Warn("Approved-submission notification: submitter not found")
		return err
	}

	data := map[string]interface{}{
		"Username": submitter.Username,
		"TeamName": submission.TeamName,
		"Season":   submission.Season,
		"KitURL":   fmt.Sprintf("%s/kits/%s", s.config.Frontend.BaseURL, jerseyID),
	}

	subject := fmt.Sprintf("Submission Approved - %s %s", submission.TeamName, submission.Season)
	tmpl := s.getEmailTemplate("submission_approved")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(submitter.Email, subject, body)
}

func (s *NotificationService) NotifySubmissionRejected(submission *models.Submission, notes string) error {
	if s == nil || s.db == nil {
		return nil
	}

	var submitter models.Profile
	if err := s.db.First(&submitter, "id = ?", submission.SubmitterID).Error; err != nil {
		logrus.WithError(err).Warn("Rejected-submission notification: submitter not found")
		return err
	}

	data := map[string]interface{}{
		"Username": submitter.Username,
		"TeamName": submission.TeamName,
		"Season":   submission.Season,
		"Notes":    notes,
	}

	subject := fmt.Sprintf("Submission Rejected - %s %s", submission.TeamName, submission.Season)
	tmpl := s.getEmailTemplate("submission_rejected")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(submitter.Email, subject, body)
}

// NotifyProfileStatusChange emails the user after an admin approves or
// suspends their account.
func (s *NotificationService) NotifyProfileStatusChange(profile *models.Profile, oldStatus models.ApprovalStatus) error {
	if s == nil || s.db == nil {
		return nil
	}

	data := map[string]interface{}{
		"Username":  profile.Username,
		"NewStatus": profile.Status,
		"OldStatus": oldStatus,
	}

	subject := "Account Status Update"
	tmpl := s.getEmailTemplate("profile_status_change")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(profile.Email, subject, body)
}

func (s *NotificationService) SendWelcomeEmail(profile *models.Profile, verificationToken string) error {
	if s == nil {
		return nil
	}

	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":        profile.Username,
		"VerificationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, verificationToken),
		"PlatformName":    "KitVault",
	}

	subject := "Welcome to KitVault"
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(profile.Email, subject, body)
}

// MarkNotificationRead flips an inbox entry to read.
func (s *NotificationService) MarkNotificationRead(notificationID uuid.UUID) error {
	if s == nil || s.db == nil {
		return nil
	}

	result := s.db.Model(&models.AdminNotification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{
			"status":  "read",
			"read_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) ListUnread(limit int) ([]models.AdminNotification, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var notifications []models.AdminNotification
	err := s.db.Where("status = ?", "unread").
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config == nil || s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to KitVault",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Thank you for joining KitVault. Please verify your email address by clicking the link below:</p>
	<a href="{{.VerificationURL}}">Verify Email</a>
	<p>Best regards,<br>{{.PlatformName}} Team</p>
</body>
</html>`,
		},
		"submission_approved": {
			Subject: "Submission Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Your kit is live!</h2>
	<p>Hello {{.Username}},</p>
	<p>Your submission "{{.TeamName}} {{.Season}}" has been approved and added to the catalog.</p>
	<a href="{{.KitURL}}">View Kit</a>
	<p>Best regards,<br>KitVault Team</p>
</body>
</html>`,
		},
		"submission_rejected": {
			Subject: "Submission Rejected",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Submission not accepted</h2>
	<p>Hello {{.Username}},</p>
	<p>Your submission "{{.TeamName}} {{.Season}}" was not accepted.</p>
	{{if .Notes}}<p>Reviewer notes: {{.Notes}}</p>{{end}}
	<p>You are welcome to submit again with corrected details.</p>
	<p>Best regards,<br>KitVault Team</p>
</body>
</html>`,
		},
		"profile_status_change": {
			Subject: "Account Status Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Account status update</h2>
	<p>Hello {{.Username}},</p>
	<p>Your account status changed from {{.OldStatus}} to {{.NewStatus}}.</p>
	<p>Best regards,<br>KitVault Team</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
