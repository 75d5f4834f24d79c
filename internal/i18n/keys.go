// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"
	KeyInfo    = "info"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Profiles
	KeyProfileUpdated          = "profile.updated"
	KeyProfileNotFound         = "profile.not_found"
	KeyProfileSuspended        = "profile.suspended"
	KeyProfilePendingApproval  = "profile.pending_approval"
	KeyProfileUsernameCooldown = "profile.username_cooldown"

	// Kits
	KeyKitCreated  = "kit.created"
	KeyKitUpdated  = "kit.updated"
	KeyKitNotFound = "kit.not_found"

	// Submissions
	KeySubmissionReceived      = "submission.received"
	KeySubmissionApproved      = "submission.approved"
	KeySubmissionRejected      = "submission.rejected"
	KeySubmissionNotFound      = "submission.not_found"
	KeySubmissionQuotaExceeded = "submission.quota_exceeded"
	KeySubmissionAlreadyDone   = "submission.already_reviewed"

	// Collections
	KeyCollectionCreated   = "collection.created"
	KeyCollectionUpdated   = "collection.updated"
	KeyCollectionDeleted   = "collection.deleted"
	KeyCollectionNotFound  = "collection.not_found"
	KeyCollectionDuplicate = "collection.duplicate_member"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Search
	KeySearchNoResults    = "search.no_results"
	KeySearchResultsFound = "search.results_found"

	// Notifications
	KeyNotificationSent   = "notification.sent"
	KeyNotificationFailed = "notification.failed"
)
