package constants

// User-facing messages. Internal error detail stays in the logs.
const (
	MsgInvalidEmail        = "Please enter a valid email address"
	MsgInvalidReferralCode = "Invalid referral code format"
	MsgAlreadyOnWaitlist   = "You're already on the waitlist!"
	MsgSignupFailed        = "Failed to join waitlist. Please try again."
	MsgProcessingFailed    = "Failed to process signup. Please try again."
	MsgUnexpectedError     = "An unexpected error occurred. Please try again."

	MsgUnauthorized    = "Unauthorized"
	MsgForbiddenAdmin  = "Forbidden - Admin access required"
	MsgVerifyFailed    = "Failed to verify permissions"
	MsgFetchFailed     = "Failed to fetch signups"
	MsgInternalError   = "Internal server error"
	MsgNotificationErr = "Failed to send notification"
)
