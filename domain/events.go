package domain

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Verification events
	SignupEvent       AuditEventType = "ACCOUNT_SIGNUP"
	CodeSentEvent     AuditEventType = "CODE_SENT"
	CodeResentEvent   AuditEventType = "CODE_RESENT"
	VerifiedEvent     AuditEventType = "ACCOUNT_VERIFIED"
	VerifyFailedEvent AuditEventType = "ACCOUNT_VERIFY_FAILED"

	// Session events
	LoginEvent        AuditEventType = "USER_LOGIN"
	LoginFailedEvent  AuditEventType = "USER_LOGIN_FAILED"
	RefreshEvent      AuditEventType = "TOKEN_REFRESHED"
	LogoutEvent       AuditEventType = "USER_LOGOUT"
	AccountSweptEvent AuditEventType = "UNVERIFIED_ACCOUNT_SWEPT"
)
