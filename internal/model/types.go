package model

// Severity classifies a log line.
type Severity string

const (
	SevDebug    Severity = "DEBUG"
	SevInfo     Severity = "INFO"
	SevCmd      Severity = "CMD"
	SevWarn     Severity = "WARN"
	SevError    Severity = "ERROR"
	SevSecurity Severity = "SECURITY"
	SevFatal    Severity = "FATAL"
	SevSystem   Severity = "SYSTEM"
)

// Clearance names which mandate rule set applies to a requested operation.
type Clearance string

const (
	ClearanceStandard    Clearance = "STANDARD"
	ClearanceFilesystem  Clearance = "FILESYSTEM"
	ClearanceProcessExec Clearance = "PROCESS_EXEC"
	ClearanceSystemInfo  Clearance = "SYSTEM_INFO"
)

// Category identifies the review entity a forwarding event is routed to.
type Category string

const (
	CatBoot              Category = "BOOT"
	CatAuth              Category = "AUTH"
	CatCmdIntent         Category = "CMD_INTENT"
	CatCmdExec           Category = "CMD_EXEC"
	CatFSAccess          Category = "FS_ACCESS"
	CatProcLaunch        Category = "PROC_LAUNCH"
	CatStatusQuery       Category = "STATUS_QUERY"
	CatShutdown          Category = "SHUTDOWN"
	CatCompliance        Category = "COMPLIANCE"
	CatArbitraryLockout  Category = "ARBITRARY_LOCKOUT"
	CatReAuth            Category = "RE_AUTH"
	CatPurposeValidation Category = "PURPOSE_VALIDATION"
	CatSecurityIncident  Category = "SECURITY_INCIDENT"
)

// MandateResult is the outcome of one operational mandate evaluation.
// Produced fresh per evaluation; callers must not cache it, since two identical
// requests may legitimately yield different results.
type MandateResult struct {
	Allowed    bool
	ReasonCode string
	Reason     string
}

// Mandate reason codes, one per denial rule.
const (
	ReasonFSPrimeMinute   = "FS_PRIME_MINUTE"
	ReasonBacklogLock     = "AUDIT_BACKLOG_LOCK"
	ReasonSpotCheckFailed = "SPOT_CHECK_FAIL"
)
