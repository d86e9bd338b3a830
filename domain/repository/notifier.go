package repository

// Notification severities.
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// INotifier is the sink for user-visible success/failure events.
type INotifier interface {
	Notify(message, severity string)
}
