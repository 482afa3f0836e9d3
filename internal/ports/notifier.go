package ports

// Notifier shows non-fatal, user-visible messages
type Notifier interface {
	Info(msg string)
	Error(msg string)
}
