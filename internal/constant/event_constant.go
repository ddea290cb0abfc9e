package constant

// Chat event codes. Mirrored to NATS as events.<CODE>.
const (
	EventSessionRegistered = "CHAT_SESSION_REGISTERED"
	EventMessageSent       = "CHAT_MESSAGE_SENT"
	EventFileUploaded      = "CHAT_FILE_UPLOADED"
	EventThreadSelected    = "CHAT_THREAD_SELECTED"
	EventPresenceChanged   = "CHAT_PRESENCE_CHANGED"
	EventNotification      = "CHAT_NOTIFICATION"
	EventCaseStatusChanged = "CHAT_CASE_STATUS_CHANGED"
	EventSessionClosed     = "CHAT_SESSION_CLOSED"
)
