package constant

const (
	RoleClient  = "client"
	RoleManager = "manager"

	MessageKindMessage = "message"
	MessageKindFile    = "file"

	SectionChat     = "chat"
	SectionFiles    = "files"
	SectionProfile  = "profile"
	SectionSettings = "settings"

	CaseStatusNew         = "new"
	CaseStatusInProgress  = "in_progress"
	CaseStatusWaitingDocs = "waiting_docs"
	CaseStatusCompleted   = "completed"

	// PreviewMaxRunes caps thread previews and notification text.
	PreviewMaxRunes = 50

	FileMessageTextFormat = "Загружен файл: %s"
	BlobRefPrefix         = "blob:"
)

func IsValidRole(role string) bool {
	return role == RoleClient || role == RoleManager
}

func IsValidSection(section string) bool {
	switch section {
	case SectionChat, SectionFiles, SectionProfile, SectionSettings:
		return true
	}
	return false
}

func IsValidCaseStatus(status string) bool {
	switch status {
	case CaseStatusNew, CaseStatusInProgress, CaseStatusWaitingDocs, CaseStatusCompleted:
		return true
	}
	return false
}
