package store

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"bizchat-be/internal/constant"
	"bizchat-be/internal/entity"

	"github.com/google/uuid"
)

// PresenceSource decides a thread's online flag on every presence tick.
type PresenceSource interface {
	Online(threadId uuid.UUID) bool
}

// Options tune a Session. Zero values pick wall-clock time and random UUIDs.
type Options struct {
	Variant constant.Variant
	Now     func() time.Time
	NewID   func() uuid.UUID
}

// Session represents one user's chat state in memory. It is the only owner
// of its threads, messages and files; callers get copies.
type Session struct {
	mu sync.RWMutex

	id        uuid.UUID
	variant   constant.Variant
	now       func() time.Time
	newID     func() uuid.UUID
	createdAt time.Time

	user     *entity.ChatUser
	threads  []*entity.ChatThread
	messages map[uuid.UUID][]*entity.ChatMessage
	files    map[uuid.UUID][]*entity.UploadedFile

	currentThreadId uuid.UUID // uuid.Nil when nothing is selected
	section         string
}

// Appended describes what a send or upload added to the current thread.
type Appended struct {
	Thread       entity.ChatThread
	Message      entity.ChatMessage
	File         *entity.UploadedFile
	Notification *entity.ChatNotification
}

// FileUpload is the metadata of a file handed to UploadFile.
type FileUpload struct {
	Name        string
	SizeBytes   int64
	ContentType string
	BlobRef     string
}

func NewSession(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.New
	}
	if opts.Variant.Code == "" {
		opts.Variant = constant.LookupVariant(constant.VariantBizChat)
	}

	return &Session{
		id:        opts.NewID(),
		variant:   opts.Variant,
		now:       opts.Now,
		newID:     opts.NewID,
		createdAt: opts.Now(),
		messages:  make(map[uuid.UUID][]*entity.ChatMessage),
		files:     make(map[uuid.UUID][]*entity.UploadedFile),
		section:   constant.SectionChat,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Variant() constant.Variant {
	return s.variant
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Register authenticates the session once. Blank name parts, an unknown role
// or an already registered session leave the state untouched.
func (s *Session) Register(role, firstName, lastName, middleName string) bool {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	middleName = strings.TrimSpace(middleName)
	if firstName == "" || lastName == "" || middleName == "" || !constant.IsValidRole(role) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		return false
	}

	now := s.now()
	s.user = &entity.ChatUser{
		Id:           s.newID(),
		FirstName:    firstName,
		LastName:     lastName,
		MiddleName:   middleName,
		Role:         role,
		RegisteredAt: now,
	}

	if role == constant.RoleClient {
		thread := &entity.ChatThread{
			Id:          s.newID(),
			ClientName:  s.user.DisplayName(),
			ManagerName: s.variant.DutyManager,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if s.variant.CaseStatusEnabled {
			thread.CaseStatus = constant.CaseStatusNew
		}
		s.threads = append(s.threads, thread)
	} else {
		s.seedDemoThreads(now)
	}

	if len(s.threads) > 0 {
		s.currentThreadId = s.threads[0].Id
	}
	return true
}

func (s *Session) seedDemoThreads(now time.Time) {
	for _, demo := range s.variant.DemoThreads {
		thread := &entity.ChatThread{
			Id:          s.newID(),
			ClientName:  demo.ClientName,
			ManagerName: s.user.DisplayName(),
			Unread:      demo.Unread,
			LastMessage: truncatePreview(demo.LastMessage),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if s.variant.CaseStatusEnabled {
			thread.CaseStatus = demo.CaseStatus
		}
		s.threads = append(s.threads, thread)

		if demo.LastMessage != "" {
			s.messages[thread.Id] = append(s.messages[thread.Id], &entity.ChatMessage{
				Id:        s.newID(),
				ThreadId:  thread.Id,
				Author:    demo.ClientName,
				Text:      demo.LastMessage,
				Kind:      constant.MessageKindMessage,
				CreatedAt: now,
			})
		}
	}
}

// SelectThread makes id current and clears its unread counter. An unknown id
// leaves no thread selected.
func (s *Session) SelectThread(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread := s.findThread(id)
	if thread == nil {
		s.currentThreadId = uuid.Nil
		return false
	}
	s.currentThreadId = thread.Id
	thread.Unread = 0
	return true
}

// SendMessage appends a text message to the current thread. Blank text or no
// current thread is a no-op and returns nil.
func (s *Session) SendMessage(text string) *Appended {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	thread := s.currentThread()
	if thread == nil || s.user == nil {
		return nil
	}

	msg := &entity.ChatMessage{
		Id:        s.newID(),
		ThreadId:  thread.Id,
		Author:    s.user.DisplayName(),
		Text:      text,
		Kind:      constant.MessageKindMessage,
		CreatedAt: s.now(),
	}
	return s.appendMessage(thread, msg, nil)
}

// UploadFile records the file and a file-kind message in the current thread.
// Size and type are not validated.
func (s *Session) UploadFile(upload FileUpload) *Appended {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread := s.currentThread()
	if thread == nil || s.user == nil {
		return nil
	}

	now := s.now()
	file := &entity.UploadedFile{
		Id:          s.newID(),
		ThreadId:    thread.Id,
		Name:        upload.Name,
		SizeBytes:   upload.SizeBytes,
		ContentType: upload.ContentType,
		UploadedBy:  s.user.DisplayName(),
		UploadedAt:  now,
		BlobRef:     upload.BlobRef,
	}
	s.files[thread.Id] = append(s.files[thread.Id], file)

	fileId := file.Id
	msg := &entity.ChatMessage{
		Id:        s.newID(),
		ThreadId:  thread.Id,
		Author:    s.user.DisplayName(),
		Text:      fmt.Sprintf(constant.FileMessageTextFormat, upload.Name),
		Kind:      constant.MessageKindFile,
		FileId:    &fileId,
		FileName:  upload.Name,
		CreatedAt: now,
	}
	return s.appendMessage(thread, msg, file)
}

// appendMessage must be called with s.mu held.
func (s *Session) appendMessage(thread *entity.ChatThread, msg *entity.ChatMessage, file *entity.UploadedFile) *Appended {
	s.messages[thread.Id] = append(s.messages[thread.Id], msg)

	preview := truncatePreview(msg.Text)
	thread.LastMessage = preview
	thread.UpdatedAt = msg.CreatedAt

	result := &Appended{Message: *msg}
	if file != nil {
		f := *file
		result.File = &f
	}

	// Uploads always toast with the file name; messages only outside chat.
	// Unread only grows while the chat section is not open.
	outsideChat := s.section != constant.SectionChat
	if outsideChat {
		thread.Unread++
	}
	switch {
	case file != nil:
		result.Notification = &entity.ChatNotification{
			ThreadId:  thread.Id,
			Title:     "Файл загружен",
			Preview:   file.Name,
			CreatedAt: msg.CreatedAt,
		}
	case outsideChat:
		result.Notification = &entity.ChatNotification{
			ThreadId:  thread.Id,
			Title:     "Новое сообщение",
			Preview:   preview,
			CreatedAt: msg.CreatedAt,
		}
	}

	result.Thread = *thread
	return result
}

// TickPresence replaces every thread's online flag and returns the new flags.
func (s *Session) TickPresence(source PresenceSource) map[uuid.UUID]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags := make(map[uuid.UUID]bool, len(s.threads))
	for _, thread := range s.threads {
		thread.Online = source.Online(thread.Id)
		flags[thread.Id] = thread.Online
	}
	return flags
}

// SetSection switches the UI section; unknown sections are ignored.
func (s *Session) SetSection(section string) bool {
	if !constant.IsValidSection(section) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.section = section
	return true
}

// SetCaseStatus is available to managers of variants that track cases.
func (s *Session) SetCaseStatus(threadId uuid.UUID, status string) (entity.ChatThread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.variant.CaseStatusEnabled || !constant.IsValidCaseStatus(status) {
		return entity.ChatThread{}, false
	}
	if s.user == nil || s.user.Role != constant.RoleManager {
		return entity.ChatThread{}, false
	}

	thread := s.findThread(threadId)
	if thread == nil {
		return entity.ChatThread{}, false
	}
	thread.CaseStatus = status
	thread.UpdatedAt = s.now()
	return *thread, true
}

func (s *Session) Thread(id uuid.UUID) (entity.ChatThread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if thread := s.findThread(id); thread != nil {
		return *thread, true
	}
	return entity.ChatThread{}, false
}

func (s *Session) Messages(threadId uuid.UUID) []entity.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMessages(s.messages[threadId])
}

func (s *Session) Files(threadId uuid.UUID) []entity.UploadedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyFiles(s.files[threadId])
}

// File looks a file up across all threads.
func (s *Session) File(id uuid.UUID) (entity.UploadedFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, files := range s.files {
		for _, f := range files {
			if f.Id == id {
				return *f, true
			}
		}
	}
	return entity.UploadedFile{}, false
}

// BlobRefs lists every blob the session owns so teardown can release them.
func (s *Session) BlobRefs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make([]string, 0)
	for _, files := range s.files {
		for _, f := range files {
			refs = append(refs, f.BlobRef)
		}
	}
	return refs
}

func (s *Session) findThread(id uuid.UUID) *entity.ChatThread {
	if id == uuid.Nil {
		return nil
	}
	for _, thread := range s.threads {
		if thread.Id == id {
			return thread
		}
	}
	return nil
}

func (s *Session) currentThread() *entity.ChatThread {
	return s.findThread(s.currentThreadId)
}

func truncatePreview(text string) string {
	if utf8.RuneCountInString(text) <= constant.PreviewMaxRunes {
		return text
	}
	return string([]rune(text)[:constant.PreviewMaxRunes])
}

func copyMessages(src []*entity.ChatMessage) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, len(src))
	for _, m := range src {
		out = append(out, *m)
	}
	return out
}

func copyFiles(src []*entity.UploadedFile) []entity.UploadedFile {
	out := make([]entity.UploadedFile, 0, len(src))
	for _, f := range src {
		out = append(out, *f)
	}
	return out
}
