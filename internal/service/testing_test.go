package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"leadpilot/internal/models"
	"leadpilot/internal/queue"
)

// Assert helpers

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
}

func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("Expected %v but got %v", want, got)
	}
}

func AssertTrue(t *testing.T, got bool, msg string) {
	t.Helper()
	if !got {
		t.Errorf("Expected true: %s", msg)
	}
}

func AssertFalse(t *testing.T, got bool, msg string) {
	t.Helper()
	if got {
		t.Errorf("Expected false: %s", msg)
	}
}

func AssertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected %q to contain %q", haystack, needle)
	}
}

// Fixtures

func strPtr(s string) *string { return &s }

func timePtr(tm time.Time) *time.Time { return &tm }

func newTestLead() *models.Lead {
	return &models.Lead{
		ID:        1,
		UserID:    1,
		Name:      "Ana Torres",
		Email:     "ana@example.com",
		Phone:     strPtr("+254700100101"),
		Status:    models.LeadStatusNew,
		Source:    "website",
		CreatedAt: time.Now().Add(-48 * time.Hour),
		UpdatedAt: time.Now().Add(-48 * time.Hour),
	}
}

func newTestAutomation(kind models.AutomationType, trigger models.Trigger) *models.Automation {
	return &models.Automation{
		ID:              1,
		UserID:          1,
		Name:            "Test Rule",
		Type:            kind,
		Enabled:         true,
		Trigger:         trigger,
		Channel:         models.ChannelEmail,
		MessageTemplate: "Hi {lead_name}!",
		Conditions:      models.Conditions{},
		CreatedAt:       time.Now().Add(-time.Hour),
		UpdatedAt:       time.Now().Add(-time.Hour),
	}
}

func newTestBooking() *models.Booking {
	return &models.Booking{
		ID:        5,
		UserID:    1,
		LeadID:    1,
		Title:     "Consultation",
		Status:    models.BookingStatusScheduled,
		StartTime: time.Now().Add(12 * time.Hour),
		EndTime:   time.Now().Add(13 * time.Hour),
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
}

// MockLeadRepository mocks repository.LeadRepository
type MockLeadRepository struct {
	CreateFunc                func(ctx context.Context, lead *models.Lead) error
	GetByIDFunc               func(ctx context.Context, userID, id int) (*models.Lead, error)
	ListFunc                  func(ctx context.Context, userID, limit, offset int) ([]*models.Lead, error)
	UpdateFunc                func(ctx context.Context, lead *models.Lead) error
	TouchLastContactedFunc    func(ctx context.Context, userID, id int, at time.Time) error
	ListNotContactedSinceFunc func(ctx context.Context, userID int, statuses []models.LeadStatus, cutoff time.Time) ([]*models.Lead, error)

	Calls map[string]int
}

func NewMockLeadRepository() *MockLeadRepository {
	return &MockLeadRepository{Calls: make(map[string]int)}
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, lead)
	}
	lead.ID = 1
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = time.Now()
	return nil
}

func (m *MockLeadRepository) GetByID(ctx context.Context, userID, id int) (*models.Lead, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return newTestLead(), nil
}

func (m *MockLeadRepository) List(ctx context.Context, userID, limit, offset int) ([]*models.Lead, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, limit, offset)
	}
	return []*models.Lead{}, nil
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *models.Lead) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, lead)
	}
	return nil
}

func (m *MockLeadRepository) TouchLastContacted(ctx context.Context, userID, id int, at time.Time) error {
	m.Calls["TouchLastContacted"]++
	if m.TouchLastContactedFunc != nil {
		return m.TouchLastContactedFunc(ctx, userID, id, at)
	}
	return nil
}

func (m *MockLeadRepository) ListNotContactedSince(ctx context.Context, userID int, statuses []models.LeadStatus, cutoff time.Time) ([]*models.Lead, error) {
	m.Calls["ListNotContactedSince"]++
	if m.ListNotContactedSinceFunc != nil {
		return m.ListNotContactedSinceFunc(ctx, userID, statuses, cutoff)
	}
	return []*models.Lead{}, nil
}

// MockBookingRepository mocks repository.BookingRepository
type MockBookingRepository struct {
	CreateFunc                 func(ctx context.Context, booking *models.Booking) error
	GetByIDFunc                func(ctx context.Context, userID, id int) (*models.Booking, error)
	UpdateFunc                 func(ctx context.Context, booking *models.Booking) error
	ListUpcomingUnremindedFunc func(ctx context.Context, userID int, from, until time.Time) ([]*models.Booking, error)
	MarkReminderSentFunc       func(ctx context.Context, id int, at time.Time) error

	Calls map[string]int
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{Calls: make(map[string]int)}
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, booking)
	}
	booking.ID = 5
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, userID, id int) (*models.Booking, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return newTestBooking(), nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, booking)
	}
	return nil
}

func (m *MockBookingRepository) ListUpcomingUnreminded(ctx context.Context, userID int, from, until time.Time) ([]*models.Booking, error) {
	m.Calls["ListUpcomingUnreminded"]++
	if m.ListUpcomingUnremindedFunc != nil {
		return m.ListUpcomingUnremindedFunc(ctx, userID, from, until)
	}
	return []*models.Booking{}, nil
}

func (m *MockBookingRepository) MarkReminderSent(ctx context.Context, id int, at time.Time) error {
	m.Calls["MarkReminderSent"]++
	if m.MarkReminderSentFunc != nil {
		return m.MarkReminderSentFunc(ctx, id, at)
	}
	return nil
}

// MockMessageRepository mocks repository.MessageRepository
type MockMessageRepository struct {
	CreateFunc       func(ctx context.Context, message *models.Message) error
	GetByIDFunc      func(ctx context.Context, userID, id int) (*models.Message, error)
	UpdateStatusFunc func(ctx context.Context, id int, status models.MessageStatus) error
	ListByLeadFunc   func(ctx context.Context, userID, leadID, limit, offset int) ([]*models.Message, error)

	Created  []*models.Message
	Statuses map[int]models.MessageStatus
	Calls    map[string]int
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		Statuses: make(map[int]models.MessageStatus),
		Calls:    make(map[string]int),
	}
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, message)
	}
	message.ID = len(m.Created) + 10
	message.CreatedAt = time.Now()
	m.Created = append(m.Created, message)
	return nil
}

func (m *MockMessageRepository) GetByID(ctx context.Context, userID, id int) (*models.Message, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return &models.Message{ID: id, UserID: userID, LeadID: 1, Channel: models.ChannelEmail}, nil
}

func (m *MockMessageRepository) UpdateStatus(ctx context.Context, id int, status models.MessageStatus) error {
	m.Calls["UpdateStatus"]++
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	m.Statuses[id] = status
	return nil
}

func (m *MockMessageRepository) ListByLead(ctx context.Context, userID, leadID, limit, offset int) ([]*models.Message, error) {
	m.Calls["ListByLead"]++
	if m.ListByLeadFunc != nil {
		return m.ListByLeadFunc(ctx, userID, leadID, limit, offset)
	}
	return []*models.Message{}, nil
}

// MockAutomationRepository mocks repository.AutomationRepository
type MockAutomationRepository struct {
	CreateFunc                func(ctx context.Context, automation *models.Automation) error
	GetByIDFunc               func(ctx context.Context, userID, id int) (*models.Automation, error)
	ListFunc                  func(ctx context.Context, userID int) ([]*models.Automation, error)
	UpdateFunc                func(ctx context.Context, automation *models.Automation) error
	DeleteFunc                func(ctx context.Context, userID, id int) error
	ListEnabledByTriggerFunc  func(ctx context.Context, userID int, trigger models.Trigger) ([]*models.Automation, error)
	ListEnabledByTriggersFunc func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error)
	RecordTriggeredFunc       func(ctx context.Context, id int, at time.Time) error
	SetEnabledForTypesFunc    func(ctx context.Context, userID int, types []models.AutomationType, enabled bool) error

	Calls map[string]int
}

func NewMockAutomationRepository() *MockAutomationRepository {
	return &MockAutomationRepository{Calls: make(map[string]int)}
}

func (m *MockAutomationRepository) Create(ctx context.Context, automation *models.Automation) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, automation)
	}
	automation.ID = 1
	return nil
}

func (m *MockAutomationRepository) GetByID(ctx context.Context, userID, id int) (*models.Automation, error) {
	m.Calls["GetByID"]++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return newTestAutomation(models.AutomationLeadFollowup, models.TriggerNewLead), nil
}

func (m *MockAutomationRepository) List(ctx context.Context, userID int) ([]*models.Automation, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []*models.Automation{}, nil
}

func (m *MockAutomationRepository) Update(ctx context.Context, automation *models.Automation) error {
	m.Calls["Update"]++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, automation)
	}
	return nil
}

func (m *MockAutomationRepository) Delete(ctx context.Context, userID, id int) error {
	m.Calls["Delete"]++
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockAutomationRepository) ListEnabledByTrigger(ctx context.Context, userID int, trigger models.Trigger) ([]*models.Automation, error) {
	m.Calls["ListEnabledByTrigger"]++
	if m.ListEnabledByTriggerFunc != nil {
		return m.ListEnabledByTriggerFunc(ctx, userID, trigger)
	}
	return []*models.Automation{}, nil
}

func (m *MockAutomationRepository) ListEnabledByTriggers(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
	m.Calls["ListEnabledByTriggers"]++
	if m.ListEnabledByTriggersFunc != nil {
		return m.ListEnabledByTriggersFunc(ctx, triggers)
	}
	return []*models.Automation{}, nil
}

func (m *MockAutomationRepository) RecordTriggered(ctx context.Context, id int, at time.Time) error {
	m.Calls["RecordTriggered"]++
	if m.RecordTriggeredFunc != nil {
		return m.RecordTriggeredFunc(ctx, id, at)
	}
	return nil
}

func (m *MockAutomationRepository) SetEnabledForTypes(ctx context.Context, userID int, types []models.AutomationType, enabled bool) error {
	m.Calls["SetEnabledForTypes"]++
	if m.SetEnabledForTypesFunc != nil {
		return m.SetEnabledForTypesFunc(ctx, userID, types, enabled)
	}
	return nil
}

// MockActivityRepository mocks repository.ActivityRepository
type MockActivityRepository struct {
	CreateFunc func(ctx context.Context, activity *models.Activity) error
	ListFunc   func(ctx context.Context, userID, limit, offset int) ([]*models.Activity, error)

	Created []*models.Activity
	Calls   map[string]int
}

func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{Calls: make(map[string]int)}
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	m.Calls["Create"]++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, activity)
	}
	activity.ID = len(m.Created) + 1
	activity.CreatedAt = time.Now()
	m.Created = append(m.Created, activity)
	return nil
}

func (m *MockActivityRepository) List(ctx context.Context, userID, limit, offset int) ([]*models.Activity, error) {
	m.Calls["List"]++
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, limit, offset)
	}
	return []*models.Activity{}, nil
}

// MockSettingsRepository mocks repository.SettingsRepository
type MockSettingsRepository struct {
	GetByUserIDFunc func(ctx context.Context, userID int) (*models.UserSettings, error)
	UpsertFunc      func(ctx context.Context, settings *models.UserSettings) error

	Calls map[string]int
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{Calls: make(map[string]int)}
}

func (m *MockSettingsRepository) GetByUserID(ctx context.Context, userID int) (*models.UserSettings, error) {
	m.Calls["GetByUserID"]++
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, settings *models.UserSettings) error {
	m.Calls["Upsert"]++
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, settings)
	}
	return nil
}

// MockSender mocks ChannelSender
type MockSender struct {
	SendFunc func(ctx context.Context, userID int, channel models.Channel, recipient, content string) bool

	SendCount     int
	LastChannel   models.Channel
	LastRecipient string
	LastContent   string
}

func (m *MockSender) Send(ctx context.Context, userID int, channel models.Channel, recipient, content string) bool {
	m.SendCount++
	m.LastChannel = channel
	m.LastRecipient = recipient
	m.LastContent = content
	if m.SendFunc != nil {
		return m.SendFunc(ctx, userID, channel, recipient, content)
	}
	return true
}

// MockExecutor mocks AutomationExecutor
type MockExecutor struct {
	ExecuteFunc func(ctx context.Context, automation *models.Automation, ec *EventContext) bool

	Executed []*models.Automation
}

func (m *MockExecutor) Execute(ctx context.Context, automation *models.Automation, ec *EventContext) bool {
	m.Executed = append(m.Executed, automation)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, automation, ec)
	}
	return true
}

// MockGenerator mocks TextGenerator
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)

	LastPrompt      string
	LastMaxTokens   int
	LastTemperature float64
	CallCount       int
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	m.CallCount++
	m.LastPrompt = prompt
	m.LastMaxTokens = maxTokens
	m.LastTemperature = temperature
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, maxTokens, temperature)
	}
	return "Generated copy", nil
}

// StubDispatcher records dispatched triggers
type StubDispatcher struct {
	DispatchFunc func(ctx context.Context, trigger models.Trigger, ec *EventContext) int

	Triggers []models.Trigger
	Contexts []*EventContext
}

func (s *StubDispatcher) Dispatch(ctx context.Context, trigger models.Trigger, ec *EventContext) int {
	s.Triggers = append(s.Triggers, trigger)
	s.Contexts = append(s.Contexts, ec)
	if s.DispatchFunc != nil {
		return s.DispatchFunc(ctx, trigger, ec)
	}
	return 1
}

// StubPublisher records published trigger jobs
type StubPublisher struct {
	Err  error
	Jobs []*queue.TriggerJob
}

func (s *StubPublisher) PublishTrigger(job *queue.TriggerJob) error {
	if s.Err != nil {
		return s.Err
	}
	s.Jobs = append(s.Jobs, job)
	return nil
}

// newExecutorForTest wires an executor with fresh mocks
func newExecutorForTest() (*ExecutorService, *MockLeadRepository, *MockMessageRepository, *MockAutomationRepository, *MockActivityRepository, *MockSender) {
	leads := NewMockLeadRepository()
	messages := NewMockMessageRepository()
	automations := NewMockAutomationRepository()
	activities := NewMockActivityRepository()
	sender := &MockSender{}
	executor := NewExecutorService(leads, messages, automations, activities, NewTemplateService(nil), sender)
	return executor, leads, messages, automations, activities, sender
}
