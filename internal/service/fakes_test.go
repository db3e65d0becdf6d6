package service

import (
	"context"
	"strings"
	"sync"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
)

var testLogger = logger.New(logger.Options{LogLevel: "error"})

// messengerFake records every outbound interaction so tests can assert
// on what the user would have seen.
type messengerFake struct {
	mu            sync.Mutex
	nextMessageID int

	sent    []SendMessageOptions
	edits   []EditMessageOptions
	deleted []int

	// texts collects message texts in chronological order regardless of
	// whether they were sent or edited in place.
	texts []string

	answeredCallbacks []string

	downloads    []string
	documentBody []byte
	downloadErr  error

	sendErr error
	editErr error
}

var _ Messenger = (*messengerFake)(nil)

func newMessengerFake() *messengerFake {
	return &messengerFake{}
}

func (m *messengerFake) ReadUpdates(context.Context, chan Update, chan error) {}

func (m *messengerFake) Close() error { return nil }

func (m *messengerFake) SendMessage(opts SendMessageOptions) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return 0, m.sendErr
	}

	m.nextMessageID++
	m.sent = append(m.sent, opts)
	m.texts = append(m.texts, opts.Text)

	return m.nextMessageID, nil
}

func (m *messengerFake) EditMessage(opts EditMessageOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.editErr != nil {
		return m.editErr
	}

	m.edits = append(m.edits, opts)
	m.texts = append(m.texts, opts.Text)

	return nil
}

func (m *messengerFake) DeleteMessage(_ int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, messageID)

	return nil
}

func (m *messengerFake) AnswerCallbackQuery(callbackQueryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.answeredCallbacks = append(m.answeredCallbacks, callbackQueryID)

	return nil
}

func (m *messengerFake) DownloadDocument(fileID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.downloads = append(m.downloads, fileID)
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}

	return m.documentBody, nil
}

func (m *messengerFake) lastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.texts) == 0 {
		return ""
	}

	return m.texts[len(m.texts)-1]
}

func (m *messengerFake) lastInlineKeyboard() []InlineKeyboardRow {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.edits) != 0 {
		return m.edits[len(m.edits)-1].InlineKeyboard
	}
	if len(m.sent) != 0 {
		return m.sent[len(m.sent)-1].InlineKeyboard
	}

	return nil
}

func (m *messengerFake) lastReplyKeyboard() []KeyboardRow {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.sent) - 1; i >= 0; i-- {
		if len(m.sent[i].Keyboard) != 0 {
			return m.sent[i].Keyboard
		}
	}

	return nil
}

// storageFake is a shared in-memory backing for the store fakes. The
// per-entity views below expose it through the store interfaces.
type storageFake struct {
	mu sync.Mutex

	categories    []model.Category
	subCategories []model.SubCategory
	tags          []model.Tag
	expenses      []model.Expense
	budgets       []model.Budget

	listCategoriesErr error
	createExpenseErr  error
}

func newStorageFake() *storageFake {
	return &storageFake{}
}

func (s *storageFake) stores() Stores {
	return Stores{
		Category:    categoryStoreFake{s},
		SubCategory: subCategoryStoreFake{s},
		Tag:         tagStoreFake{s},
		Expense:     expenseStoreFake{s},
		Budget:      budgetStoreFake{s},
	}
}

func (s *storageFake) seedCategory(id, name string) {
	s.categories = append(s.categories, model.Category{ID: id, Name: name})
}

func (s *storageFake) seedSubCategory(id, categoryID, name string) {
	s.subCategories = append(s.subCategories, model.SubCategory{ID: id, CategoryID: categoryID, Name: name})
}

func (s *storageFake) seedTag(id, subCategoryID, name string) {
	s.tags = append(s.tags, model.Tag{ID: id, SubCategoryID: subCategoryID, Name: name})
}

type categoryStoreFake struct{ *storageFake }

func (f categoryStoreFake) List(context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listCategoriesErr != nil {
		return nil, f.listCategoriesErr
	}

	return append([]model.Category(nil), f.categories...), nil
}

func (f categoryStoreFake) Get(_ context.Context, filter GetCategoryFilter) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, category := range f.categories {
		if filter.ID != "" && category.ID == filter.ID {
			return &category, nil
		}
		if filter.Name != "" && strings.EqualFold(category.Name, filter.Name) {
			return &category, nil
		}
	}

	return nil, nil
}

func (f categoryStoreFake) CreateIfNotExists(_ context.Context, category *model.Category) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return false, nil
		}
	}

	f.categories = append(f.categories, *category)
	return true, nil
}

type subCategoryStoreFake struct{ *storageFake }

func (f subCategoryStoreFake) List(_ context.Context, categoryID string) ([]model.SubCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []model.SubCategory
	for _, subCategory := range f.subCategories {
		if subCategory.CategoryID == categoryID {
			result = append(result, subCategory)
		}
	}

	return result, nil
}

func (f subCategoryStoreFake) Get(_ context.Context, filter GetSubCategoryFilter) (*model.SubCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, subCategory := range f.subCategories {
		if filter.ID != "" && subCategory.ID == filter.ID {
			return &subCategory, nil
		}
		if filter.Name != "" && strings.EqualFold(subCategory.Name, filter.Name) &&
			(filter.CategoryID == "" || subCategory.CategoryID == filter.CategoryID) {
			return &subCategory, nil
		}
	}

	return nil, nil
}

func (f subCategoryStoreFake) CreateIfNotExists(_ context.Context, subCategory *model.SubCategory) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.subCategories {
		if existing.CategoryID == subCategory.CategoryID && strings.EqualFold(existing.Name, subCategory.Name) {
			return false, nil
		}
	}

	f.subCategories = append(f.subCategories, *subCategory)
	return true, nil
}

type tagStoreFake struct{ *storageFake }

func (f tagStoreFake) List(_ context.Context, subCategoryID string) ([]model.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []model.Tag
	for _, tag := range f.tags {
		if tag.SubCategoryID == subCategoryID {
			result = append(result, tag)
		}
	}

	return result, nil
}

func (f tagStoreFake) Get(_ context.Context, tagID string) (*model.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, tag := range f.tags {
		if tag.ID == tagID {
			return &tag, nil
		}
	}

	return nil, nil
}

func (f tagStoreFake) CreateIfNotExists(_ context.Context, tag *model.Tag) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.tags {
		if existing.SubCategoryID == tag.SubCategoryID && strings.EqualFold(existing.Name, tag.Name) {
			return false, nil
		}
	}

	f.tags = append(f.tags, *tag)
	return true, nil
}

type expenseStoreFake struct{ *storageFake }

func (f expenseStoreFake) Create(_ context.Context, expense *model.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createExpenseErr != nil {
		return f.createExpenseErr
	}

	f.expenses = append(f.expenses, *expense)
	return nil
}

type budgetStoreFake struct{ *storageFake }

func (f budgetStoreFake) CreateIfNotExists(_ context.Context, budget *model.Budget) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.budgets {
		sameTag := (existing.TagID == nil) == (budget.TagID == nil)
		if sameTag && existing.TagID != nil {
			sameTag = *existing.TagID == *budget.TagID
		}

		if existing.SubCategoryID == budget.SubCategoryID && sameTag &&
			existing.Year == budget.Year && existing.Month == budget.Month {
			return false, nil
		}
	}

	f.budgets = append(f.budgets, *budget)
	return true, nil
}

// importServiceFake returns a canned result without touching a real
// spreadsheet.
type importServiceFake struct {
	result *ImportResult
	err    error

	calls    int
	lastFile []byte
	lastYear int
}

var _ ImportService = (*importServiceFake)(nil)

func (f *importServiceFake) ImportBudgets(_ context.Context, file []byte, year int) (*ImportResult, error) {
	f.calls++
	f.lastFile = file
	f.lastYear = year

	if f.err != nil {
		return nil, f.err
	}

	return f.result, nil
}

// updateFake is a minimal inbound event for driving the dispatcher.
type updateFake struct {
	updateID  int
	chatID    int64
	messageID int
	username  string
	text      string

	callback   *Callback
	document   *Document
	webAppData string
}

var _ Update = (*updateFake)(nil)

func (u *updateFake) GetUpdateID() int          { return u.updateID }
func (u *updateFake) GetChatID() int64          { return u.chatID }
func (u *updateFake) GetMessageID() int         { return u.messageID }
func (u *updateFake) GetSenderUsername() string { return u.username }
func (u *updateFake) GetText() string           { return u.text }
func (u *updateFake) GetCallback() *Callback    { return u.callback }
func (u *updateFake) GetDocument() *Document    { return u.document }
func (u *updateFake) GetWebAppData() string     { return u.webAppData }

const (
	testUsername = "giovanni"
	testChatID   = int64(42)
)

func textUpdate(text string) *updateFake {
	return &updateFake{chatID: testChatID, messageID: 100, username: testUsername, text: text}
}

func callbackUpdate(data string) *updateFake {
	return &updateFake{
		chatID:   testChatID,
		username: testUsername,
		callback: &Callback{QueryID: "query-1", Data: data, MessageID: 1},
	}
}

func documentUpdate(fileID, fileName string, fileSize int64) *updateFake {
	return &updateFake{
		chatID:   testChatID,
		username: testUsername,
		document: &Document{FileID: fileID, FileName: fileName, FileSize: fileSize},
	}
}

func webAppUpdate(payload string) *updateFake {
	return &updateFake{chatID: testChatID, username: testUsername, webAppData: payload}
}

// testEnv wires the full dispatcher with fakes, mirroring the
// application wiring.
type testEnv struct {
	messenger *messengerFake
	storage   *storageFake
	importer  *importServiceFake
	states    *stateService
	event     *eventService
}

type testEnvOptions struct {
	allowedUsernames []string
	importResult     *ImportResult
	importErr        error
}

func newTestEnv(opts testEnvOptions) *testEnv {
	messenger := newMessengerFake()
	storage := newStorageFake()
	states := NewState()

	apis := APIs{Messenger: messenger}
	messages := NewMessage(testLogger, apis)

	menu := NewMenuFlow(&MenuFlowOptions{
		Logger:   testLogger,
		Messages: messages,
	})

	expense := NewExpenseFlow(&ExpenseFlowOptions{
		Logger:        testLogger,
		Messages:      messages,
		Menu:          menu,
		Stores:        storage.stores(),
		DatePickerURL: "https://example.com/picker",
	})

	settings := NewSettingsFlow(&SettingsFlowOptions{
		Logger:   testLogger,
		Messages: messages,
		Stores:   storage.stores(),
	})

	importer := &importServiceFake{result: opts.importResult, err: opts.importErr}
	if importer.result == nil {
		importer.result = &ImportResult{}
	}

	budgetImport := NewImportFlow(&ImportFlowOptions{
		Logger:   testLogger,
		Messages: messages,
		Menu:     menu,
		APIs:     apis,
		Importer: importer,
	})

	menu.RegisterHandlers(expense, settings, budgetImport)

	event := NewEvent(&EventOptions{
		Logger:           testLogger,
		APIs:             apis,
		Messages:         messages,
		States:           states,
		Menu:             menu,
		Flows:            []FlowHandler{expense, settings, budgetImport, menu},
		AllowedUsernames: opts.allowedUsernames,
	})

	return &testEnv{
		messenger: messenger,
		storage:   storage,
		importer:  importer,
		states:    states,
		event:     event,
	}
}

func (e *testEnv) handle(update Update) {
	e.event.handleUpdate(context.Background(), update)
}

func (e *testEnv) userState() *model.State {
	return e.states.GetOrCreate(testUsername, testChatID)
}
