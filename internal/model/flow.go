package model

// Flow represents the conversational sub-task currently active for a user.
type Flow string

const (
	// MainMenuFlow represents the shared root, no flow is active.
	MainMenuFlow Flow = "main_menu"
	// ExpenseFlow represents the insert expense flow.
	ExpenseFlow Flow = "expense"
	// SettingsFlow represents the settings and category management flow.
	SettingsFlow Flow = "settings"
	// ImportFlow represents the budget import flow.
	ImportFlow Flow = "import"
)

// FlowStep represents a named position within a flow's state machine.
// Steps are scoped per flow, the dispatcher only ever sees the opaque
// flow plus step pair.
type FlowStep string

const (
	// MainMenuStep represents the shared root step of every flow.
	MainMenuStep FlowStep = "main_menu"

	// Steps owned by the insert expense flow

	// SelectCategoryStep represents the category selection step.
	SelectCategoryStep FlowStep = "select_category"
	// SelectSubCategoryStep represents the subcategory selection step.
	SelectSubCategoryStep FlowStep = "select_subcategory"
	// SelectTagStep represents the optional tag selection step. It is
	// skipped entirely when the chosen subcategory has zero tags.
	SelectTagStep FlowStep = "select_tag"
	// EnterDescriptionStep represents the free text description step.
	EnterDescriptionStep FlowStep = "enter_description"
	// EnterAmountStep represents the amount entry step.
	EnterAmountStep FlowStep = "enter_amount"
	// SelectDateStep represents the date selection step.
	SelectDateStep FlowStep = "select_date"

	// Steps owned by the settings flow

	// SettingsMenuStep represents the settings root menu.
	SettingsMenuStep FlowStep = "settings_menu"
	// EnterCategoryNameStep represents the new category name step.
	EnterCategoryNameStep FlowStep = "enter_category_name"
	// ChooseParentCategoryStep represents the parent category pick step.
	ChooseParentCategoryStep FlowStep = "choose_parent_category"
	// EnterSubCategoryNameStep represents the new subcategory name step.
	EnterSubCategoryNameStep FlowStep = "enter_subcategory_name"
	// TagLoopChoiceStep represents the add another tag or done choice.
	TagLoopChoiceStep FlowStep = "tag_loop_choice"
	// EnterTagNameStep represents the new tag name step.
	EnterTagNameStep FlowStep = "enter_tag_name"

	// Steps owned by the import flow

	// EnterImportYearStep represents the target year entry step.
	EnterImportYearStep FlowStep = "enter_import_year"
	// UploadImportFileStep represents the spreadsheet upload step.
	UploadImportFileStep FlowStep = "upload_import_file"
)

// Commands and button labels the bot reacts to.
const (
	// BotStartCommand starts the bot and shows the main menu.
	BotStartCommand = "/start"
	// BotMenuCommand re-shows the main menu.
	BotMenuCommand = "/menu"

	// BotBackButton is the shared back navigation button label.
	BotBackButton = "🔙 Indietro"
	// BotTodayButton selects today's date during expense recording.
	BotTodayButton = "📅 Oggi"
	// BotDatePickerButton opens the external date picker web app.
	BotDatePickerButton = "🗓 Scegli un'altra data"
)

// Callback names carried as the prefix of inline button callback data.
const (
	// BackCallback is the global back navigation signal.
	BackCallback = "back"
	// CategoryCallback carries a selected category id.
	CategoryCallback = "category"
	// SubCategoryCallback carries a selected subcategory id.
	SubCategoryCallback = "subcategory"
	// TagCallback carries a selected tag id or the skip marker.
	TagCallback = "tag"
	// SettingsCallback carries a settings section action.
	SettingsCallback = "settings"
	// ParentCategoryCallback carries a parent category id for a new subcategory.
	ParentCategoryCallback = "parent_category"
	// TagLoopCallback carries the add another tag or done choice.
	TagLoopCallback = "tag_loop"
)

// TagSkipPayload marks the explicit "no tag" choice in a TagCallback.
const TagSkipPayload = "skip"
