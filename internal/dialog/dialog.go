// Package dialog - конечный автомат многошаговых диалогов бота,
// независимый от Telegram. Step получает текущий диалог и событие и
// возвращает новый диалог и список эффектов, которые выполняет обработчик.
package dialog

// Flow - вид диалога.
type Flow string

const (
	FlowNone          Flow = ""
	FlowLead          Flow = "lead"
	FlowOrderSimilar  Flow = "order_similar"
	FlowAssignManager Flow = "assign_manager"
	FlowRemoveManager Flow = "remove_manager"
	FlowCarIntake     Flow = "car_intake"
)

// State - шаг диалога.
type State string

const (
	StateIdle                       State = "idle"
	StateCollectingFIO              State = "collecting_fio"
	StateCollectingCarInfo          State = "collecting_car_info"
	StateCollectingPhone            State = "collecting_phone"
	StateCollectingTargetIdentifier State = "collecting_target_identifier"
	StateCollectingRemoveIdentifier State = "collecting_remove_identifier"
	StateCollectingCountry          State = "collecting_country"
	StateCollectingPhotos           State = "collecting_photos"
	StateCollectingDescription      State = "collecting_description"
)

// Fields - данные, собранные в ходе диалога.
type Fields struct {
	FIO     string
	CarInfo string
	Phone   string
	Country string
	Photos  []string
}

// Conversation - состояние диалога одного пользователя. Хранится только в памяти.
type Conversation struct {
	Flow   Flow
	State  State
	Fields Fields
}

// Active сообщает, идет ли диалог.
func (c Conversation) Active() bool {
	return c.Flow != FlowNone && c.State != StateIdle && c.State != ""
}

// EventKind - тип входящего события.
type EventKind int

const (
	EventText EventKind = iota
	EventPhoto
	EventContact
	EventCountry
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventPhoto:
		return "photo"
	case EventContact:
		return "contact"
	case EventCountry:
		return "country"
	default:
		return "unknown"
	}
}

// Event - входящее событие. Заполнено только поле, соответствующее Kind.
type Event struct {
	Kind    EventKind
	Text    string
	PhotoID string
	Phone   string
	Country string
}

func TextEvent(text string) Event       { return Event{Kind: EventText, Text: text} }
func PhotoEvent(fileID string) Event    { return Event{Kind: EventPhoto, PhotoID: fileID} }
func ContactEvent(phone string) Event   { return Event{Kind: EventContact, Phone: phone} }
func CountryEvent(country string) Event { return Event{Kind: EventCountry, Country: country} }

// EffectKind - тип действия, которое должен выполнить обработчик.
type EffectKind int

const (
	EffectAsk EffectKind = iota
	EffectSubmitLead
	EffectAssignManager
	EffectRemoveManager
	EffectSaveCar
	EffectCancel
)

// Lead - данные завершенной заявки.
type Lead struct {
	FIO     string
	CarInfo string
	Phone   string
	Similar bool
}

// CarDraft - данные нового автомобиля подборки.
type CarDraft struct {
	Country     string
	Description string
	Photos      []string
}

// Effect - действие. Заполнено только поле, соответствующее Kind.
type Effect struct {
	Kind       EffectKind
	Prompt     Prompt
	Lead       Lead
	Identifier string
	Car        CarDraft
}

func ask(p Prompt) []Effect { return []Effect{{Kind: EffectAsk, Prompt: p}} }
