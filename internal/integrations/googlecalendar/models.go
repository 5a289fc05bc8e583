package googlecalendar

import "time"

// Event статусы событий Google Calendar
const (
	EventStatusConfirmed = "confirmed"
	EventStatusTentative = "tentative"
	EventStatusCancelled = "cancelled"
)

// Event событие внешнего календаря в нормализованном виде.
// Потребляются только поля, нужные для сверки с локальными бронированиями.
type Event struct {
	ID             string
	Status         string
	Summary        string
	Description    string
	OrganizerEmail string
	Start          time.Time
	End            time.Time
}

// IsCancelled returns true if the event was cancelled on the provider side
func (e *Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}

// eventsResponse тело ответа events.list
type eventsResponse struct {
	Items         []eventItem `json:"items"`
	NextPageToken string      `json:"nextPageToken"`
}

type eventItem struct {
	ID          string         `json:"id"`
	Status      string         `json:"status"`
	Summary     string         `json:"summary"`
	Description string         `json:"description"`
	Organizer   eventOrganizer `json:"organizer"`
	Start       eventTime      `json:"start"`
	End         eventTime      `json:"end"`
}

type eventOrganizer struct {
	Email string `json:"email"`
}

// eventTime момент начала/конца: dateTime для обычных событий,
// date для событий на весь день
type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}
