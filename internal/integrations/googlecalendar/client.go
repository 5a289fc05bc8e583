// Package googlecalendar клиент Google Calendar API для чтения событий
// календарей переговорных комнат.
package googlecalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с Google Calendar API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        Logger
}

// NewClient создает новый экземпляр клиента.
// tokenSource выдает OAuth2 токены сервисного аккаунта; запросы к API
// ограничиваются requestsPerSecond, чтобы не упираться в квоты провайдера.
func NewClient(baseURL string, tokenSource oauth2.TokenSource, timeout time.Duration, requestsPerSecond float64, log Logger) *Client {
	httpClient := oauth2.NewClient(context.Background(), tokenSource)
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		log:        log,
	}
}

// ListEvents получает события календаря на отрезке [from, to).
// Повторяющиеся события приходят уже развернутыми в отдельные вхождения
// (singleEvents=true); отмененные события включены, чтобы сверка могла
// отменить их локальные копии.
func (c *Client) ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error) {
	events := make([]Event, 0)
	pageToken := ""

	for {
		page, next, err := c.listPage(ctx, calendarID, from, to, pageToken)
		if err != nil {
			return nil, err
		}
		events = append(events, page...)

		if next == "" {
			return events, nil
		}
		pageToken = next
	}
}

func (c *Client) listPage(ctx context.Context, calendarID string, from, to time.Time, pageToken string) ([]Event, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	v := url.Values{}
	v.Set("timeMin", from.Format(time.RFC3339))
	v.Set("timeMax", to.Format(time.RFC3339))
	v.Set("singleEvents", "true")
	v.Set("showDeleted", "true")
	v.Set("orderBy", "startTime")
	v.Set("maxResults", "250")
	if pageToken != "" {
		v.Set("pageToken", pageToken)
	}

	reqURL := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(calendarID), v.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", ErrCalendarNotFound
	case resp.StatusCode >= 500:
		return nil, "", fmt.Errorf("%w: status code %d", ErrUnavailable, resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var parsed eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	events := make([]Event, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		event, err := item.toEvent()
		if err != nil {
			// Некорректное событие не валит весь sync
			c.log.Warn("ListEvents: skipping malformed event id=%s: %v", item.ID, err)
			continue
		}
		events = append(events, event)
	}

	return events, parsed.NextPageToken, nil
}

func (i eventItem) toEvent() (Event, error) {
	event := Event{
		ID:             i.ID,
		Status:         i.Status,
		Summary:        i.Summary,
		Description:    i.Description,
		OrganizerEmail: i.Organizer.Email,
	}

	// У отмененных событий провайдер может не присылать время
	if i.Status == EventStatusCancelled && i.Start.DateTime == "" && i.Start.Date == "" {
		return event, nil
	}

	start, err := i.Start.parse()
	if err != nil {
		return Event{}, fmt.Errorf("parse start: %w", err)
	}
	end, err := i.End.parse()
	if err != nil {
		return Event{}, fmt.Errorf("parse end: %w", err)
	}

	event.Start = start
	event.End = end
	return event, nil
}

func (t eventTime) parse() (time.Time, error) {
	if t.DateTime != "" {
		return time.Parse(time.RFC3339, t.DateTime)
	}
	if t.Date != "" {
		// Событие на весь день
		return time.Parse("2006-01-02", t.Date)
	}
	return time.Time{}, fmt.Errorf("empty event time")
}
