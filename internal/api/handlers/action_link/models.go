package action_link

// Действия, доступные по одноразовой ссылке из письма-напоминания
const (
	ActionExtend  = "extend"
	ActionRelease = "release"
)

// ActionRequest HTTP request model
type ActionRequest struct {
	Action            string `json:"action"`                      // extend или release
	AdditionalMinutes int    `json:"additionalMinutes,omitempty"` // Только для extend
}

// ActionResponse HTTP response model
type ActionResponse struct {
	BookingID int64  `json:"bookingId"`
	Action    string `json:"action"`
	Status    string `json:"status"`
	EndTime   string `json:"endTime"`
}
