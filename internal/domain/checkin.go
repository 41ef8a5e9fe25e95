package domain

import "time"

type ResultCode string

const (
	CodeError            ResultCode = "MESSAGE_ERROR"
	CodeNoCode           ResultCode = "MESSAGE_NO_CODE"
	CodeNotFound         ResultCode = "MESSAGE_CODE_NOT_FOUND"
	CodeTicketCancelled  ResultCode = "MESSAGE_TICKET_CANCELLED"
	CodeNotYetValid      ResultCode = "MESSAGE_NOT_YET_VALID"
	CodeWrongEvent       ResultCode = "MESSAGE_WRONG_EVENT"
	CodeAlreadyCheckedIn ResultCode = "MESSAGE_ALREADY_CHECKED_IN"
	CodeCheckInSuccess   ResultCode = "MESSAGE_CHECK_IN_SUCCESS"
	CodeCheckOutSuccess  ResultCode = "MESSAGE_CHECK_OUT_SUCCESS"
)

// ResultType is the display severity a scanner app colors a result with.
type ResultType string

const (
	TypeGood    ResultType = "good"
	TypeWarning ResultType = "warning"
	TypeBad     ResultType = "bad"
)

// ValidationResult is what a code validator produces and what the
// validate route returns, keys lower-cased.
type ValidationResult struct {
	Code     ResultCode       `json:"code"`
	Message  string           `json:"message"`
	Type     ResultType       `json:"type"`
	Attendee *AttendeeSummary `json:"attendee,omitempty"`
}

type ValidateTicketRequest struct {
	Ticket  string `json:"ticket" validate:"required"`
	EventID string `json:"eventId"`
}

// CheckInLog is the audit record of a single validation attempt.
type CheckInLog struct {
	ID         string     `json:"id"`
	Code       string     `json:"code"`
	ResultCode ResultCode `json:"result_code"`
	Message    string     `json:"message"`
	ResultType ResultType `json:"result_type"`
	AttendeeID string     `json:"attendee_id,omitempty"`
	DeviceID   string     `json:"device_id,omitempty"`
	UserID     string     `json:"user_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
