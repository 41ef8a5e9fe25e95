package domain

import "time"

type Attendee struct {
	ID           string     `json:"id"`
	TicketCode   string     `json:"ticket_code"`
	Name         string     `json:"name"`
	TicketTitle  string     `json:"ticket_title"`
	EventID      string     `json:"event_id"`
	EventTitle   string     `json:"event_title"`
	ValidFrom    *time.Time `json:"valid_from,omitempty"`
	Cancelled    bool       `json:"cancelled"`
	CheckedIn    bool       `json:"checked_in"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
}

// AttendeeSummary is the denormalized attendee block returned with a scan.
type AttendeeSummary struct {
	Name   string `json:"name"`
	Ticket string `json:"ticket"`
	Event  string `json:"event"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	ID     string `json:"id"`
}
