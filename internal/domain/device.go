package domain

import (
	"fmt"
	"time"
)

type Device struct {
	ID        string    `json:"id"`
	UniqueID  string    `json:"unique_id"`
	Title     string    `json:"title"`
	Note      string    `json:"note"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Token     string    `json:"token"`
	OwnerID   string    `json:"owner_id"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayTitle is "<brand>, <model>" when both are known.
func (d *Device) DisplayTitle() string {
	if d.Brand != "" && d.Model != "" {
		return fmt.Sprintf("%s, %s", d.Brand, d.Model)
	}
	if d.Title != "" {
		return d.Title
	}
	return d.UniqueID
}

type DeviceResponse struct {
	ID        string    `json:"id"`
	UniqueID  string    `json:"uniqueId"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	HasToken  bool      `json:"hasToken"`
	LastLogin time.Time `json:"lastLogin"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d *Device) ToResponse() *DeviceResponse {
	return &DeviceResponse{
		ID:        d.ID,
		UniqueID:  d.UniqueID,
		Title:     d.DisplayTitle(),
		Note:      d.Note,
		Brand:     d.Brand,
		Model:     d.Model,
		HasToken:  d.Token != "",
		LastLogin: d.LastLogin,
		CreatedAt: d.CreatedAt,
	}
}
