package models

import "time"

// Contact is a persisted address-book entry. ID is assigned by the store and
// never changes afterwards.
type Contact struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nome"`
	Phone       string    `json:"telefone"`
	Email       string    `json:"email"`
	Group       string    `json:"grupo"`
	Favorite    bool      `json:"is_favorito"`
	Notes       string    `json:"notas"`
	CallHistory string    `json:"historico_chamadas"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ContactCreate struct {
	Name        string `json:"nome"`
	Phone       string `json:"telefone"`
	Email       string `json:"email"`
	Group       string `json:"grupo"`
	Favorite    bool   `json:"is_favorito"`
	Notes       string `json:"notas"`
	CallHistory string `json:"historico_chamadas"`
}

// ContactUpdate carries a partial update; nil fields are left as stored.
type ContactUpdate struct {
	Name        *string `json:"nome,omitempty"`
	Phone       *string `json:"telefone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Group       *string `json:"grupo,omitempty"`
	Favorite    *bool   `json:"is_favorito,omitempty"`
	Notes       *string `json:"notas,omitempty"`
	CallHistory *string `json:"historico_chamadas,omitempty"`
}

// Apply copies the provided fields onto c.
func (u ContactUpdate) Apply(c *Contact) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Group != nil {
		c.Group = *u.Group
	}
	if u.Favorite != nil {
		c.Favorite = *u.Favorite
	}
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	if u.CallHistory != nil {
		c.CallHistory = *u.CallHistory
	}
}

// ListParams selects a page of contacts. Search matches name, phone or email
// case-insensitively by substring; Group is an exact match and a nil Favorite
// matches both. Stores treat a zero Limit as unbounded.
type ListParams struct {
	Search   string
	Group    string
	Favorite *bool
	Offset   int
	Limit    int
}

// DetailResponse is the body of every error and acknowledgment response.
type DetailResponse struct {
	Detail string `json:"detail"`
}
