package models

import (
	"fmt"
	"strings"
)

// UserType distinguishes personal from business accounts.
type UserType string

const (
	UserTypeConsumer UserType = "consumer"
	UserTypeBusiness UserType = "business"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserTypeConsumer || t == UserTypeBusiness
}

// ParseUserType converts user input into a UserType.
func ParseUserType(s string) (UserType, error) {
	t := UserType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid user type %q: must be consumer or business", s)
	}
	return t, nil
}

// User is the identity held by the session store.
type User struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Avatar    string   `json:"avatar,omitempty"`
	UserType  UserType `json:"user_type,omitempty"`
}

// DisplayName joins first and last name.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserPatch carries the fields of a partial user update. Nil fields are left untouched.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Avatar    *string
	UserType  *UserType
}

// Merge returns u with every non-nil field of p applied.
func (u User) Merge(p UserPatch) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.UserType != nil {
		u.UserType = *p.UserType
	}
	return u
}

// Session is the read view of the session store.
type Session struct {
	UserID          string   `json:"user_id"`
	DisplayName     string   `json:"display_name"`
	Email           string   `json:"email"`
	UserType        UserType `json:"user_type"`
	IsAuthenticated bool     `json:"is_authenticated"`
}

// Profile is the backend's /users/me document. Business fields are empty for consumers.
type Profile struct {
	ID                    int64  `json:"id"`
	Email                 string `json:"email"`
	Name                  string `json:"name"`
	Phone                 string `json:"phone,omitempty"`
	Location              string `json:"location,omitempty"`
	AvatarURL             string `json:"avatar_url,omitempty"`
	Timezone              string `json:"timezone,omitempty"`
	Locale                string `json:"locale,omitempty"`
	Currency              string `json:"currency,omitempty"`
	BusinessName          string `json:"business_name,omitempty"`
	ContactPerson         string `json:"contact_person,omitempty"`
	GSTIN                 string `json:"gstin,omitempty"`
	BusinessType          string `json:"business_type,omitempty"`
	ConsentGmailIngest    bool   `json:"consent_gmail_ingest"`
	ConsentWhatsappIngest bool   `json:"consent_whatsapp_ingest"`
	ConsentUPIIngest      bool   `json:"consent_upi_ingest"`
	ConsentSMSIngest      bool   `json:"consent_sms_ingest"`
	IsActive              bool   `json:"is_active"`
	CreatedAt             Time   `json:"created_at"`
	LastActive            Time   `json:"last_active"`
}

// ProfileUpdate is the PATCH body for /users/me.
type ProfileUpdate struct {
	Name          *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Phone         *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Location      *string `json:"location,omitempty" binding:"omitempty,max=100"`
	AvatarURL     *string `json:"avatar_url,omitempty" binding:"omitempty,url"`
	Timezone      *string `json:"timezone,omitempty" binding:"omitempty,timezone"`
	Locale        *string `json:"locale,omitempty" binding:"omitempty,bcp47_language_tag"`
	Currency      *string `json:"currency,omitempty" binding:"omitempty,iso4217"`
	BusinessName  *string `json:"business_name,omitempty" binding:"omitempty,max=200"`
	ContactPerson *string `json:"contact_person,omitempty" binding:"omitempty,max=100"`
	GSTIN         *string `json:"gstin,omitempty" binding:"omitempty,gstin"`
	BusinessType  *string `json:"business_type,omitempty" binding:"omitempty,max=100"`
}

// Empty reports whether the update carries no fields.
func (p ProfileUpdate) Empty() bool {
	return p == ProfileUpdate{}
}

// ConsentUpdate is the PATCH body for /users/me/consent.
type ConsentUpdate struct {
	Gmail    *bool `json:"consent_gmail_ingest,omitempty"`
	Whatsapp *bool `json:"consent_whatsapp_ingest,omitempty"`
	UPI      *bool `json:"consent_upi_ingest,omitempty"`
	SMS      *bool `json:"consent_sms_ingest,omitempty"`
}
