package models

import "encoding/json"

// LoginRequest is the credential form posted to /auth/login.
type LoginRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required"`
	UserType UserType `json:"user_type" binding:"required,user_type"`
}

// RegisterRequest is the signup form posted to /auth/register.
type RegisterRequest struct {
	Email         string   `json:"email" binding:"required,email,max=255"`
	Password      string   `json:"password" binding:"required,min=8,max=128"`
	Name          string   `json:"name" binding:"required,max=100"`
	UserType      UserType `json:"user_type" binding:"required,user_type"`
	Phone         string   `json:"phone,omitempty" binding:"omitempty,max=20"`
	AvatarURL     string   `json:"avatar_url,omitempty" binding:"omitempty,url"`
	BusinessName  string   `json:"business_name,omitempty" binding:"required_if=UserType business,max=200"`
	ContactPerson string   `json:"contact_person,omitempty" binding:"required_if=UserType business,max=100"`
	GSTIN         string   `json:"gstin,omitempty" binding:"omitempty,gstin"`
}

// Token is the backend's response to login and register.
type Token struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	UserID      string   `json:"user_id"`
	UserType    UserType `json:"user_type"`
}

// UnmarshalJSON accepts user_id as either a JSON number or string.
func (t *Token) UnmarshalJSON(b []byte) error {
	type alias Token
	var raw struct {
		alias
		UserID json.RawMessage `json:"user_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = Token(raw.alias)
	t.UserID = rawID(raw.UserID)
	return nil
}

// rawID renders a JSON number or string id as a plain string.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
