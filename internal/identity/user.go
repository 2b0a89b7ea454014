package identity

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// secretFields never survive into a user record.
var secretFields = []string{"token", "accessToken", "password", "password_confirmation"}

// knownFields are lifted into typed User fields.
var knownFields = []string{
	"id", "_id", "role", "type", "userType", "name", "email", "phone", "restaurantName",
}

// User is the console user record kept in memory and mirrored in the credential store.
type User struct {
	ID             string         `json:"id,omitempty"`
	Role           Role           `json:"role"`
	Name           string         `json:"name,omitempty"`
	RestaurantName string         `json:"restaurantName,omitempty"`
	Email          string         `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Attributes     map[string]any `json:"attributes,omitempty"`
}

// UserFromPayload builds a user from a login payload.
// Secrets are stripped and role is forced to the given value, since backends do
// not always echo it back.
func UserFromPayload(payload map[string]any, role Role) *User {
	u := &User{Role: role}

	if payload == nil {
		return u
	}

	u.ID = cast.ToString(payload["id"])
	if u.ID == "" {
		u.ID = cast.ToString(payload["_id"])
	}

	u.Name = cast.ToString(payload["name"])
	u.Email = cast.ToString(payload["email"])
	u.Phone = cast.ToString(payload["phone"])
	u.RestaurantName = cast.ToString(payload["restaurantName"])

	if sub, ok := payload["restaurant"].(map[string]any); ok && u.RestaurantName == "" {
		u.RestaurantName = cast.ToString(sub["name"])
	}

	for k, v := range payload {
		if contains(secretFields, k) || contains(knownFields, k) {
			continue
		}

		if u.Attributes == nil {
			u.Attributes = make(map[string]any)
		}

		u.Attributes[k] = v
	}

	return u
}

// DecodeUser parses a stored user record. The role is normalized from the raw
// document so older records written with "type" or "superadmin" still load.
func DecodeUser(data []byte) (*User, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	role, err := NormalizeRole(raw)
	if err != nil {
		return nil, err
	}

	var u User
	if err = json.Unmarshal(data, &u); err != nil {
		return nil, err
	}

	u.Role = role

	return &u, nil
}

// DisplayName returns the name shown in the console header.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.Role == RoleRestaurant && u.RestaurantName != "":
		return u.RestaurantName
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
