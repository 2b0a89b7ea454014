package identity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserFromPayload(t *testing.T) {
	payload := map[string]any{
		"id":       float64(42),
		"token":    "t1",
		"password": "pw",
		"name":     "X",
		"email":    "a@b.com",
		"role":     "customer",
		"plan":     "gold",
	}

	u := UserFromPayload(payload, RoleRestaurant)

	assert.Equal(t, "42", u.ID)
	assert.Equal(t, RoleRestaurant, u.Role)
	assert.Equal(t, "X", u.Name)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, map[string]any{"plan": "gold"}, u.Attributes)

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "t1")
	assert.NotContains(t, string(out), "pw")
}

func TestUserFromPayload_RestaurantName(t *testing.T) {
	u := UserFromPayload(map[string]any{
		"_id":        "abc",
		"restaurant": map[string]any{"name": "Pizza Place"},
	}, RoleRestaurant)

	assert.Equal(t, "abc", u.ID)
	assert.Equal(t, "Pizza Place", u.RestaurantName)
	assert.Equal(t, "Pizza Place", u.DisplayName())
}

func TestDecodeUser(t *testing.T) {
	u, err := DecodeUser([]byte(`{"id":"1","role":"superadmin","name":"Root"}`))
	require.NoError(t, err)
	assert.Equal(t, RoleSuperAdmin, u.Role)
	assert.Equal(t, "Root", u.Name)

	_, err = DecodeUser([]byte(`{"id":"1","name":"Root"}`))
	assert.ErrorIs(t, err, ErrMissingRole)

	_, err = DecodeUser([]byte(`not json`))
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	var nilUser *User

	assert.Equal(t, "", nilUser.DisplayName())
	assert.Equal(t, "Ann", (&User{Role: RoleSuperAdmin, Name: "Ann"}).DisplayName())
	assert.Equal(t, "ann@x.io", (&User{Role: RoleDelivery, Email: "ann@x.io"}).DisplayName())
}
