package auth

import (
	"github.com/DishDash-Admin/DishDash-Admin/internal/identity"
)

// Endpoints are the backend paths used by the auth layer.
type Endpoints struct {
	SuperAdminLogin string `mapstructure:"superAdminLogin" toml:"superAdminLogin" json:"superAdminLogin"`
	RestaurantLogin string `mapstructure:"restaurantLogin" toml:"restaurantLogin" json:"restaurantLogin"`
	DeliveryLogin   string `mapstructure:"deliveryLogin" toml:"deliveryLogin" json:"deliveryLogin"`
	GenericLogin    string `mapstructure:"genericLogin" toml:"genericLogin" json:"genericLogin"`
	Logout          string `mapstructure:"logout" toml:"logout" json:"logout"`
}

// DefaultEndpoints returns the paths of the food-delivery backend.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		SuperAdminLogin: "/api/superadmin/login",
		RestaurantLogin: "/api/restaurant/login",
		DeliveryLogin:   "/api/delivery/login",
		GenericLogin:    "/api/auth/login",
		Logout:          "/api/auth/logout",
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type roleCredentials struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Role     identity.Role `json:"role"`
}

// loginCall returns the path and body for a login as role.
func (e Endpoints) loginCall(role identity.Role, email, password string) (string, any) {
	switch role {
	case identity.RoleSuperAdmin:
		return e.SuperAdminLogin, credentials{Email: email, Password: password}
	case identity.RoleRestaurant:
		return e.RestaurantLogin, credentials{Email: email, Password: password}
	case identity.RoleDelivery:
		return e.DeliveryLogin, credentials{Email: email, Password: password}
	default:
		return e.GenericLogin, roleCredentials{Email: email, Password: password, Role: role}
	}
}
