package model

type UserRole string

const (
	UserRoleCustomer   UserRole = "CUSTOMER"
	UserRoleRestaurant UserRole = "RESTAURANT"
	UserRoleDriver     UserRole = "DRIVER"
	UserRoleAdmin      UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleCustomer, UserRoleRestaurant, UserRoleDriver, UserRoleAdmin:
		return true
	}
	return false
}
