package accounts

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleSeller   UserRole = "seller"
)

func (r UserRole) Valid() bool { return r == RoleCustomer || r == RoleSeller }

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         UserRole  `json:"role"`
	Avatar       string    `json:"avatar,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type AdminRole string

const (
	RoleSuperAdmin     AdminRole = "superadmin"
	RoleProductManager AdminRole = "product-manager"
	RoleOrderManager   AdminRole = "order-manager"
)

func (r AdminRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleProductManager, RoleOrderManager:
		return true
	}
	return false
}

type Admin struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Department   string    `json:"department,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Address struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	FullName     string    `json:"fullName"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state,omitempty"`
	PostalCode   string    `json:"postalCode"`
	Country      string    `json:"country"`
	IsDefault    bool      `json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
}
