package domain

import "time"

const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

type User struct {
	Username  string
	FullName  string
	Email     string
	Role      string
	CreatedAt time.Time
}
