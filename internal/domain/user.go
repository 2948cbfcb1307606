package domain

const RoleAdmin = "ROLE_ADMIN"

// User is the signed-in shopper as reported by the auth API.
type User struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func (u User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// Credentials pairs the user with the bearer token issued at login.
type Credentials struct {
	User  User
	Token string
}
