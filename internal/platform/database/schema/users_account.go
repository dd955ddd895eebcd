package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Role        string
	IsSuperuser string
	IsStaff     string
	Bio         string
	FirstName   string
	LastName    string
	CreatedAt   string
	UpdatedAt   string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Role:        "role",
	IsSuperuser: "issuperuser",
	IsStaff:     "isstaff",
	Bio:         "bio",
	FirstName:   "firstname",
	LastName:    "lastname",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
