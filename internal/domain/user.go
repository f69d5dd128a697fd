package domain

// UserRole represents the global role of a user within its tenant
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleWorker  UserRole = "worker"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleWorker:
		return true
	}
	return false
}

// User represents an authenticated principal. Tenant is an opaque isolation
// identifier; it is only ever compared inside the access package.
type User struct {
	BaseModel
	Name         string   `gorm:"type:varchar(150);not null" json:"name"`
	Email        string   `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	PasswordHash string   `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'worker';index:idx_users_role" json:"role"`
	Tenant       string   `gorm:"type:varchar(120);not null;index:idx_users_tenant" json:"tenant"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
