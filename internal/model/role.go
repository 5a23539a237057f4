package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, MANAGER, CAJERO
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleCashier = "CAJERO"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrador",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleManager,
		Name:        "Encargado",
		Description: "Catalog, inventory and reporting access without user management",
	},
	{
		Code:        RoleCashier,
		Name:        "Cajero",
		Description: "Sales and receipt printing only",
	},
}
