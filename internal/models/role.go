package models

import "strings"

// Role — метка роли. Система признаёт ровно три.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleManager       Role = "Manager" // síndico
	RoleTenant        Role = "Tenant"  // morador
)

// Roles — каталог ролей в порядке отображения в форме регистрации.
var Roles = []Role{RoleAdministrator, RoleManager, RoleTenant}

// ParseRole возвращает роль по её метке (без учёта регистра и пробелов).
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Roles {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

func (r Role) String() string { return string(r) }
