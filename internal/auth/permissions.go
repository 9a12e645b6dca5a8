package auth

import "transport_backend/internal/models"

// Разрешения по типам пользователей
const (
	PermUsersCreate    = "users:create"
	PermUsersUpdateAny = "users:update"
	PermUsersSetType   = "users:set_type"
	PermUsersUpdateOwn = "users:update:self"
)

var Permissions = map[models.UserType][]string{
	models.UserTypeAdmin: {
		PermUsersCreate,
		PermUsersUpdateAny,
		PermUsersSetType,
		PermUsersUpdateOwn,
	},
	models.UserTypeDriver: {
		PermUsersUpdateOwn,
	},
	models.UserTypeCustomer: {
		PermUsersUpdateOwn,
	},
}

// HasPermission проверяет есть ли у типа пользователя указанное разрешение
func HasPermission(userType models.UserType, permission string) bool {
	for _, p := range Permissions[userType] {
		if p == permission {
			return true
		}
	}
	return false
}

// CanUpdateUser - может ли actor изменять профиль target.
func CanUpdateUser(actorID string, actorType models.UserType, targetID string) bool {
	if HasPermission(actorType, PermUsersUpdateAny) {
		return true
	}
	return actorID == targetID && HasPermission(actorType, PermUsersUpdateOwn)
}
