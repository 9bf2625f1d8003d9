package entity

// Role es el conjunto cerrado de roles del sistema. El bypass de aislamiento
// multi-tenant se decide con IsSuperAdmin(), nunca comparando strings en los
// puntos de uso.
type Role string

const (
	RoleSuperAdmin Role = "super_admin" // opera sobre cualquier empresa
	RoleAdmin      Role = "admin"       // administra su empresa (usuarios incluidos)
	RoleEmisor     Role = "emisor"      // emite comprobantes y gestiona clientes
	RoleConsultor  Role = "consultor"   // solo lectura
)

// Abilities que pueden viajar en un token. La de super_admin es el comodín "*".
const (
	AbilityAll             = "*"
	AbilityDocumentsEmit   = "documents:emit"
	AbilityDocumentsRead   = "documents:read"
	AbilitySummariesManage = "summaries:manage"
	AbilityClientsManage   = "clients:manage"
	AbilityBranchesManage  = "branches:manage"
	AbilityUsersManage     = "users:manage"
	AbilityCompanyRead     = "company:read"
	AbilityCompanyManage   = "company:manage"
)

// Valid indica si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEmisor, RoleConsultor:
		return true
	}
	return false
}

// IsSuperAdmin indica si el rol salta todas las verificaciones de tenant.
func (r Role) IsSuperAdmin() bool { return r == RoleSuperAdmin }

// Abilities devuelve el conjunto de permisos del rol. Se fija en el token al
// emitirlo; cambiar el rol de un usuario no afecta tokens ya emitidos.
func (r Role) Abilities() []string {
	switch r {
	case RoleSuperAdmin:
		return []string{AbilityAll}
	case RoleAdmin:
		return []string{
			AbilityDocumentsEmit, AbilityDocumentsRead, AbilitySummariesManage,
			AbilityClientsManage, AbilityBranchesManage, AbilityUsersManage,
			AbilityCompanyRead, AbilityCompanyManage,
		}
	case RoleEmisor:
		return []string{
			AbilityDocumentsEmit, AbilityDocumentsRead, AbilitySummariesManage,
			AbilityClientsManage, AbilityCompanyRead,
		}
	case RoleConsultor:
		return []string{AbilityDocumentsRead, AbilityCompanyRead}
	}
	return nil
}
