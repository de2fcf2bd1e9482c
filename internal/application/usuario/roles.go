// Package usuario contiene el núcleo de registro y autorización: catálogo de
// roles con jerarquía, validación de registro, estrategias de creación de
// cuentas y el servicio orquestador.
package usuario

import (
	"strings"

	"github.com/vacunaspa/registro-api/internal/domain"
)

// RolEnum rol del catálogo estático. La prioridad ordena estrictamente los
// roles: mayor prioridad implica mayor autoridad para la jerarquía.
type RolEnum struct {
	Nombre   string
	Priority int
	Permisos []string
}

// Catálogo de roles, inmutable después del arranque del proceso.
var (
	RolPaciente = RolEnum{Nombre: "PACIENTE", Priority: 1, Permisos: []string{
		"PACIENTE_READ",
	}}
	RolFabricante = RolEnum{Nombre: "FABRICANTE", Priority: 2, Permisos: []string{
		"FABRICANTE_READ", "FABRICANTE_WRITE",
	}}
	RolEnfermera = RolEnum{Nombre: "ENFERMERA", Priority: 3, Permisos: []string{
		"PACIENTE_READ", "DOSIS_WRITE",
	}}
	RolDoctor = RolEnum{Nombre: "DOCTOR", Priority: 4, Permisos: []string{
		"PACIENTE_READ", "PACIENTE_WRITE", "DOSIS_WRITE",
	}}
	RolAdministrativo = RolEnum{Nombre: "ADMINISTRATIVO", Priority: 5, Permisos: []string{
		"ADMINISTRATIVO_READ", "ADMINISTRATIVO_WRITE",
	}}
	RolAutoridad = RolEnum{Nombre: "AUTORIDAD", Priority: 6, Permisos: []string{
		"AUTORIDAD_READ", "AUTORIDAD_WRITE",
	}}
	RolUserManager = RolEnum{Nombre: "USER_MANAGER", Priority: 7, Permisos: []string{
		"USER_MANAGER_READ", "USER_MANAGER_WRITE",
	}}
)

var catalogoRoles = map[string]RolEnum{
	RolPaciente.Nombre:       RolPaciente,
	RolFabricante.Nombre:     RolFabricante,
	RolEnfermera.Nombre:      RolEnfermera,
	RolDoctor.Nombre:         RolDoctor,
	RolAdministrativo.Nombre: RolAdministrativo,
	RolAutoridad.Nombre:      RolAutoridad,
	RolUserManager.Nombre:    RolUserManager,
}

// permisos que habilitan la gestión de usuarios de terceros.
var permisosGestionUsuarios = []string{
	"ADMINISTRATIVO_WRITE",
	"AUTORIDAD_WRITE",
	"USER_MANAGER_WRITE",
}

// ResolveRol busca un rol por nombre, sin distinguir mayúsculas. Devuelve
// domain.ErrNotFound si el nombre no pertenece al catálogo.
func ResolveRol(nombre string) (RolEnum, error) {
	rol, ok := catalogoRoles[strings.ToUpper(strings.TrimSpace(nombre))]
	if !ok {
		return RolEnum{}, domain.ErrNotFound
	}
	return rol, nil
}

// PriorityOf devuelve la prioridad del rol con ese nombre, o 0 si no existe.
func PriorityOf(nombre string) int {
	rol, err := ResolveRol(nombre)
	if err != nil {
		return 0
	}
	return rol.Priority
}

// MaxPriority devuelve la prioridad máxima entre los roles dados; es el nivel
// de autoridad efectivo del actor para los chequeos de jerarquía.
func MaxPriority(roles []RolEnum) int {
	max := 0
	for _, r := range roles {
		if r.Priority > max {
			max = r.Priority
		}
	}
	return max
}

// RolesFromScope convierte el scope autenticado (nombres de rol, con o sin el
// prefijo ROLE_) a roles del catálogo, descartando los desconocidos.
func RolesFromScope(scope []string) []RolEnum {
	roles := make([]RolEnum, 0, len(scope))
	for _, s := range scope {
		s = strings.TrimPrefix(strings.TrimSpace(s), "ROLE_")
		if s == "" {
			continue
		}
		if rol, err := ResolveRol(s); err == nil {
			roles = append(roles, rol)
		}
	}
	return roles
}

// tieneGestionUsuarios reporta si alguno de los roles porta un permiso de
// gestión de usuarios.
func tieneGestionUsuarios(roles []RolEnum) bool {
	for _, rol := range roles {
		for _, p := range rol.Permisos {
			for _, g := range permisosGestionUsuarios {
				if p == g {
					return true
				}
			}
		}
	}
	return false
}
