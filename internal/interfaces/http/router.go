package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vacunaspa/registro-api/internal/application/certificado"
	"github.com/vacunaspa/registro-api/internal/application/usuario"
	"github.com/vacunaspa/registro-api/internal/application/vacunacion"
	"github.com/vacunaspa/registro-api/internal/domain/repository"
	"github.com/vacunaspa/registro-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UsuarioSvc    *usuario.Service
	TokenSvc      *usuario.TokenService
	VacunacionUC  *vacunacion.UseCase
	CertificadoUC *certificado.UseCase
	TokenStore    repository.TokenStore
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API bajo /vacunacion/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/vacunacion/v1")

	usuarioHandler := NewUsuarioHandler(deps.UsuarioSvc, deps.TokenSvc)
	vacunaHandler := NewVacunaHandler(deps.VacunacionUC)
	certificadoHandler := NewCertificadoHandler(deps.CertificadoUC)

	// Registro: anónimo o con credencial (scope de autoridad opcional).
	// El filtro de tokens corre también aquí para credenciales presentes.
	tokenFilter := TokenValidityFilter(deps.TokenStore, deps.UsuarioSvc, deps.Log)
	usuarios := api.Group("/usuarios")
	usuarios.Post("/register", OptionalAuthMiddleware(deps.JWTSecret), tokenFilter, usuarioHandler.Register)
	usuarios.Post("/login", usuarioHandler.Login)
	usuarios.Patch("/restore", usuarioHandler.Restore)

	// Rutas autenticadas: JWT + vigencia contra el almacén de tokens.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), tokenFilter)

	protected.Post("/token/refresh", usuarioHandler.Refresh)
	protected.Get("/usuarios/me", usuarioHandler.Me)

	protected.Post("/dosis",
		RequireRole(usuario.RolDoctor.Nombre, usuario.RolEnfermera.Nombre, usuario.RolAutoridad.Nombre),
		vacunaHandler.CreateDosis)
	protected.Get("/pacientes/:id/dosis", vacunaHandler.GetDosisPaciente)
	protected.Get("/pacientes/:id/certificado/pdf", certificadoHandler.Descargar)
}
