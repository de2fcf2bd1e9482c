package usuario_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vacunaspa/registro-api/internal/application/dto"
	"github.com/vacunaspa/registro-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs en memoria para los puertos de persistencia y servicios externos.
// ──────────────────────────────────────────────────────────────────────────────

// usuarioRepoStub repositorio de usuarios en memoria, indexado por ID y
// username.
type usuarioRepoStub struct {
	porID       map[string]*entity.Usuario
	porUsername map[string]*entity.Usuario
	failWith    error // si no es nil, todas las operaciones fallan
}

func newUsuarioRepoStub() *usuarioRepoStub {
	return &usuarioRepoStub{
		porID:       map[string]*entity.Usuario{},
		porUsername: map[string]*entity.Usuario{},
	}
}

func (r *usuarioRepoStub) agregar(u *entity.Usuario) {
	r.porID[u.ID] = u
	r.porUsername[strings.ToLower(u.Username)] = u
}

func (r *usuarioRepoStub) Create(_ context.Context, u *entity.Usuario) (*entity.Usuario, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	copia := *u
	r.agregar(&copia)
	return &copia, nil
}

func (r *usuarioRepoStub) Save(_ context.Context, u *entity.Usuario) error {
	if r.failWith != nil {
		return r.failWith
	}
	copia := *u
	r.agregar(&copia)
	return nil
}

func (r *usuarioRepoStub) FindByID(_ context.Context, id string) (*entity.Usuario, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.porID[id], nil
}

func (r *usuarioRepoStub) FindByUsername(_ context.Context, username string) (*entity.Usuario, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.porUsername[strings.ToLower(username)], nil
}

func (r *usuarioRepoStub) FindByCredencialesPersona(_ context.Context, _, _, _ string) (*entity.Usuario, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return nil, nil
}

func (r *usuarioRepoStub) FindByCredencialesFabricante(_ context.Context, _, _ string) (*entity.Usuario, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return nil, nil
}

// personaRepoStub repositorio de personas en memoria.
type personaRepoStub struct {
	porID        map[string]*entity.Persona
	porUsuarioID map[string]*entity.Persona
}

func newPersonaRepoStub() *personaRepoStub {
	return &personaRepoStub{
		porID:        map[string]*entity.Persona{},
		porUsuarioID: map[string]*entity.Persona{},
	}
}

func (r *personaRepoStub) FindByID(_ context.Context, id string) (*entity.Persona, error) {
	return r.porID[id], nil
}

func (r *personaRepoStub) FindByUsuarioID(_ context.Context, usuarioID string) (*entity.Persona, error) {
	return r.porUsuarioID[usuarioID], nil
}

// fabricanteRepoStub repositorio de fabricantes en memoria, indexado por
// licencia. Registra los vínculos realizados para que los tests los verifiquen.
type fabricanteRepoStub struct {
	porLicencia map[string]*entity.Fabricante
	vinculados  map[string]string // fabricanteID -> usuarioID
	failWith    error
}

func newFabricanteRepoStub() *fabricanteRepoStub {
	return &fabricanteRepoStub{
		porLicencia: map[string]*entity.Fabricante{},
		vinculados:  map[string]string{},
	}
}

func (r *fabricanteRepoStub) FindByLicencia(_ context.Context, licencia string) (*entity.Fabricante, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	return r.porLicencia[licencia], nil
}

func (r *fabricanteRepoStub) FindByUsuarioID(_ context.Context, usuarioID string) (*entity.Fabricante, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, f := range r.porLicencia {
		if f.UsuarioID == usuarioID {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fabricanteRepoStub) VincularUsuario(_ context.Context, fabricanteID, usuarioID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.vinculados[fabricanteID] = usuarioID
	for _, f := range r.porLicencia {
		if f.ID == fabricanteID {
			f.UsuarioID = usuarioID
		}
	}
	return nil
}

// compromisoStub oráculo de contraseñas comprometidas con lista fija.
type compromisoStub struct {
	comprometidas map[string]bool
	failWith      error
}

func (c *compromisoStub) IsPasswordCompromised(_ context.Context, password string) (bool, error) {
	if c.failWith != nil {
		return false, c.failWith
	}
	return c.comprometidas[password], nil
}

// tokenIssuerStub emisor de tokens trivial para tests de login.
type tokenIssuerStub struct {
	emitidos int
	failWith error
}

func (t *tokenIssuerStub) GenerateTokenPair(_ context.Context, usuarioID string, _ []string, _ map[string]string) (*dto.TokenPairResponse, error) {
	if t.failWith != nil {
		return nil, t.failWith
	}
	t.emitidos++
	return &dto.TokenPairResponse{
		AccessToken:  "access-" + usuarioID,
		RefreshToken: "refresh-" + usuarioID,
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}, nil
}

// tokenStoreStub almacén de tokens en memoria con vigencia ignorada.
type tokenStoreStub struct {
	access   map[string]bool // usuarioID:tokenID
	refresh  map[string]bool
	failWith error
}

func newTokenStoreStub() *tokenStoreStub {
	return &tokenStoreStub{access: map[string]bool{}, refresh: map[string]bool{}}
}

func clave(usuarioID, tokenID string) string { return usuarioID + ":" + tokenID }

func (s *tokenStoreStub) RegistrarPar(_ context.Context, usuarioID, tokenID string, _, _ time.Duration) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.access[clave(usuarioID, tokenID)] = true
	s.refresh[clave(usuarioID, tokenID)] = true
	return nil
}

func (s *tokenStoreStub) IsAccessTokenValid(_ context.Context, usuarioID, tokenID string) (bool, error) {
	if s.failWith != nil {
		return false, s.failWith
	}
	return s.access[clave(usuarioID, tokenID)], nil
}

func (s *tokenStoreStub) IsRefreshTokenValid(_ context.Context, usuarioID, tokenID string) (bool, error) {
	if s.failWith != nil {
		return false, s.failWith
	}
	return s.refresh[clave(usuarioID, tokenID)], nil
}

func (s *tokenStoreStub) Revocar(_ context.Context, usuarioID, tokenID string) error {
	if s.failWith != nil {
		return s.failWith
	}
	delete(s.access, clave(usuarioID, tokenID))
	delete(s.refresh, clave(usuarioID, tokenID))
	return nil
}

var errPersistencia = errors.New("persistencia no disponible")

// codigos extrae los códigos de una lista de errores de API, en orden.
func codigos(errs []dto.ApiError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}
