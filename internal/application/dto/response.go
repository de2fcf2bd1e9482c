package dto

// Códigos de la API. Las violaciones de reglas de negocio viajan como datos en
// la respuesta, nunca como errores de Go entre componentes.
const (
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeMissingInformation    = "MISSING_INFORMATION"
	CodeAlreadyTaken          = "ALREADY_TAKEN"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeNotFound              = "NOT_FOUND"
	CodePermissionDenied      = "PERMISSION_DENIED"
	CodeRolHierarchyViolation = "ROL_HIERARCHY_VIOLATION"
	CodeCompromisedPassword   = "COMPROMISED_PASSWORD"
	CodeNonIdempotence        = "NON_IDEMPOTENCE"
	CodeInformationIgnored    = "INFORMATION_IGNORED"
	CodeUpdateUnsupported     = "API_UPDATE_UNSUPPORTED"
)

// ApiError error u observación con atribución opcional a una propiedad del
// cuerpo de la petición.
type ApiError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Property string `json:"property,omitempty"`
}

// ApiResponse sobre estándar de la API: datos, errores bloqueantes y
// advertencias no bloqueantes.
type ApiResponse struct {
	Data     map[string]any `json:"data"`
	Errors   []ApiError     `json:"errors"`
	Warnings []ApiError     `json:"warnings"`
}

// NewApiResponse construye una respuesta vacía con colecciones inicializadas
// para que el JSON serialice [] y {} en lugar de null.
func NewApiResponse() *ApiResponse {
	return &ApiResponse{
		Data:     map[string]any{},
		Errors:   []ApiError{},
		Warnings: []ApiError{},
	}
}

// AddData agrega un valor bajo la clave dada.
func (r *ApiResponse) AddData(key string, value any) *ApiResponse {
	r.Data[key] = value
	return r
}

// AddError agrega un error bloqueante.
func (r *ApiResponse) AddError(code, message, property string) *ApiResponse {
	r.Errors = append(r.Errors, ApiError{Code: code, Message: message, Property: property})
	return r
}

// AddErrors agrega una lista de errores conservando el orden.
func (r *ApiResponse) AddErrors(errs []ApiError) *ApiResponse {
	r.Errors = append(r.Errors, errs...)
	return r
}

// AddWarning agrega una advertencia no bloqueante.
func (r *ApiResponse) AddWarning(code, message, property string) *ApiResponse {
	r.Warnings = append(r.Warnings, ApiError{Code: code, Message: message, Property: property})
	return r
}

// AddWarnings agrega una lista de advertencias.
func (r *ApiResponse) AddWarnings(warns []ApiError) *ApiResponse {
	r.Warnings = append(r.Warnings, warns...)
	return r
}

// HasErrors reporta si hay errores bloqueantes acumulados.
func (r *ApiResponse) HasErrors() bool {
	return len(r.Errors) > 0
}

// Merge incorpora datos, errores y advertencias de otra respuesta.
func (r *ApiResponse) Merge(other *ApiResponse) *ApiResponse {
	if other == nil {
		return r
	}
	for k, v := range other.Data {
		r.Data[k] = v
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	return r
}

// ErrorResponse cuerpo de error HTTP simple para fallos de transporte
// (token ausente, cuerpo malformado). Las reglas de negocio usan ApiResponse.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
