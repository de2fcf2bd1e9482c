// Package hibp consulta el API de rangos de Have I Been Pwned para saber si
// una contraseña aparece en corpus de brechas conocidas. Se usa k-anonimato:
// solo viajan los primeros 5 caracteres hex del SHA-1 de la contraseña.
package hibp

import (
	"bufio"
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strings"

	"github.com/vacunaspa/registro-api/internal/application/usuario"
	"github.com/vacunaspa/registro-api/pkg/config"
)

var _ usuario.CompromisoChecker = (*Checker)(nil)

// Checker implementación del oráculo de contraseñas comprometidas.
type Checker struct {
	baseURL string
	client  *http.Client
}

// NewChecker construye el verificador con la configuración dada.
func NewChecker(cfg config.HIBPConfig) *Checker {
	return &Checker{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// IsPasswordCompromised reporta si la contraseña aparece en el corpus. El
// protocolo de rangos exige SHA-1; no se usa con fines criptográficos.
func (c *Checker) IsPasswordCompromised(ctx context.Context, password string) (bool, error) {
	sum := sha1.Sum([]byte(password))
	hash := strings.ToUpper(fmt.Sprintf("%x", sum))
	prefix, suffix := hash[:5], hash[5:]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Add-Padding", "true")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("hibp: consultar rango: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("hibp: status inesperado %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		// Formato: SUFIJO:CONTEO. Con padding el conteo puede ser 0.
		hashPart, countPart, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(hashPart, suffix) && strings.TrimSpace(countPart) != "0" {
			return true, nil
		}
	}
	return false, scanner.Err()
}
