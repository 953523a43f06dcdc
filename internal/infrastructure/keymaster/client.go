// Package keymaster implementa el cliente HTTP del servicio custodio de
// llaves. Traduce los fallos de transporte y de protocolo al error tipado de
// la capa de aplicación: el llamador nunca ve un fallo crudo de red.
package keymaster

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jhoicas/docvault-api/internal/application/keys"
)

var _ keys.Custodian = (*Client)(nil)

// Client implementa keys.Custodian contra la API HTTP del custodio.
// Usa net/http de la stdlib; no requiere librerías de terceros.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient construye el cliente. timeout acota cada intercambio completo;
// vencido el plazo el resultado es el código de timeout del protocolo.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// attachResponse respuesta del custodio a la entrega de una llave.
type attachResponse struct {
	Ok      *bool  `json:"ok"`
	Message string `json:"message,omitempty"`
}

// AttachKey entrega el mensaje de llave firmado. El resultado se clasifica en
// los tres códigos del protocolo: timeout, respuesta de forma inesperada o
// rechazo explícito.
func (c *Client) AttachKey(ctx context.Context, signedKey []byte, correlationID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/keys/attach", bytes.NewReader(signedKey))
	if err != nil {
		return fmt.Errorf("keymaster: construir petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-ID", correlationID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &keys.DelegationError{Code: keys.CodeTimeout, Message: "el custodio no respondió dentro del plazo"}
		}
		return &keys.DelegationError{Code: keys.CodeBadResponse, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &keys.DelegationError{Code: keys.CodeBadResponse, Message: "respuesta ilegible del custodio"}
	}

	var parsed attachResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Ok == nil {
		return &keys.DelegationError{Code: keys.CodeBadResponse, Message: "respuesta de tipo inesperado del custodio"}
	}
	if !*parsed.Ok {
		msg := parsed.Message
		if msg == "" {
			msg = "el custodio rechazó la llave"
		}
		return &keys.DelegationError{Code: keys.CodeRejected, Message: msg}
	}
	return nil
}

// RequestRekey reenvía la solicitud de recifrado y devuelve la respuesta del
// custodio tal cual, para retransmitirla al solicitante original.
func (c *Client) RequestRekey(ctx context.Context, rekeyReq keys.RekeyRequest) (*keys.RekeyResult, error) {
	payload, err := json.Marshal(rekeyReq)
	if err != nil {
		return nil, fmt.Errorf("keymaster: serializar solicitud: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/keys/rekey", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("keymaster: construir petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &keys.DelegationError{Code: keys.CodeTimeout, Message: "el custodio no respondió dentro del plazo"}
		}
		return nil, &keys.DelegationError{Code: keys.CodeBadResponse, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &keys.DelegationError{Code: keys.CodeBadResponse, Message: "respuesta ilegible del custodio"}
	}
	return &keys.RekeyResult{Status: resp.StatusCode, Body: body}, nil
}

// isTimeout distingue el vencimiento de plazo (propio o del contexto) de los
// demás fallos de transporte.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
