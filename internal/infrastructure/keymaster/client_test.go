package keymaster_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docvault-api/internal/application/keys"
	"github.com/jhoicas/docvault-api/internal/infrastructure/keymaster"
)

const signedKey = `{"id":"key-msg-1","cle":"mF4…"}`

// ──────────────────────────────────────────────────────────────────────────────
// AttachKey
// ──────────────────────────────────────────────────────────────────────────────

// Caso feliz: el custodio acepta la llave; la correlación viaja en el header.
func TestAttachKey_Aceptada(t *testing.T) {
	var gotCorrelation string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/keys/attach", r.URL.Path)
		gotCorrelation = r.Header.Get("X-Correlation-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := keymaster.NewClient(srv.URL, time.Second)
	err := client.AttachKey(context.Background(), []byte(signedKey), "key-msg-1")
	require.NoError(t, err)
	assert.Equal(t, "key-msg-1", gotCorrelation)
}

// Rechazo explícito → código 3 con el mensaje del custodio.
func TestAttachKey_RechazoExplicito(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"message":"firma inválida"}`))
	}))
	defer srv.Close()

	client := keymaster.NewClient(srv.URL, time.Second)
	err := client.AttachKey(context.Background(), []byte(signedKey), "key-msg-1")

	var delegationErr *keys.DelegationError
	require.ErrorAs(t, err, &delegationErr)
	assert.Equal(t, keys.CodeRejected, delegationErr.Code)
	assert.Equal(t, "firma inválida", delegationErr.Message)
}

// Respuesta indescifrable o sin el campo ok → código 2.
func TestAttachKey_RespuestaInesperada(t *testing.T) {
	bodies := []string{`no-es-json`, `{"otra":"cosa"}`}
	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		client := keymaster.NewClient(srv.URL, time.Second)
		err := client.AttachKey(context.Background(), []byte(signedKey), "key-msg-1")
		srv.Close()

		var delegationErr *keys.DelegationError
		require.ErrorAs(t, err, &delegationErr, "cuerpo %q", body)
		assert.Equal(t, keys.CodeBadResponse, delegationErr.Code)
	}
}

// El custodio no responde dentro del plazo → código 1.
func TestAttachKey_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := keymaster.NewClient(srv.URL, 50*time.Millisecond)
	err := client.AttachKey(context.Background(), []byte(signedKey), "key-msg-1")

	var delegationErr *keys.DelegationError
	require.ErrorAs(t, err, &delegationErr)
	assert.Equal(t, keys.CodeTimeout, delegationErr.Code)
}

// Un contexto con plazo vencido también se clasifica como timeout del
// protocolo.
func TestAttachKey_ContextoVencido(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := keymaster.NewClient(srv.URL, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.AttachKey(ctx, []byte(signedKey), "key-msg-1")

	var delegationErr *keys.DelegationError
	require.ErrorAs(t, err, &delegationErr)
	assert.Equal(t, keys.CodeTimeout, delegationErr.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequestRekey
// ──────────────────────────────────────────────────────────────────────────────

// La respuesta se retransmite tal cual: status y cuerpo sin interpretar.
func TestRequestRekey_Retransmision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/keys/rekey", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"cles":{"key-1":"recifrada"}}`))
	}))
	defer srv.Close()

	client := keymaster.NewClient(srv.URL, time.Second)
	res, err := client.RequestRekey(context.Background(), keys.RekeyRequest{
		Domain: "DocVault",
		KeyIDs: []string{"key-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"cles":{"key-1":"recifrada"}}`, string(res.Body))
}

func TestRequestRekey_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := keymaster.NewClient(srv.URL, 50*time.Millisecond)
	_, err := client.RequestRekey(context.Background(), keys.RekeyRequest{KeyIDs: []string{"key-1"}})

	var delegationErr *keys.DelegationError
	require.ErrorAs(t, err, &delegationErr)
	assert.Equal(t, keys.CodeTimeout, delegationErr.Code)
}
