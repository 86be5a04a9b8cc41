// Package ledger implementa el cliente del servicio de notarización
// blockchain. El acta se envía junto con su digest Keccak-256; el servicio
// responde el hash de la transacción asentada en la cadena.
package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/1gnale/car-chain-api/internal/application/notary"
	"github.com/1gnale/car-chain-api/internal/domain"
	"github.com/1gnale/car-chain-api/internal/domain/entity"
)

var _ notary.Notario = (*HTTPNotary)(nil)

// HTTPNotary cliente HTTP del ledger.
type HTTPNotary struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPNotary construye el cliente. El timeout por llamada lo gobierna el
// contexto del despachador; el del cliente es solo una red de contención.
func NewHTTPNotary(baseURL, apiKey string, timeout time.Duration) *HTTPNotary {
	return &HTTPNotary{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type solicitudNotarizacion struct {
	Acta   entity.ActaNotarial `json:"acta"`
	Digest string              `json:"digest"`
}

type respuestaNotarizacion struct {
	Hash string `json:"hash"`
}

// Notarizar asienta el acta y devuelve el hash de la transacción.
func (n *HTTPNotary) Notarizar(ctx context.Context, acta entity.ActaNotarial) (string, error) {
	digest, err := DigestActa(acta)
	if err != nil {
		return "", err
	}

	cuerpo, err := json.Marshal(solicitudNotarizacion{Acta: acta, Digest: digest})
	if err != nil {
		return "", fmt.Errorf("marshal solicitud: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/api/notarizaciones", bytes.NewReader(cuerpo))
	if err != nil {
		return "", fmt.Errorf("armar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("X-Api-Key", n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrServicioExterno, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: ledger respondió %d", domain.ErrServicioExterno, resp.StatusCode)
	}

	var r respuestaNotarizacion
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("%w: decodificar respuesta: %v", domain.ErrServicioExterno, err)
	}
	if r.Hash == "" {
		return "", fmt.Errorf("%w: respuesta sin hash", domain.ErrServicioExterno)
	}
	return r.Hash, nil
}

// DigestActa calcula el digest Keccak-256 de la representación JSON canónica
// del acta. El mismo acta produce siempre el mismo digest, lo que permite
// verificar la integridad contra lo asentado en la cadena.
func DigestActa(acta entity.ActaNotarial) (string, error) {
	b, err := json.Marshal(acta)
	if err != nil {
		return "", fmt.Errorf("marshal acta: %w", err)
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	return "0x" + hex.EncodeToString(h.Sum(nil)), nil
}
