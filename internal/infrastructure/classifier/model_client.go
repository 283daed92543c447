// Package classifier contiene los adaptadores del puerto RemoteClassifier:
// el modelo propio expuesto por HTTP y un LLM vía la API de Anthropic.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/antifraude-api/internal/application/ports"
	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
)

var _ ports.RemoteClassifier = (*ModelClient)(nil)

const maxResponseBytes = 64 * 1024

// ModelClient cliente del servicio de clasificación propio.
// Protocolo: POST {"text": "..."} -> {"is_fraud": bool, "fraud_type": "...", "analysis_detail": "..."}.
type ModelClient struct {
	url        string
	httpClient *http.Client
}

// NewModelClient construye el cliente. timeout es el límite de red por llamada;
// el pipeline además impone su propio context.WithTimeout.
func NewModelClient(url string, timeout time.Duration) *ModelClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ModelClient{url: url, httpClient: &http.Client{Timeout: timeout}}
}

type modelRequest struct {
	Text string `json:"text"`
}

// ClassifyRemote envía el texto al modelo. Todo fallo envuelve domain.ErrRemoteUnavailable.
func (c *ModelClient) ClassifyRemote(ctx context.Context, text string) (*entity.ClassificationResult, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: CLASSIFIER_MODEL_URL no configurado", domain.ErrRemoteUnavailable)
	}
	body, err := json.Marshal(modelRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("%w: serializar request: %v", domain.ErrRemoteUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: crear request: %v", domain.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, ctxErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timeout leyendo respuesta", domain.ErrRemoteUnavailable)
		}
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrRemoteUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrRemoteUnavailable, resp.StatusCode)
	}
	return decodePayload(raw)
}
