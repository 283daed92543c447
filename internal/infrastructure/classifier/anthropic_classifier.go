package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/antifraude-api/internal/application/ports"
	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/fraud"
)

var _ ports.RemoteClassifier = (*AnthropicClassifier)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicClassifier clasificador remoto sobre la API Messages de Anthropic.
// Solo acepta categorías del catálogo (o "normal"); cualquier otra respuesta se
// considera malformada y el pipeline usa el clasificador local.
type AnthropicClassifier struct {
	apiKey     string
	model      string
	endpoint   string
	system     string
	catalog    *fraud.Catalog
	httpClient *http.Client
}

// NewAnthropicClassifier construye el adaptador. El prompt de sistema lista las
// categorías del catálogo en su orden de prioridad.
func NewAnthropicClassifier(apiKey, model string, catalog *fraud.Catalog, timeout time.Duration) *AnthropicClassifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AnthropicClassifier{
		apiKey:     apiKey,
		model:      model,
		endpoint:   anthropicMessagesURL,
		system:     catalogPrompt(catalog),
		catalog:    catalog,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithEndpoint cambia la URL de la API (proxies internos y pruebas).
func (a *AnthropicClassifier) WithEndpoint(url string) *AnthropicClassifier {
	a.endpoint = url
	return a
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ClassifyRemote pide la clasificación al modelo. Todo fallo envuelve domain.ErrRemoteUnavailable.
func (a *AnthropicClassifier) ClassifyRemote(ctx context.Context, text string) (*entity.ClassificationResult, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY no configurado", domain.ErrRemoteUnavailable)
	}
	body, err := json.Marshal(anthropicRequest{
		Model:     a.model,
		MaxTokens: 512,
		System:    a.system,
		Messages:  []anthropicMessage{{Role: "user", Content: text}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: serializar request: %v", domain.ErrRemoteUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: crear request: %v", domain.ErrRemoteUnavailable, err)
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, ctxErr)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrRemoteUnavailable, err)
	}

	var ar anthropicResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(raw, &ar) == nil && ar.Error != nil {
			return nil, fmt.Errorf("%w: Anthropic (%s): %s", domain.ErrRemoteUnavailable, ar.Error.Type, ar.Error.Message)
		}
		return nil, fmt.Errorf("%w: Anthropic HTTP %d", domain.ErrRemoteUnavailable, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, &ar); err != nil {
		return nil, fmt.Errorf("%w: deserializar respuesta: %v", domain.ErrRemoteUnavailable, err)
	}
	if len(ar.Content) == 0 {
		return nil, fmt.Errorf("%w: respuesta vacía", domain.ErrRemoteUnavailable)
	}

	clean := extractJSON(ar.Content[0].Text)
	if clean == "" {
		return nil, fmt.Errorf("%w: sin JSON en la respuesta del modelo", domain.ErrRemoteUnavailable)
	}
	res, err := decodePayload([]byte(clean))
	if err != nil {
		return nil, err
	}
	return restrictToCatalog(a.catalog, res)
}
