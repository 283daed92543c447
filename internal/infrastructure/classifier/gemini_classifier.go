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

var _ ports.RemoteClassifier = (*GeminiClassifier)(nil)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

// GeminiClassifier clasificador remoto sobre la API REST de Google Gemini.
// Con responseMimeType=application/json el modelo devuelve JSON sin markdown.
type GeminiClassifier struct {
	apiKey     string
	model      string
	baseURL    string // formato con %s para modelo y clave
	system     string
	catalog    *fraud.Catalog
	httpClient *http.Client
}

// NewGeminiClassifier construye el adaptador. model suele ser "gemini-1.5-flash".
func NewGeminiClassifier(apiKey, model string, catalog *fraud.Catalog, timeout time.Duration) *GeminiClassifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GeminiClassifier{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		system:     catalogPrompt(catalog),
		catalog:    catalog,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL cambia la URL base; debe conservar los dos %s (modelo, clave).
func (g *GeminiClassifier) WithBaseURL(format string) *GeminiClassifier {
	g.baseURL = format
	return g
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ClassifyRemote pide la clasificación a Gemini. Todo fallo envuelve domain.ErrRemoteUnavailable.
func (g *GeminiClassifier) ClassifyRemote(ctx context.Context, text string) (*entity.ClassificationResult, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY no configurado", domain.ErrRemoteUnavailable)
	}
	body, err := json.Marshal(geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: g.system}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: text}}}},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.1,
			MaxOutputTokens:  512,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: serializar request: %v", domain.ErrRemoteUnavailable, err)
	}

	url := fmt.Sprintf(g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: crear request: %v", domain.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, ctxErr)
		}
		// La URL lleva la clave: no se incluye el error de transporte completo.
		return nil, fmt.Errorf("%w: llamada HTTP a Gemini fallida", domain.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrRemoteUnavailable, err)
	}

	var gr geminiResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(raw, &gr) == nil && gr.Error != nil {
			return nil, fmt.Errorf("%w: Gemini error %d: %s", domain.ErrRemoteUnavailable, gr.Error.Code, gr.Error.Message)
		}
		return nil, fmt.Errorf("%w: Gemini HTTP %d", domain.ErrRemoteUnavailable, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("%w: deserializar respuesta: %v", domain.ErrRemoteUnavailable, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: Gemini devolvió respuesta vacía", domain.ErrRemoteUnavailable)
	}

	clean := extractJSON(gr.Candidates[0].Content.Parts[0].Text)
	if clean == "" {
		return nil, fmt.Errorf("%w: sin JSON en la respuesta del modelo", domain.ErrRemoteUnavailable)
	}
	res, err := decodePayload([]byte(clean))
	if err != nil {
		return nil, err
	}
	return restrictToCatalog(g.catalog, res)
}
