package classifier

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/antifraude-api/internal/domain"
	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/fraud"
)

const maxFraudTypeRunes = 64

const promptHeader = `你是反诈骗分析专家。判断用户提供的短信或文本是否为诈骗信息。
只返回一个 JSON 对象（不要 markdown，不要其他文字），结构如下：
{
  "is_fraud": <true 或 false>,
  "fraud_type": "<下列类别之一；非诈骗时为 normal>",
  "analysis_detail": "<简要中文分析，不超过 100 字>"
}
可选类别（按优先级）：
`

// catalogPrompt prompt de sistema para los backends LLM: formato de salida y categorías del catálogo.
func catalogPrompt(catalog *fraud.Catalog) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	for i, c := range catalog.Categories() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Name)
	}
	return b.String()
}

// restrictToCatalog normaliza la respuesta de un LLM: sin fraude el tipo es "normal";
// con fraude el tipo debe ser una categoría del catálogo.
func restrictToCatalog(catalog *fraud.Catalog, res *entity.ClassificationResult) (*entity.ClassificationResult, error) {
	if !res.IsFraud {
		res.FraudType = entity.FraudTypeNormal
		return res, nil
	}
	if _, ok := catalog.CategoryFor(catalog.CodeFor(res.FraudType)); !ok {
		return nil, fmt.Errorf("%w: categoría desconocida %q", domain.ErrRemoteUnavailable, res.FraudType)
	}
	return res, nil
}

// remotePayload respuesta esperada de cualquier backend remoto.
// Punteros para distinguir "ausente" de "valor cero".
type remotePayload struct {
	IsFraud   *bool   `json:"is_fraud"`
	FraudType *string `json:"fraud_type"`
	Detail    *string `json:"analysis_detail"`
}

// decodePayload valida los campos obligatorios; sin is_fraud o fraud_type la respuesta es inutilizable.
func decodePayload(raw []byte) (*entity.ClassificationResult, error) {
	var p remotePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: JSON inválido: %v", domain.ErrRemoteUnavailable, err)
	}
	if p.IsFraud == nil || p.FraudType == nil {
		return nil, fmt.Errorf("%w: faltan is_fraud o fraud_type", domain.ErrRemoteUnavailable)
	}
	fraudType := strings.TrimSpace(*p.FraudType)
	if fraudType == "" {
		return nil, fmt.Errorf("%w: fraud_type vacío", domain.ErrRemoteUnavailable)
	}
	// sms_record.fraud_type es VARCHAR(64).
	if n := utf8.RuneCountInString(fraudType); n > maxFraudTypeRunes {
		return nil, fmt.Errorf("%w: fraud_type de %d caracteres excede %d", domain.ErrRemoteUnavailable, n, maxFraudTypeRunes)
	}
	res := &entity.ClassificationResult{
		IsFraud:   *p.IsFraud,
		FraudType: fraudType,
		Source:    entity.SourceRemote,
	}
	if p.Detail != nil {
		res.Detail = *p.Detail
	}
	return res, nil
}

// jsonBlockRe captura desde el primer '{' hasta el último '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el objeto JSON de un texto libre aunque el modelo lo envuelva en markdown.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
