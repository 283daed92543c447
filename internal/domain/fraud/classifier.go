package fraud

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
)

const (
	detailFraudTemplate = "经分析，该信息疑似“%s”类型诈骗，请务必警惕，切勿转账或透露个人信息。"
	detailNormal        = "经分析，未发现明显诈骗特征，但仍需保持警惕。"
)

// KeywordClassifier clasificador local por palabras clave. Función pura y total:
// siempre devuelve un resultado. El texto vacío lo rechaza el llamador, no este servicio.
type KeywordClassifier struct {
	rules []Category // palabras clave ya normalizadas
}

// NewKeywordClassifier construye el clasificador sobre el catálogo inyectado.
func NewKeywordClassifier(catalog *Catalog) *KeywordClassifier {
	cats := catalog.Categories()
	rules := make([]Category, len(cats))
	for i, cat := range cats {
		kws := make([]string, len(cat.Keywords))
		for j, kw := range cat.Keywords {
			kws[j] = normalize(kw)
		}
		rules[i] = Category{Name: cat.Name, Code: cat.Code, Keywords: kws}
	}
	return &KeywordClassifier{rules: rules}
}

// Classify recorre las categorías en orden y devuelve la primera que tenga alguna palabra clave
// contenida en el texto. La posición de la palabra en el texto no influye.
func (k *KeywordClassifier) Classify(text string) entity.ClassificationResult {
	t := normalize(text)
	for _, cat := range k.rules {
		for _, kw := range cat.Keywords {
			if kw != "" && strings.Contains(t, kw) {
				return entity.ClassificationResult{
					IsFraud:   true,
					FraudType: cat.Name,
					Detail:    fmt.Sprintf(detailFraudTemplate, cat.Name),
					Source:    entity.SourceKeyword,
				}
			}
		}
	}
	return entity.ClassificationResult{
		IsFraud:   false,
		FraudType: entity.FraudTypeNormal,
		Detail:    detailNormal,
		Source:    entity.SourceKeyword,
	}
}

// normalize aplica NFKC (formas de ancho completo → ancho normal) y minúsculas.
func normalize(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}
