package fraud_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/antifraude-api/internal/domain/entity"
	"github.com/jhoicas/antifraude-api/internal/domain/fraud"
)

func newClassifier() *fraud.KeywordClassifier {
	return fraud.NewKeywordClassifier(fraud.DefaultCatalog())
}

// Texto con palabras de dos categorías: gana la que va primero en el catálogo,
// aunque su palabra aparezca después en el texto.
func TestClassify_PrioridadPorOrdenDelCatalogo(t *testing.T) {
	c := newClassifier()

	got := c.Classify("恭喜中奖！完成刷单任务即可领取")

	assert.True(t, got.IsFraud)
	assert.Equal(t, "刷单返利类", got.FraudType)
	assert.Equal(t, entity.SourceKeyword, got.Source)
}

func TestClassify_SinCoincidencia_Normal(t *testing.T) {
	c := newClassifier()

	got := c.Classify("明天下午三点开会，请准时参加")

	assert.False(t, got.IsFraud)
	assert.Equal(t, entity.FraudTypeNormal, got.FraudType)
	assert.Equal(t, "经分析，未发现明显诈骗特征，但仍需保持警惕。", got.Detail)
}

func TestClassify_DetalleParametrizadoPorCategoria(t *testing.T) {
	c := newClassifier()

	got := c.Classify("免费领取海外代购清仓")

	assert.Equal(t, "虚假购物、服务类", got.FraudType)
	assert.Equal(t, "经分析，该信息疑似“虚假购物、服务类”类型诈骗，请务必警惕，切勿转账或透露个人信息。", got.Detail)
}

func TestClassify_Determinista(t *testing.T) {
	c := newClassifier()
	text := "您的快递包裹丢失，客服将为您办理退款"

	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(text))
	}
	assert.Equal(t, "冒充电商物流客服类", first.FraudType)
}

func TestClassify_TodasLasCategorias(t *testing.T) {
	c := newClassifier()
	for _, cat := range fraud.DefaultCatalog().Categories() {
		for _, kw := range cat.Keywords {
			got := c.Classify("前缀" + kw + "后缀")
			// Una palabra clave puede contener la de una categoría anterior; el orden manda.
			if got.FraudType != cat.Name {
				assert.Less(t, indexOf(got.FraudType), indexOf(cat.Name),
					"la palabra %q solo puede ceder ante una categoría de mayor prioridad", kw)
				continue
			}
			assert.True(t, got.IsFraud)
		}
	}
}

func TestClassify_FormasDeAnchoCompleto(t *testing.T) {
	cat := fraud.NewCatalog([]fraud.Category{
		{Name: "prueba", Code: "p", Keywords: []string{"vip"}},
	})
	c := fraud.NewKeywordClassifier(cat)

	got := c.Classify("成为ＶＩＰ会员")

	assert.Equal(t, "prueba", got.FraudType)
}

func TestClassify_TextoVacio_NoFalla(t *testing.T) {
	got := newClassifier().Classify("")
	assert.Equal(t, entity.FraudTypeNormal, got.FraudType)
}

func indexOf(name string) int {
	for i, cat := range fraud.DefaultCatalog().Categories() {
		if cat.Name == name {
			return i
		}
	}
	return -1
}

func TestNewKeywordClassifier_NoModificaElCatalogo(t *testing.T) {
	cat := fraud.NewCatalog([]fraud.Category{{Name: "vip", Code: "a", Keywords: []string{"VIP"}}})
	c := fraud.NewKeywordClassifier(cat)

	assert.Equal(t, "VIP", cat.Categories()[0].Keywords[0], "el catálogo conserva la palabra original")
	assert.True(t, c.Classify("oferta vip").IsFraud)
}

func TestClassify_CopiaDelCatalogoNoAlteraReglas(t *testing.T) {
	cat := fraud.DefaultCatalog()
	c := fraud.NewKeywordClassifier(cat)

	cats := cat.Categories()
	cats[0].Keywords[0] = "zzz"

	res := c.Classify("刷单")
	assert.True(t, res.IsFraud)
	assert.Equal(t, "刷单返利类", res.FraudType)
}
