// Package fraud contiene las reglas de dominio para clasificar textos sospechosos:
// el catálogo ordenado de categorías con sus palabras clave y el mapa categoría ↔ código.
package fraud

// DefaultCode código asignado a cualquier categoría que no esté en el catálogo
// (incluye "normal" y valores desconocidos devueltos por un clasificador remoto).
const DefaultCode = "z"

// Category categoría de fraude con su código de una letra y sus palabras clave.
type Category struct {
	Name     string
	Code     string
	Keywords []string
}

// Catalog lista ordenada de categorías. El orden es la prioridad del clasificador:
// la primera categoría con coincidencia gana aunque otra posterior también coincida.
// Es inmutable después de construirse; se comparte sin sincronización.
type Catalog struct {
	categories []Category
	byName     map[string]string
	byCode     map[string]string
}

// NewCatalog construye el catálogo a partir de una lista ordenada.
// Nombres o códigos repetidos: se conserva la primera aparición.
func NewCatalog(categories []Category) *Catalog {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		byName:     make(map[string]string, len(categories)),
		byCode:     make(map[string]string, len(categories)),
	}
	for _, cat := range categories {
		if _, dup := c.byName[cat.Name]; dup {
			continue
		}
		if _, dup := c.byCode[cat.Code]; dup {
			continue
		}
		kw := make([]string, len(cat.Keywords))
		copy(kw, cat.Keywords)
		c.categories = append(c.categories, Category{Name: cat.Name, Code: cat.Code, Keywords: kw})
		c.byName[cat.Name] = cat.Code
		c.byCode[cat.Code] = cat.Name
	}
	return c
}

// DefaultCatalog catálogo de las doce categorías de fraude en su orden de prioridad.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Category{
		{Name: "刷单返利类", Code: "a", Keywords: []string{"刷单", "返利", "点赞", "做任务"}},
		{Name: "虚假网络投资理财类", Code: "b", Keywords: []string{"投资", "理财", "导师", "内部消息", "高回报", "稳赚"}},
		{Name: "冒充电商物流客服类", Code: "c", Keywords: []string{"客服", "退款", "快递", "包裹丢失", "订单异常", "赔付"}},
		{Name: "贷款、代办信用卡类", Code: "d", Keywords: []string{"贷款", "额度", "信用卡", "黑户", "秒批", "无抵押"}},
		{Name: "网络游戏产品虚假交易类", Code: "e", Keywords: []string{"游戏币", "装备", "账号交易", "代练", "低价点券"}},
		{Name: "虚假购物、服务类", Code: "f", Keywords: []string{"免费领取", "中奖", "海外代购", "清仓"}},
		{Name: "冒充公检法及政府机关类", Code: "g", Keywords: []string{"公安", "法院", "检察院", "通缉", "配合调查", "逮捕令"}},
		{Name: "虚假征信类", Code: "h", Keywords: []string{"征信", "信用污点", "消除记录", "影响信用"}},
		{Name: "冒充领导、熟人类", Code: "i", Keywords: []string{"领导", "老板", "方便转账吗", "我是你领导", "有急事"}},
		{Name: "冒充军警购物类诈骗", Code: "j", Keywords: []string{"军需", "部队采购", "军官", "后勤"}},
		{Name: "网络婚恋、交友类", Code: "k", Keywords: []string{"网恋", "交友", "杀猪盘", "感情投资"}},
		{Name: "网黑案件", Code: "l", Keywords: []string{"网黑", "曝光你", "黑料"}},
	})
}

// Categories devuelve una copia profunda de las categorías en orden de prioridad;
// modificarla no altera el catálogo.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		kw := make([]string, len(cat.Keywords))
		copy(kw, cat.Keywords)
		out[i] = Category{Name: cat.Name, Code: cat.Code, Keywords: kw}
	}
	return out
}

// CodeFor devuelve el código de la categoría; DefaultCode si no está en el catálogo.
func (c *Catalog) CodeFor(category string) string {
	if code, ok := c.byName[category]; ok {
		return code
	}
	return DefaultCode
}

// CategoryFor búsqueda inversa código → categoría.
func (c *Catalog) CategoryFor(code string) (string, bool) {
	name, ok := c.byCode[code]
	return name, ok
}
