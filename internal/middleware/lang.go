package middleware

import (
	"strings"

	"github.com/haierkeys/inventory-audit-service/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// requestLang 依次读取 lang 查询参数、lang 请求头与 Accept-Language 的首选项
func requestLang(c *gin.Context) string {
	lang, ok := c.GetQuery("lang")
	if !ok {
		lang = c.GetHeader("lang")
	}
	if lang == "" {
		lang = c.GetHeader("Accept-Language")
		if i := strings.IndexAny(lang, ",;"); i != -1 {
			lang = lang[:i]
		}
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(lang), "-", "_"))
}

// LangWithTranslator 记录请求语言，并为参数校验选择翻译器，未匹配时回退到英文
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := code.NormalizeLang(requestLang(c))
		c.Set(code.LangContextKey, lang)

		if uni != nil {
			trans, found := uni.GetTranslator(lang)
			if !found {
				trans, _ = uni.GetTranslator(code.LangEN)
			}
			c.Set("trans", trans)
		}

		c.Next()
	}
}
