package code

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LangEN = "en"
	LangZH = "zh"

	// LangContextKey gin.Context 中保存请求语言的键
	LangContextKey = "lang"
)

// lang 一条消息的多语言文本
type lang struct {
	en    string
	zh_cn string
}

// Message 返回指定语言的文本，缺失时回退到英文
func (l lang) Message(language string) string {
	if NormalizeLang(language) == LangZH && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// NormalizeLang 将 zh、zh_CN、zh-Hans 等归一为 zh，其余均为 en
func NormalizeLang(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if strings.HasPrefix(language, "zh") {
		return LangZH
	}
	return LangEN
}

// LangFromGin 读取 lang 中间件写入的请求语言
func LangFromGin(c *gin.Context) string {
	if c == nil {
		return LangEN
	}
	return NormalizeLang(c.GetString(LangContextKey))
}
