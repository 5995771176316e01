// Package app 请求参数绑定、统一响应与令牌
package app

import (
	"strings"

	"github.com/haierkeys/inventory-audit-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionInfo 版本信息
type VersionInfo struct {
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

// Pager 翻页信息
type Pager struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	TotalRows int `json:"totalRows"`
}

// ListRes 列表数据
type ListRes struct {
	List  any   `json:"list"`
	Pager Pager `json:"pager"`
}

// Res 统一的响应结构
type Res struct {
	Code    int    `json:"code"`
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

type Response struct {
	Ctx *gin.Context
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{Ctx: ctx}
}

// NewPager 根据请求参数构造翻页信息
func NewPager(c *gin.Context, totalRows int) *Pager {
	return &Pager{
		Page:      GetPage(c),
		PageSize:  GetPageSize(c),
		TotalRows: totalRows,
	}
}

// GetRequestIP 客户端 IP，本机 IPv6 回环地址记为 127.0.0.1
func GetRequestIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "::1" {
		return ip
	}
	return "127.0.0.1"
}

// body 按请求语言生成响应体
func (r *Response) body(codeObj *code.Code, data any) Res {
	res := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.MsgIn(code.LangFromGin(r.Ctx)),
		Data:    data,
	}
	if codeObj.HaveDetails() {
		res.Details = strings.Join(codeObj.Details(), ",")
	}
	return res
}

// ToResponse 输出 codeObj 及其携带的数据
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.JSON(codeObj.StatusCode(), r.body(codeObj, codeObj.Data()))
}

// ToResponseList 输出列表，翻页信息取自请求参数
func (r *Response) ToResponseList(codeObj *code.Code, list any, totalRows int) {
	r.ToResponsePage(codeObj, list, *NewPager(r.Ctx, totalRows))
}

// ToResponsePage 输出列表，使用调用方给出的翻页信息
func (r *Response) ToResponsePage(codeObj *code.Code, list any, pager Pager) {
	r.Ctx.JSON(codeObj.StatusCode(), r.body(codeObj, ListRes{List: list, Pager: pager}))
}
