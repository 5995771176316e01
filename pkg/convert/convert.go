// Package convert 字符串与结构体之间的转换
package convert

import (
	"strconv"
)

// StrTo 查询参数等字符串值
type StrTo string

func (s StrTo) String() string {
	return string(s)
}

func (s StrTo) Int() (int, error) {
	return strconv.Atoi(s.String())
}

// MustInt 转换失败时返回 0
func (s StrTo) MustInt() int {
	v, _ := s.Int()
	return v
}
