package convert

import (
	"github.com/jinzhu/copier"
)

// StructAssign 将 src 中与 dst 同名的字段深拷贝到 dst
func StructAssign(src any, dst any) error {
	return copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true})
}
