package global

import (
	"github.com/haierkeys/inventory-audit-service/pkg/fileurl"
)

// ROOT 程序执行目录，工作目录中找不到配置文件时在此查找
var ROOT string

func init() {
	ROOT = fileurl.GetExePath() + "/"
}
