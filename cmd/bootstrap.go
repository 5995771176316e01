package cmd

import (
	"os"
	"path/filepath"

	"github.com/haierkeys/inventory-audit-service/global"
	"github.com/haierkeys/inventory-audit-service/pkg/fileurl"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// bootstrapLogger 主日志器就绪前使用的控制台日志器
// 命令行子命令 (history 等) 也直接使用它
var bootstrapLogger = newBootstrapLogger(os.Getenv("DEBUG") != "")

func newBootstrapLogger(debug bool) *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddCaller())
}

// resolveConfigPath 未指定配置文件时依次在工作目录与程序目录中查找
// 返回空字符串表示没有找到
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, p := range []string{
		"config/config-dev.yaml",
		"config.yaml",
		"config/config.yaml",
		filepath.Join(global.ROOT, "config", "config.yaml"),
	} {
		if fileurl.IsExist(p) {
			return p
		}
	}
	return ""
}
