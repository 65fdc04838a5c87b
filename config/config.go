// Package config 提供外部配置文档的加载功能.
//
// 基于 viper，支持 yaml、json、toml 等格式（根据文件扩展名自动识别），
// 并支持环境变量覆盖与默认值.
//
// 示例:
//
//	doc, err := config.LoadDocument("automat.json")
//	if err != nil {
//	    // 文件缺失或格式错误
//	}
//	level := doc["log_level"]
package config

import (
	"path/filepath"
	"strings"
)

// Validatable 可验证的配置接口.
type Validatable interface {
	Validate() error
}

// GetConfigType 根据文件扩展名获取配置类型.
func GetConfigType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	case ".ini":
		return "ini"
	case ".env":
		return "env"
	case ".properties":
		return "properties"
	default:
		return ""
	}
}
