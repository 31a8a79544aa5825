package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load 读取任务文件：.yaml/.yml 按 YAML 解析，其余按 DSL 解析。
func Load(path string) (*Job, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开任务文件 %s: %w", path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(file)
	default:
		return ParseDSL(file)
	}
}
