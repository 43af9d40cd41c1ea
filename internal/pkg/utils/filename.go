package utils

import (
	"strings"
)

// 文件系统敏感字符, 统一替换为 '-'
var unsafeChars = []string{"/", "\\", "?", "%", "*", ":", "|", "\"", "<", ">"}

// SanitizeFileName 过滤展示名中对路径有意义的字符
// 落盘文件名另外带时间戳前缀, 这里只保证名字本身无路径语义
func SanitizeFileName(name string) string {
	cleaned := name
	for _, c := range unsafeChars {
		cleaned = strings.ReplaceAll(cleaned, c, "-")
	}
	return strings.TrimSpace(cleaned)
}
