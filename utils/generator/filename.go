package generator

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SanitizeFilename 将原始文件名收敛到存储层允许的字符集
// 丢弃路径部分，空格和其他不安全字符替换为下划线。
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "_"
	}

	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}

	s := sb.String()
	// ".." 会被存储层拒绝
	for strings.Contains(s, "..") {
		s = strings.ReplaceAll(s, "..", "._")
	}
	if s == "" {
		return "_"
	}
	return s
}

// GenerateStoredName 生成上传文件的存储名
// 格式: {user_id}_{unix_timestamp}_{sanitized_original_filename}
func GenerateStoredName(userID uint, originalName string, now time.Time) string {
	return fmt.Sprintf("%d_%d_%s", userID, now.Unix(), SanitizeFilename(originalName))
}
