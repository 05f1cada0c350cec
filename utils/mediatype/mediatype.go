package mediatype

import (
	"path"
	"strings"

	"github.com/anoixa/snapi/database/models"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
}

// Classify 根据文件扩展名推导媒体类型，大小写不敏感
// 未识别或缺失扩展名归为 other。
func Classify(filename string) models.MediaType {
	ext := strings.ToLower(path.Ext(filename))
	switch {
	case imageExtensions[ext]:
		return models.MediaTypeImage
	case videoExtensions[ext]:
		return models.MediaTypeVideo
	default:
		return models.MediaTypeOther
	}
}
