package mediatype

import (
	"testing"

	"github.com/anoixa/snapi/database/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     models.MediaType
	}{
		{"photo.jpg", models.MediaTypeImage},
		{"photo.jpeg", models.MediaTypeImage},
		{"photo.png", models.MediaTypeImage},
		{"animation.gif", models.MediaTypeImage},
		{"PHOTO.JPG", models.MediaTypeImage},
		{"clip.mp4", models.MediaTypeVideo},
		{"clip.mov", models.MediaTypeVideo},
		{"clip.avi", models.MediaTypeVideo},
		{"clip.webm", models.MediaTypeVideo},
		{"Clip.MP4", models.MediaTypeVideo},
		{"notes.txt", models.MediaTypeOther},
		{"archive.tar.gz", models.MediaTypeOther},
		{"noextension", models.MediaTypeOther},
		{"", models.MediaTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.filename))
		})
	}
}
