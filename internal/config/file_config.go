package config

// UploadConfig - ограничения загрузки аватара
type UploadConfig struct {
	MaxSize      int64 `yaml:"max_size"`      // Max file size in bytes
	MaxPixels    int   `yaml:"max_pixels"`    // ширина*высота до декодирования
	ImageQuality int   `yaml:"image_quality"` // JPEG quality (1-100)
	AvatarSize   int   `yaml:"avatar_size"`   // сторона квадрата, px
}

func (u *UploadConfig) applyDefaults() {
	if u.MaxSize == 0 {
		u.MaxSize = 5 * 1024 * 1024 // 5MB
	}
	if u.MaxPixels == 0 {
		u.MaxPixels = 40_000_000
	}
	if u.ImageQuality == 0 {
		u.ImageQuality = 60
	}
	if u.AvatarSize == 0 {
		u.AvatarSize = 250
	}
}
