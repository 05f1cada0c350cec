package config

// 编译时通过 -ldflags 注入
var (
	Version    = "dev"
	CommitHash = "n/a"
)

// IsDev 是否为开发版本
func IsDev() bool {
	return CommitHash == "n/a"
}
