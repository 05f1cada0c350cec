package repositories

import (
	"github.com/anoixa/snapi/database"
	"github.com/anoixa/snapi/database/repo/accounts"
	"github.com/anoixa/snapi/database/repo/contact"
	"github.com/anoixa/snapi/database/repo/media"
)

// Repositories 集中管理所有数据库仓库
type Repositories struct {
	Accounts *accounts.Repository
	Media    *media.Repository
	Contact  *contact.Repository
}

// NewRepositories 创建所有仓库实例
func NewRepositories(provider database.Provider) *Repositories {
	return &Repositories{
		Accounts: accounts.NewRepository(provider),
		Media:    media.NewRepository(provider),
		Contact:  contact.NewRepository(provider),
	}
}
