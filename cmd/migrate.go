package cmd

import (
	"log"

	"github.com/anoixa/snapi/config"
	"github.com/anoixa/snapi/database"
	"github.com/spf13/cobra"
)

// migrateCmd 对配置指定的数据库执行自动DDL后退出
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migration and exit",
	Run: func(cmd *cobra.Command, args []string) {
		config.InitConfig()
		cfg := config.Get()

		provider, err := database.NewGormProvider(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer provider.Close()

		log.Printf("Migrating schema, database type: %s", provider.Name())
		if err := database.AutoMigrateAll(provider); err != nil {
			log.Fatalf("Failed to auto migrate database: %v", err)
		}
		log.Println("Schema migration completed successfully")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
