package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/models"
)

type Repositories struct {
	DomainRecordRepository interfaces.DomainRecordRepository
}

func InitRepositories(dropstackDB *gorm.DB) *Repositories {
	return &Repositories{
		DomainRecordRepository: NewDomainRecordRepository(dropstackDB),
	}
}

func MigrateDB(dbConfig *config.DatabaseConfig, dropstackDB *gorm.DB) error {
	db, err := dropstackDB.DB()
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(5)

	err = dropstackDB.AutoMigrate(
		&models.DomainRecord{},
	)

	db.Close()

	db, _ = dropstackDB.DB()
	db.SetMaxIdleConns(dbConfig.MaxIdleConn)
	db.SetMaxOpenConns(dbConfig.MaxConn)
	db.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return err
}
