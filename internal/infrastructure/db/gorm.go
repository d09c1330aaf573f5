package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"driver-license-portal/internal/domain/application"
	"driver-license-portal/internal/domain/audit"
	"driver-license-portal/internal/domain/authsession"
	"driver-license-portal/internal/domain/citizen"
	"driver-license-portal/internal/domain/payment"
	"driver-license-portal/internal/domain/qrcode"
)

// Dialector picks the gorm driver for DB_DRIVER.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported db driver %q", driver)
}

func OpenGorm(driver, dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := openGorm(dial, &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}
	log.WithField("driver", driver).Info("gorm: connected")
	return db, nil
}

// OpenGormWithDialector opens an already-built dialector with pool settings
// applied and a ping check.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	return openGorm(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// openGorm pings once, after the pool is configured.
func openGorm(dial gorm.Dialector, cfg *gorm.Config) (*gorm.DB, error) {
	cfg.DisableAutomaticPing = true
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&citizen.Citizen{},
		&citizen.User{},
		&citizen.Permission{},
		&application.Application{},
		&payment.Payment{},
		&qrcode.QRCode{},
		&authsession.Session{},
		&audit.Action{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
