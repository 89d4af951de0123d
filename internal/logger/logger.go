package logger

import (
	"go-procure/internal/config"
	"go-procure/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the application logger: console output plus the async
// Mongo writer so operational logs survive restarts.
func NewLogger(cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Enable Caller so the DB writer can record the function name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	dbWriter := NewDBLogWriter(mongodb, cfg)

	// Tee core: console and DB both receive every entry
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)

	return zap.New(finalCore, zap.AddCaller()), nil
}
