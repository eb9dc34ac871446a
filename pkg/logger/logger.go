package logger

import (
	"go.uber.org/zap"
)

// NewLogger builds a zap logger for the given runtime environment.
// "prod" uses the JSON production encoder, "test" the deterministic example
// config, anything else the human-readable development config.
func NewLogger(environment string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if environment == "prod" {
		l, err = zap.NewProduction()
	} else if environment == "test" {
		l = zap.NewExample()
	} else {
		l, err = zap.NewDevelopment()
	}

	return l, err
}

func MustNewLogger(environment string) *zap.Logger {
	return zap.Must(NewLogger(environment))
}
