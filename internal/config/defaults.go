package config

import "errors"

const (
	DefaultPort        = 8081
	DefaultHost        = "0.0.0.0"
	DefaultEnvironment = "dev"
	DefaultModelDir    = "/models"
	DefaultModelFile   = "model.json"
)

var ErrModelDirNotSet = errors.New("model directory is not set")
