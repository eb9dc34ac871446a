package main

import (
	cmd "github.com/doda25-team16/model-service/cmd/modelservice"
)

func main() {
	cmd.Execute()
}
