package main

import (
	"context"
	"log"

	"github.com/panchr/wire/internal/cli"
)

func main() {
	if err := cli.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
