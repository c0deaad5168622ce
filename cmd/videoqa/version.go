package main

import (
	"context"
	"fmt"

	"github.com/a-h/videoqa"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(videoqa.Version)
	return nil
}
