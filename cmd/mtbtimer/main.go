package main

import (
	"context"

	"github.com/a-aigner/mtb-timetracking/internal/cli"
)

func main() {
	ctx := context.Background()
	cli.Main(ctx)
}
