// bodytmpl serves mock HTTP responses rendered from body templates.
package main

import (
	"context"

	"github.com/getmockd/bodytmpl/pkg/cli"
)

func main() {
	cli.Execute(context.Background())
}
