// FILE: lixenwraith/cfgtree/cmd/cfgtree/main.go
package main

import "github.com/lixenwraith/cfgtree/internal/cli"

func main() {
	cli.Execute()
}
