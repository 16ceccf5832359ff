// Command oelib inspects records through the oelib data mappers.
package main

import "github.com/svewap/ext-oelib-sub002/internal/cli"

func main() {
	cli.Execute()
}
