package main

import (
	"github.com/alecthomas/kingpin/v2"
)

// exampleCommand prints a default-populated instance of the root type.
type exampleCommand struct {
	g *globals
}

func (cmd *exampleCommand) run(_ *kingpin.ParseContext) error {
	rootType, err := cmd.g.rootType()
	if err != nil {
		return err
	}
	c, err := cmd.g.codec()
	if err != nil {
		return err
	}
	out, err := c.Example(rootType)
	if err != nil {
		return err
	}
	return cmd.g.print(out)
}

func addExampleCommand(app *kingpin.Application, g *globals) {
	cmd := &exampleCommand{g: g}
	app.Command("example", "Print an example message for the root type.").Action(cmd.run)
}
