package main

import (
	"github.com/alecthomas/kingpin/v2"

	"github.com/vedadiyan/protodyn/raw"
)

// rawCommand dumps wire data without a descriptor set.
type rawCommand struct {
	g      *globals
	input  *string
	base64 *bool
}

func (cmd *rawCommand) run(_ *kingpin.ParseContext) error {
	data, err := cmd.g.readInput(*cmd.input)
	if err != nil {
		return err
	}
	if *cmd.base64 {
		if data, err = decodeBase64(data); err != nil {
			return err
		}
	}
	out, err := raw.Decode(data, raw.WithMaxDepth(cmd.g.cfg.MaxDepth))
	if err != nil {
		return err
	}
	return cmd.g.print(out)
}

func addRawCommand(app *kingpin.Application, g *globals) {
	cmd := &rawCommand{g: g}
	dump := app.Command("raw", "Dump a binary message by field number, without a schema.").Action(cmd.run)
	cmd.input = dump.Arg("file", "Input file; stdin when omitted.").String()
	cmd.base64 = dump.Flag("base64", "Input is base64 text.").Bool()
}
