package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"

	"github.com/vedadiyan/protodyn/internal/config"
	"github.com/vedadiyan/protodyn/jsonfmt"
	"github.com/vedadiyan/protodyn/textfmt"
	"github.com/vedadiyan/protodyn/value"
	"github.com/vedadiyan/protodyn/yamlfmt"
)

// encodeCommand reads a message in JSON, text or YAML form and writes its
// binary encoding.
type encodeCommand struct {
	g      *globals
	input  *string
	format *string
	base64 *bool
}

func (cmd *encodeCommand) run(_ *kingpin.ParseContext) error {
	rootType, err := cmd.g.rootType()
	if err != nil {
		return err
	}
	c, err := cmd.g.codec()
	if err != nil {
		return err
	}
	text, err := cmd.g.readInput(*cmd.input)
	if err != nil {
		return err
	}
	in, err := parseInput(*cmd.format, text)
	if err != nil {
		return err
	}
	data, err := c.Encode(in, rootType)
	if err != nil {
		return err
	}
	level.Debug(cmd.g.logger).Log("msg", "encoded message", "type", rootType, "size", humanize.Bytes(uint64(len(data))))
	return writeBinary(cmd.g.stdout, data, *cmd.base64)
}

func parseInput(format string, text []byte) (value.Value, error) {
	switch format {
	case config.OutputText:
		return textfmt.Unmarshal(text)
	case config.OutputYAML:
		return yamlfmt.Unmarshal(text)
	}
	return jsonfmt.Unmarshal(text)
}

func addEncodeCommand(app *kingpin.Application, g *globals) {
	cmd := &encodeCommand{g: g}
	encode := app.Command("encode", "Encode a message to binary.").Action(cmd.run)
	cmd.input = encode.Arg("file", "Input file; stdin when omitted.").String()
	cmd.format = encode.Flag("input", "Input format.").Short('i').Default(config.OutputJSON).Enum(config.OutputJSON, config.OutputText, config.OutputYAML)
	cmd.base64 = encode.Flag("base64", "Write base64 text instead of raw bytes.").Bool()
}
