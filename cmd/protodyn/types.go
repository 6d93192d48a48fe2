package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// typesCommand lists the messages of the descriptor set.
type typesCommand struct {
	g      *globals
	fields *bool
}

func (cmd *typesCommand) run(_ *kingpin.ParseContext) error {
	reg, err := cmd.g.registry()
	if err != nil {
		return err
	}
	fi, err := os.Stat(cmd.g.cfg.DescriptorSet)
	if err != nil {
		return errors.Wrap(err, "stat descriptor set")
	}

	messages := reg.Messages()
	bold := color.New(color.Bold)
	bold.Fprintf(cmd.g.stdout, "Descriptor set: %s\n", cmd.g.cfg.DescriptorSet)
	fmt.Fprintf(cmd.g.stdout, "\tsize: %v, messages: %d\n", humanize.Bytes(uint64(fi.Size())), len(messages))

	names := make([]string, 0, len(messages))
	for _, msg := range messages {
		names = append(names, msg.FullName)
	}
	sort.Strings(names)
	for _, name := range names {
		msg, _ := reg.Lookup(name)
		bold.Fprintf(cmd.g.stdout, "%s\n", msg.FullName)
		if !*cmd.fields {
			continue
		}
		for _, field := range msg.Fields {
			fmt.Fprintf(cmd.g.stdout, "\t%d\t%s\t%s %s", field.Number, field.Name, field.Label, field.Type)
			if field.TypeName != "" {
				fmt.Fprintf(cmd.g.stdout, " %s", color.CyanString(field.TypeName))
			}
			fmt.Fprintln(cmd.g.stdout)
		}
	}
	return nil
}

func addTypesCommand(app *kingpin.Application, g *globals) {
	cmd := &typesCommand{g: g}
	types := app.Command("types", "List the message types of the descriptor set.").Action(cmd.run)
	cmd.fields = types.Flag("fields", "Also list the fields of each message.").Bool()
}
