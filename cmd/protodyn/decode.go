package main

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// decodeCommand prints a binary message in the configured output format.
type decodeCommand struct {
	g      *globals
	input  *string
	base64 *bool
	stream *bool
}

func (cmd *decodeCommand) run(ctx context.Context) error {
	rootType, err := cmd.g.rootType()
	if err != nil {
		return err
	}
	if *cmd.stream {
		return cmd.runStream(ctx, rootType)
	}
	c, err := cmd.g.codec()
	if err != nil {
		return err
	}
	data, err := cmd.g.readInput(*cmd.input)
	if err != nil {
		return err
	}
	if *cmd.base64 {
		if data, err = decodeBase64(data); err != nil {
			return err
		}
	}
	out, err := c.Decode(data, rootType)
	if err != nil {
		return err
	}
	level.Debug(cmd.g.logger).Log("msg", "decoded message", "type", rootType, "size", humanize.Bytes(uint64(len(data))))
	return cmd.g.print(out)
}

// runStream decodes one base64 message per input line. With watch enabled
// each line uses the registry current at the time it is read.
func (cmd *decodeCommand) runStream(ctx context.Context, rootType string) error {
	if _, err := cmd.g.registry(); err != nil {
		return err
	}
	if cmd.g.watcher != nil {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go cmd.g.watcher.Run(ctx)
	}

	lines, errc := scanLines(ctx, cmd.g.stdin)
	for line := 1; ; line++ {
		var text string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return errors.Wrap(<-errc, "read stdin")
			}
			text = strings.TrimSpace(next)
		}
		if text == "" {
			continue
		}
		c, err := cmd.g.codec()
		if err != nil {
			return err
		}
		data, err := decodeBase64([]byte(text))
		if err != nil {
			return errors.WithMessagef(err, "line %d", line)
		}
		out, err := c.Decode(data, rootType)
		if err != nil {
			return errors.WithMessagef(err, "line %d", line)
		}
		if err := cmd.g.print(out); err != nil {
			return err
		}
	}
}

// scanLines reads r on its own goroutine so a blocked read does not hold up
// cancellation. errc receives the scanner error before lines is closed.
func scanLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	scan:
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				break scan
			}
		}
		errc <- scanner.Err()
		close(lines)
	}()
	return lines, errc
}

func addDecodeCommand(ctx context.Context, app *kingpin.Application, g *globals) {
	cmd := &decodeCommand{g: g}
	decode := app.Command("decode", "Decode a binary message.").Action(func(*kingpin.ParseContext) error {
		return cmd.run(ctx)
	})
	cmd.input = decode.Arg("file", "Input file; stdin when omitted.").String()
	cmd.base64 = decode.Flag("base64", "Input is base64 text.").Bool()
	cmd.stream = decode.Flag("stream", "Read one base64 message per line from stdin.").Bool()
}
