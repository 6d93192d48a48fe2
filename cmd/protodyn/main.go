package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn"
	"github.com/vedadiyan/protodyn/internal/config"
	"github.com/vedadiyan/protodyn/jsonfmt"
	"github.com/vedadiyan/protodyn/textfmt"
	"github.com/vedadiyan/protodyn/value"
	"github.com/vedadiyan/protodyn/watch"
	"github.com/vedadiyan/protodyn/yamlfmt"
)

// globals holds the flags shared by every command and the settings resolved
// from them before a command runs.
type globals struct {
	configPath    string
	descriptorSet string
	typeName      string
	pkg           string
	output        string
	logLevel      string
	maxDepth      int
	strict        bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     config.Config
	logger  log.Logger
	watcher *watch.Watcher
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		exitWithErr(err)
	}
}

func exitWithErr(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
	os.Exit(1)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	g := &globals{stdin: stdin, stdout: stdout, stderr: stderr}
	app := kingpin.New("protodyn", "Encode and decode protobuf messages using a runtime descriptor set.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.Flag("config", "TOML configuration file.").Short('c').StringVar(&g.configPath)
	app.Flag("descriptor-set", "Serialized FileDescriptorSet (protoc --descriptor_set_out).").Short('d').StringVar(&g.descriptorSet)
	app.Flag("type", "Root message type.").Short('t').StringVar(&g.typeName)
	app.Flag("package", "Package preferred when resolving simple type names.").StringVar(&g.pkg)
	app.Flag("output", "Output format.").Short('o').EnumVar(&g.output, config.OutputJSON, config.OutputText, config.OutputYAML)
	app.Flag("log-level", "Log level.").EnumVar(&g.logLevel, "debug", "info", "warn", "error")
	app.Flag("max-depth", "Maximum message nesting.").IntVar(&g.maxDepth)
	app.Flag("strict", "Fail on nested types missing from the descriptor set.").BoolVar(&g.strict)
	app.PreAction(g.setup)

	addDecodeCommand(ctx, app, g)
	addEncodeCommand(app, g)
	addExampleCommand(app, g)
	addRawCommand(app, g)
	addTypesCommand(app, g)

	_, err := app.Parse(args)
	if g.watcher != nil {
		g.watcher.Close()
	}
	return err
}

// setup merges the config file, if any, with the flags; flags win.
func (g *globals) setup(_ *kingpin.ParseContext) error {
	g.cfg = config.Default()
	if g.configPath != "" {
		cfg, err := config.Load(g.configPath)
		if err != nil {
			return err
		}
		g.cfg = cfg
	}
	if g.descriptorSet != "" {
		g.cfg.DescriptorSet = g.descriptorSet
	}
	if g.typeName != "" {
		g.cfg.Type = g.typeName
	}
	if g.pkg != "" {
		g.cfg.Package = g.pkg
	}
	if g.output != "" {
		g.cfg.Output = g.output
	}
	if g.logLevel != "" {
		g.cfg.LogLevel = g.logLevel
	}
	if g.maxDepth > 0 {
		g.cfg.MaxDepth = g.maxDepth
	}
	if g.strict {
		g.cfg.StrictTypes = true
	}
	if err := g.cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(g.stderr))
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(g.cfg.LogLevel, level.InfoValue())))
	g.logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return nil
}

func (g *globals) registry() (*protodyn.Registry, error) {
	if g.watcher != nil {
		return g.watcher.Registry(), nil
	}
	if g.cfg.DescriptorSet == "" {
		return nil, errors.New("no descriptor set: pass --descriptor-set or set descriptor_set in the config file")
	}
	if g.cfg.Watch {
		w, err := watch.New(g.cfg.DescriptorSet, g.logger)
		if err != nil {
			return nil, err
		}
		g.watcher = w
		return w.Registry(), nil
	}
	return protodyn.LoadDescriptorSet(g.cfg.DescriptorSet)
}

func (g *globals) codec() (*protodyn.Codec, error) {
	reg, err := g.registry()
	if err != nil {
		return nil, err
	}
	opts := append(g.cfg.CodecOptions(), protodyn.WithLogger(g.logger))
	return protodyn.NewCodec(reg, opts...), nil
}

func (g *globals) rootType() (string, error) {
	if g.cfg.Type == "" {
		return "", errors.New("no message type: pass --type or set type in the config file")
	}
	return g.cfg.Type, nil
}

func (g *globals) render(v value.Value) ([]byte, error) {
	switch g.cfg.Output {
	case config.OutputText:
		return textfmt.Marshal(v)
	case config.OutputYAML:
		return yamlfmt.Marshal(v)
	}
	opts := []jsonfmt.Option{jsonfmt.WithIndent(g.cfg.Indent)}
	if g.cfg.SortKeys {
		opts = append(opts, jsonfmt.WithSortKeys())
	}
	out, err := jsonfmt.Marshal(v, opts...)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func (g *globals) print(v value.Value) error {
	out, err := g.render(v)
	if err != nil {
		return err
	}
	_, err = g.stdout.Write(out)
	return err
}

// readInput reads the named file, or stdin when name is empty or "-".
func (g *globals) readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(g.stdin)
		return data, errors.Wrap(err, "read stdin")
	}
	data, err := os.ReadFile(name)
	return data, errors.Wrap(err, "read input")
}

func decodeBase64(data []byte) ([]byte, error) {
	text := strings.Join(strings.Fields(string(data)), "")
	out, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, errors.Wrap(err, "decode base64 input")
	}
	return out, nil
}

func writeBinary(w io.Writer, data []byte, asBase64 bool) error {
	if asBase64 {
		_, err := fmt.Fprintln(w, base64.StdEncoding.EncodeToString(data))
		return err
	}
	_, err := io.Copy(w, bytes.NewReader(data))
	return err
}
