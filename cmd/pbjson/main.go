package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	j "github.com/goccy/go-json"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/dynamicpb"
	"gopkg.in/yaml.v3"

	"github.com/reoring/pbjson"
	"github.com/reoring/pbjson/i18n"
	"github.com/reoring/pbjson/jsonschema"
	"github.com/reoring/pbjson/jsonv"
	"github.com/reoring/pbjson/protoset"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "pbjson CLI\n\nUsage:\n  pbjson decode -descriptor set.pb -message pkg.Msg [-in file.json|-] [-yaml] [-unknown strict|strip] [-max-depth N] [-lang en|ja]\n  pbjson encode -descriptor set.pb -message pkg.Msg [-in file.txtpb|-] [-binary] [-enum-names] [-indent S] [-yaml]\n  pbjson roundtrip -descriptor set.pb -message pkg.Msg [-in file.json|-]\n  pbjson schema -descriptor set.pb -message pkg.Msg [-output] [-enum-names] [-unknown strict|strip]\n\nNotes:\n  - -descriptor accepts `protoc --descriptor_set_out` output, or text format when the file ends in .txtpb.\n  - -config file.yaml supplies defaults for any flag; flags given on the command line win.")
}

// cli carries the process streams so commands can be driven from tests.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	var cmd func(*options) error
	switch args[0] {
	case "decode":
		cmd = c.decodeCmd
	case "encode":
		cmd = c.encodeCmd
	case "roundtrip":
		cmd = c.roundtripCmd
	case "schema":
		cmd = c.schemaCmd
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		usage(stderr)
		return 2
	}
	opt, err := c.parseFlags(args[0], args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "pbjson %s: %v\n", args[0], err)
		return 2
	}
	c.log = newLogger(stderr, opt.verbose)
	i18n.SetLanguage(opt.Lang)
	if err := cmd(opt); err != nil {
		if iss, ok := pbjson.AsIssue(err); ok {
			c.log.Debug("decode failed", "code", iss.Code, "path", iss.Path, "message", iss.Message)
			fmt.Fprintf(stderr, "pbjson %s: %s\n", args[0], iss.Localized())
			return 1
		}
		fmt.Fprintf(stderr, "pbjson %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// decodeCmd reads JSON (or YAML), decodes it into the named message and
// prints the record in protobuf text format.
func (c *cli) decodeCmd(opt *options) error {
	m, err := c.newMessage(opt)
	if err != nil {
		return err
	}
	v, err := c.readTree(opt)
	if err != nil {
		return err
	}
	if err := pbjson.Decode(v, m, opt.decodeOpt()); err != nil {
		return err
	}
	return c.printText(m)
}

// encodeCmd reads a record in text format (or binary with -binary) and prints
// its JSON (or YAML) form.
func (c *cli) encodeCmd(opt *options) error {
	m, err := c.newMessage(opt)
	if err != nil {
		return err
	}
	data, err := c.readInput(opt.in)
	if err != nil {
		return err
	}
	if opt.binary {
		err = proto.UnmarshalOptions{AllowPartial: true}.Unmarshal(data, m)
	} else {
		err = prototext.UnmarshalOptions{AllowPartial: true}.Unmarshal(data, m)
	}
	if err != nil {
		return fmt.Errorf("reading record: %w", err)
	}
	return c.printTree(pbjson.Encode(m, opt.encodeOpt()), opt)
}

// roundtripCmd decodes JSON, prints the record, re-encodes it and prints the
// result.
func (c *cli) roundtripCmd(opt *options) error {
	m, err := c.newMessage(opt)
	if err != nil {
		return err
	}
	v, err := c.readTree(opt)
	if err != nil {
		return err
	}
	if err := pbjson.Decode(v, m, opt.decodeOpt()); err != nil {
		return err
	}
	if err := c.printText(m); err != nil {
		return err
	}
	out := pbjson.Encode(m, opt.encodeOpt())
	if !jsonv.Equal(v, out) {
		c.log.Debug("re-encoded tree differs from input")
	}
	return c.printTree(out, opt)
}

// schemaCmd prints the JSON Schema of the JSON shape the message decodes from
// (or, with -output, encodes to).
func (c *cli) schemaCmd(opt *options) error {
	m, err := c.newMessage(opt)
	if err != nil {
		return err
	}
	s := jsonschema.FromMessage(m.Descriptor(), jsonschema.Opt{
		Output:       opt.output,
		EnumsAsNames: opt.EnumNames,
		Unknown:      opt.decodeOpt().Unknown,
	})
	var b []byte
	if opt.Indent == "" {
		b, err = j.Marshal(s)
	} else {
		b, err = j.MarshalIndent(s, "", opt.Indent)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.stdout, "%s\n", b)
	return err
}

func (c *cli) newMessage(opt *options) (*dynamicpb.Message, error) {
	if opt.Descriptor == "" || opt.Message == "" {
		return nil, errors.New("-descriptor and -message are required")
	}
	set, err := protoset.Load(opt.Descriptor)
	if err != nil {
		return nil, err
	}
	c.log.Debug("loaded descriptor set", "path", opt.Descriptor, "messages", len(set.Messages()))
	return set.New(opt.Message)
}

func (c *cli) readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(c.stdin)
	}
	return os.ReadFile(name)
}

func (c *cli) readTree(opt *options) (*jsonv.Value, error) {
	data, err := c.readInput(opt.in)
	if err != nil {
		return nil, err
	}
	if opt.YAML {
		return jsonv.FromYAML(data)
	}
	v, err := jsonv.Parse(data, jsonv.ParseOpt{
		OnDuplicateKey: jsonv.Warn,
		Warnings: func(w jsonv.Warning) {
			c.log.Warn("json input", "code", w.Code, "path", w.Path, "message", w.Message)
		},
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *cli) printText(m *dynamicpb.Message) error {
	b, err := prototext.MarshalOptions{Multiline: true, AllowPartial: true}.Marshal(m)
	if err != nil {
		return err
	}
	_, err = c.stdout.Write(b)
	return err
}

func (c *cli) printTree(v *jsonv.Value, opt *options) error {
	if opt.YAML {
		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	var b []byte
	var err error
	if opt.Indent == "" {
		b, err = v.MarshalJSON()
	} else {
		b, err = v.MarshalIndent("", opt.Indent)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.stdout, "%s\n", b)
	return err
}

// ---- options ----

// options holds the settings shared by all subcommands. Exported fields can
// also come from a -config YAML file.
type options struct {
	Descriptor string `yaml:"descriptor"`
	Message    string `yaml:"message"`
	Unknown    string `yaml:"unknown"`
	MaxDepth   int    `yaml:"max_depth"`
	Lang       string `yaml:"lang"`
	EnumNames  bool   `yaml:"enum_names"`
	Indent     string `yaml:"indent"`
	YAML       bool   `yaml:"yaml"`

	in      string
	binary  bool
	output  bool
	verbose bool
}

func defaultOptions() *options {
	return &options{Unknown: "strict", Lang: "en", Indent: "  "}
}

func (c *cli) parseFlags(name string, args []string) (*options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var f options
	var configPath string
	fs.StringVar(&configPath, "config", "", "YAML file with default option values")
	fs.StringVar(&f.Descriptor, "descriptor", "", "FileDescriptorSet file (binary, or text format for .txtpb)")
	fs.StringVar(&f.Message, "message", "", "fully-qualified message name, e.g. addressbook.Person")
	fs.StringVar(&f.in, "in", "-", "input file, - for stdin")
	fs.BoolVar(&f.YAML, "yaml", false, "read (decode) or write (encode) YAML instead of JSON")
	fs.StringVar(&f.Unknown, "unknown", "strict", "unknown JSON keys: strict or strip")
	fs.IntVar(&f.MaxDepth, "max-depth", 0, "maximum record nesting, 0 for unlimited")
	fs.StringVar(&f.Lang, "lang", "en", "language of error messages: en or ja")
	fs.BoolVar(&f.binary, "binary", false, "encode: input is binary protobuf instead of text format")
	fs.BoolVar(&f.EnumNames, "enum-names", false, "emit enum values by name")
	fs.StringVar(&f.Indent, "indent", "  ", "indent for JSON output, empty for compact")
	fs.BoolVar(&f.output, "output", false, "schema: describe encode output instead of decode input")
	fs.BoolVar(&f.verbose, "v", false, "enable debug logs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	opt := defaultOptions()
	if configPath != "" {
		if err := loadConfig(configPath, opt); err != nil {
			return nil, err
		}
	}
	opt.in, opt.binary, opt.output, opt.verbose = f.in, f.binary, f.output, f.verbose
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "descriptor":
			opt.Descriptor = f.Descriptor
		case "message":
			opt.Message = f.Message
		case "yaml":
			opt.YAML = f.YAML
		case "unknown":
			opt.Unknown = f.Unknown
		case "max-depth":
			opt.MaxDepth = f.MaxDepth
		case "lang":
			opt.Lang = f.Lang
		case "enum-names":
			opt.EnumNames = f.EnumNames
		case "indent":
			opt.Indent = f.Indent
		}
	})
	switch opt.Unknown {
	case "strict", "strip":
	default:
		return nil, fmt.Errorf("-unknown must be strict or strip, got %q", opt.Unknown)
	}
	return opt, nil
}

func loadConfig(path string, opt *options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opt); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func (o *options) decodeOpt() pbjson.DecodeOpt {
	d := pbjson.DecodeOpt{MaxDepth: o.MaxDepth}
	if o.Unknown == "strip" {
		d.Unknown = pbjson.UnknownStrip
	}
	return d
}

func (o *options) encodeOpt() pbjson.EncodeOpt {
	return pbjson.EncodeOpt{EnumsAsNames: o.EnumNames}
}
