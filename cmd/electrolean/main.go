package main

import (
	_ "embed"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/electrolean/electrolean/depgraph"
	"github.com/electrolean/electrolean/frontend"
	"github.com/electrolean/electrolean/item"
	"github.com/electrolean/electrolean/typetr"
)

//go:embed doc.go
var doc string

var onlyFlag = flag.String("only", "", "comma-separated list of item-name prefixes to emit, plus their dependency closure")

func usage() {
	_, after, _ := strings.Cut(doc, "/*\n")
	body, _, _ := strings.Cut(after, "*/")
	io.WriteString(flag.CommandLine.Output(), body+`
Flags:

`)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("electrolean: ")
	log.SetFlags(0) // no time prefix

	flag.Usage = usage
	flag.Parse()
	if len(flag.Args()) == 0 {
		usage()
		os.Exit(2)
	}
	inputPath := flag.Args()[0]
	// Arguments after a literal "--" are not flags to this command; the
	// flag package already splits them out for us (see doc.go).
	_ = flag.Args()[1:] // reserved for a real frontend's own configuration

	data, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("reading %s: %v", inputPath, err)
	}

	crate, ctx, mirTable, err := frontend.Decode(data)
	if err != nil {
		log.Fatalf("decoding %s: %v", inputPath, err)
	}

	var only []string
	if *onlyFlag != "" {
		only = strings.Split(*onlyFlag, ",")
	}

	if err := run(crate, ctx, mirTable, only); err != nil {
		log.Fatal(err)
	}
}

// run performs one translation pass: register every struct/enum/trait
// declaration first (item.Registry), translate every item (item.Translator),
// then write the assembled document to thys/<crate>.lean (spec §6, "Output
// file"). Split out from main so tests could drive it directly, mirroring
// the teacher's convention of keeping main itself a thin wrapper around a
// testable entry point.
func run(crate *frontend.Crate, ctx frontend.TypeContext, mirTable frontend.MIRProvider, only []string) error {
	reg := item.NewRegistry()
	crate.Walk(reg)

	resolver := depgraph.NewResolver(ctx)
	types := typetr.NewContext(resolver)
	tr := item.NewTranslator(ctx, types, reg, mirTable)
	crate.Walk(tr)

	prePath := filepath.Join("thys", crate.Name, "pre.lean")
	_, statErr := os.Stat(prePath)
	hasPre := statErr == nil

	outPath := filepath.Join("thys", crate.Name+".lean")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	emitter := item.NewEmitter(crate.Name, hasPre, tr.Results, resolver.Graph, only)
	return emitter.WriteTo(f)
}
