// Command-line utility over saved ostracod intensity tables and tile
// metadata schemas.  Provides inspect, verify, and validate commands on top
// of the core library.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/blang/semver"

	"github.com/ostracod-imaging/ostracod/intensity"
	"github.com/ostracod-imaging/ostracod/ostracod"
	"github.com/ostracod-imaging/ostracod/tileset"
)

var (
	// Display usage if true.
	showHelp = flag.Bool("help", false, "")

	// Run in verbose mode if true.
	runVerbose = flag.Bool("verbose", false, "")

	// Path to a TOML configuration file.
	configFile = flag.String("config", "", "")
)

// Version is the version string of this utility, parseable as a semantic
// version.
const Version = "0.1.0"

const helpMessage = `
ostracod inspects and checks saved intensity tables and tile metadata

Usage: ostracod [options] <command>

      -config     =string   Path to TOML configuration with a [log] section.
      -verbose    (flag)    Run in verbose (debug) mode.
  -h, -help       (flag)    Show help message

Commands:

	about
	inspect  <table file>
	verify   <table file> <table file>
	validate <schema file> <extras JSON file>
`

// tomlConfig mirrors the configuration file layout.
type tomlConfig struct {
	Log ostracod.LogConfig `toml:"log"`
}

func main() {
	flag.BoolVar(showHelp, "h", false, "")
	flag.Usage = func() {
		fmt.Print(helpMessage)
	}
	flag.Parse()

	if *showHelp || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}
	if *runVerbose {
		ostracod.SetLogMode(ostracod.DebugMode)
	}
	if *configFile != "" {
		var tc tomlConfig
		if _, err := toml.DecodeFile(*configFile, &tc); err != nil {
			fmt.Fprintf(os.Stderr, "Could not decode TOML config: %v\n", err)
			os.Exit(1)
		}
		tc.Log.SetLogger()
	}
	defer ostracod.Shutdown()

	var err error
	switch flag.Arg(0) {
	case "about":
		err = doAbout()
	case "inspect":
		err = doInspect(flag.Args()[1:])
	case "verify":
		err = doVerify(flag.Args()[1:])
	case "validate":
		err = doValidate(flag.Args()[1:])
	case "help":
		flag.Usage()
	default:
		err = fmt.Errorf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func doAbout() error {
	v, err := semver.Make(Version)
	if err != nil {
		return fmt.Errorf("bad version string %q: %v", Version, err)
	}
	fmt.Printf("ostracod version %s\n", v)
	return nil
}

func doInspect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("inspect requires one table file")
	}
	t, err := intensity.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", t)
	dims := t.Dims()
	shape := t.Shape()
	for i, dim := range dims {
		fmt.Printf("  axis %-10s extent %d\n", dim, shape[i])
	}
	coordNames := t.CoordNames()
	sort.Strings(coordNames)
	for _, name := range coordNames {
		c, _ := t.Coord(name)
		fmt.Printf("  coord %-10s %s on axis %q, %d labels\n", name, c.Kind, c.Dim, c.Len())
	}
	attrNames := t.AttrNames()
	sort.Strings(attrNames)
	for _, name := range attrNames {
		value, _ := t.Attr(name)
		fmt.Printf("  attr %-11s %v\n", name, value)
	}
	return nil
}

func doVerify(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("verify requires two table files")
	}
	a, err := intensity.Load(args[0])
	if err != nil {
		return err
	}
	b, err := intensity.Load(args[1])
	if err != nil {
		return err
	}
	if !a.Equals(b) {
		return fmt.Errorf("tables differ: %s vs %s", a, b)
	}
	fmt.Printf("Tables are equivalent.\n")
	return nil
}

func doValidate(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("validate requires a schema file and an extras JSON file")
	}
	schemaData, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	validator, err := tileset.NewValidator(schemaData)
	if err != nil {
		return err
	}
	extrasData, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	var extras map[string]interface{}
	if err := json.Unmarshal(extrasData, &extras); err != nil {
		return fmt.Errorf("can't decode extras JSON: %v", err)
	}
	if err := validator.ValidateExtras(extras); err != nil {
		return fmt.Errorf("extras do not conform to schema: %v", err)
	}
	fmt.Printf("Extras conform to schema.\n")
	return nil
}
