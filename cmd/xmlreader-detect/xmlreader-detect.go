// xmlreader-detect reports the character encoding of XML files, and
// optionally transcodes them to UTF-8 on stdout.
package main

import (
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/lestrrat-go/xmlreader"
)

type options struct {
	Fallback  string `short:"f" long:"fallback" default:"UTF-8" description:"encoding to assume when the stream carries no signal"`
	BOMOnly   bool   `short:"b" long:"bom-only" description:"only honor a byte order mark, ignore the XML declaration"`
	Transcode bool   `short:"t" long:"transcode" description:"write the decoded content to stdout as UTF-8"`
	Args      struct {
		Files []string `positional-arg-name:"file"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(_main())
}

func _main() int {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		return 1
	}

	fallbackOption, err := xmlreader.WithFallbackName(opts.Fallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "xmlreader-detect: %s\n", err)
		return 1
	}

	files := opts.Args.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	status := 0
	for _, file := range files {
		if err := detect(file, opts, fallbackOption); err != nil {
			fmt.Fprintf(os.Stderr, "xmlreader-detect: %s: %s\n", file, err)
			status = 1
		}
	}
	return status
}

func detect(file string, opts options, fallbackOption xmlreader.Option) error {
	var src io.Reader
	if file == "-" {
		src = os.Stdin
	} else {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	var r *xmlreader.Reader
	var err error
	if opts.BOMOnly {
		r, err = xmlreader.NewBOMReader(src, fallbackOption)
	} else {
		r, err = xmlreader.New(src, fallbackOption)
	}
	if err != nil {
		return err
	}
	defer r.Close()

	if opts.Transcode {
		_, err := io.Copy(os.Stdout, r)
		return err
	}

	fmt.Printf("%s: %s\n", file, r.Encoding())
	return nil
}
