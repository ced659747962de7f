package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/Urethramancer/i8086/disassembler"
)

func main() {
	outFile := flag.String("o", "", "Output file (default: standard output)")
	verbose := flag.Bool("v", false, "Log every decoded instruction")
	dump := flag.Bool("dump", false, "Dump decoded instructions to standard error")
	legacy := flag.Bool("legacy-targets", false, "Print near call/jmp targets as rounded absolute addresses")
	maxSize := flag.Int64("max-size", 1<<20, "Largest image to load, in bytes")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dis86 [options] image.bin\n\nDisassembles a flat 8086 binary into NASM-style text.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	log := newLogger(*verbose)
	code, err := loadImage(flag.Arg(0), *maxSize)
	if err != nil {
		log.WithField("file", flag.Arg(0)).Fatal(err)
	}
	if len(code) == 0 {
		log.WithField("file", flag.Arg(0)).Fatal("empty image")
	}

	opts := []disassembler.Option{
		disassembler.WithLogger(log),
		disassembler.WithLegacyTargets(*legacy),
	}
	if *dump {
		opts = append(opts, disassembler.WithDump(os.Stderr))
	}

	err = writeListing(*outFile, code, opts...)
	if err != nil {
		var de *disassembler.DecodeError
		if errors.As(err, &de) {
			// Already logged with its position by the disassembler.
			os.Exit(1)
		}
		log.Fatal(err)
	}
}

func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:   term.IsTerminal(int(os.Stderr.Fd())),
		DisableColors: !term.IsTerminal(int(os.Stderr.Fd())),
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// writeListing disassembles code into path, or to standard output when path is
// empty. Lines decoded before a failure are still written, and the file is closed
// before returning.
func writeListing(path string, code []byte, opts ...disassembler.Option) (err error) {
	out := os.Stdout
	if path != "" {
		out, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	w := bufio.NewWriter(out)
	err = disassembler.New(opts...).Write(w, code)
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

// loadImage reads the whole file, refusing anything larger than limit.
func loadImage(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s is larger than %d bytes", path, limit)
	}
	return data, nil
}
