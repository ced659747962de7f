package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/Urethramancer/i8086/assembler"
)

func main() {
	outFile := flag.String("o", "", "Output file (default: input with .bin extension)")
	verbose := flag.Bool("v", false, "Log label addresses")
	maxSize := flag.Int64("max-size", 1<<20, "Largest source file to load, in bytes")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: asm86 [options] source.asm\n\nAssembles 8086 source into a flat binary.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:   term.IsTerminal(int(os.Stderr.Fd())),
		DisableColors: !term.IsTerminal(int(os.Stderr.Fd())),
	})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	inputPath := flag.Arg(0)
	src, err := loadSource(inputPath, *maxSize)
	if err != nil {
		log.WithField("file", inputPath).Fatal(err)
	}

	asm := assembler.New()
	code, err := asm.Assemble(src)
	if err != nil {
		log.WithField("file", inputPath).Fatal(err)
	}
	for label, addr := range asm.Labels() {
		log.WithFields(logrus.Fields{"label": label, "address": addr}).Debug("label")
	}

	outputPath := *outFile
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".asm") + ".bin"
	}
	if err := os.WriteFile(outputPath, code, 0644); err != nil {
		log.Fatalf("Error writing %s: %v", outputPath, err)
	}
	log.WithFields(logrus.Fields{"file": outputPath, "bytes": len(code)}).Debug("written")
}

func loadSource(path string, limit int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%s is larger than %d bytes", path, limit)
	}
	return string(data), nil
}
