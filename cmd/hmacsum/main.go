// Command hmacsum prints the hex HMAC-SHA256 of a message.
//
//	hmacsum -k KEY -m MESSAGE
//	printf 'message' | hmacsum -k KEY
//
// The key defaults to KEY from the environment or a .env file. Standard
// input is signed byte for byte, trailing newlines included.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/Heidric/hmacsign/internal/cfg"
	"github.com/Heidric/hmacsign/internal/logger"
	"github.com/Heidric/hmacsign/internal/services"
)

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	config, err := cfg.NewConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(stderr)
	key := fs.String("k", config.Key, "HMAC key")
	message := fs.String("m", "", "message to sign; standard input is read when unset")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	l, err := logger.Initialize(config.Logger, stderr)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	ctx := l.WithContext(context.Background())

	text := *message
	if !isFlagSet(fs, "m") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return errors.Wrap(err, "read stdin")
		}
		text = string(data)
	}

	digest, err := services.NewSignService(*key).Sign(ctx, text)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, digest)
	return err
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "hmacsum: %v\n", err)
		}
		os.Exit(1)
	}
}
