package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mikey/phish-detector/internal/adapters/filter"
	"github.com/mikey/phish-detector/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *di.CLIFlags, logger *zap.Logger, cli *filter.CliFilter) error {
	defer logger.Sync()

	if flags.URL != "" {
		_, err := cli.CheckURL(flags.URL)
		return err
	}

	// Read email from file or stdin
	var reader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		reader = file
		logger.Debug("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		reader = os.Stdin
		logger.Debug("Reading email from stdin")
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	if flags.RawEmail {
		_, err = cli.CheckEmail(string(raw))
	} else {
		_, err = cli.CheckMessage(raw)
	}
	return err
}
