package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// appContext is passed to every command's Run method.
type appContext struct {
	Out io.Writer
	In  io.Reader
}

var CLI struct {
	Classify  ClassifyCmd  `cmd:"" help:"Classify text with the local mood lexicon."`
	Normalize NormalizeCmd `cmd:"" help:"Map an external emotion label onto a mood."`
	Theme     ThemeCmd     `cmd:"" help:"Show the theme of a mood."`
	Detect    DetectCmd    `cmd:"" help:"Detect the mood of text with the configured emotion provider."`
	Stats     StatsCmd     `cmd:"" help:"Aggregate a JSON-lines mood log."`
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name("moodcheck"),
		kong.Description("Inspect the RantMe mood engine from the command line"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	if err := ctx.Run(&appContext{Out: os.Stdout, In: os.Stdin}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
