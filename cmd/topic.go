package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/etnz/bitbaby/docs"
	"github.com/etnz/bitbaby/renderer"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `bb topic [<topic>...]

  Shows documentation for the given topics, '*' for all of them. Without
  topic, lists them.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}

	doc, err := docs.GetTopics(topics...)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading doc: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// printMarkdown prints md styled for the terminal, or as is when stdout is not one.
func printMarkdown(md string) {
	fd := int(os.Stdout.Fd())
	if stdout != os.Stdout || !term.IsTerminal(fd) {
		fmt.Fprint(stdout, md)
		return
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = 100
	}
	out, err := renderer.Terminal(md, width, "dark")
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
