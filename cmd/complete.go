package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/bitbaby"
	"github.com/etnz/bitbaby/docs"
)

// Completion returns the shell completion tree of the application, built from Commands.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"v":      predict.Nothing,
		},
	}
	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = flagPredictor(c.Name(), f.Name) })
		root.Sub[c.Name()] = sub
	}

	fields := predict.Set{}
	for _, f := range bitbaby.Fields {
		if f.Editable() {
			fields = append(fields, string(f))
		}
	}
	root.Sub["set"].Args = fields
	root.Sub["date"].Args = predict.Set{"today", "yesterday"}
	if topics, err := docs.GetAllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	return root
}

func flagPredictor(cmd, name string) complete.Predictor {
	switch {
	case name == "status":
		statuses := predict.Set{}
		for _, s := range bitbaby.Statuses {
			statuses = append(statuses, string(s))
		}
		return statuses
	case name == "format":
		return predict.Set{"png", "md", "html"}
	case name == "style":
		return predict.Set{"dark", "light", "notty", "ascii"}
	case name == "o":
		return predict.Dirs("*")
	case cmd == "reset" || name == "raw":
		return predict.Nothing
	}
	return predict.Something
}
