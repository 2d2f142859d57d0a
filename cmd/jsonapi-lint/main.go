package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	jsonapidoc "github.com/ccbrown/jsonapi-doc"
)

func lint(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "unable to read document")
	}
	if _, err := jsonapidoc.ParseDocument(buf); err != nil {
		return err
	}
	return nil
}

func main() {
	verbose := pflag.BoolP("verbose", "v", false, "log documents that pass validation")
	pflag.Parse()

	paths := pflag.Args()
	if len(paths) == 0 {
		logrus.Fatal("usage: jsonapi-lint [flags] file...")
	}

	okay := true
	for _, path := range paths {
		if err := lint(path); err != nil {
			okay = false
			log := logrus.WithField("file", path)
			if rule, ok := jsonapidoc.RuleOf(err); ok {
				log = log.WithField("rule", rule)
			}
			log.Error(err)
		} else if *verbose {
			logrus.WithField("file", path).Info("ok")
		}
	}
	if !okay {
		os.Exit(1)
	}
}
