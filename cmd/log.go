package cmd

import (
	log "github.com/sirupsen/logrus"
)

var defaultLogFormatter = &log.TextFormatter{}

// infoFormatter prints Info() log events as bare messages so that progress
// output stays readable.
type infoFormatter struct{}

func (f *infoFormatter) Format(entry *log.Entry) ([]byte, error) {
	if entry.Level == log.InfoLevel {
		return append([]byte(entry.Message), '\n'), nil
	}
	return defaultLogFormatter.Format(entry)
}

func setupLogging(quiet, verbose bool) {
	log.SetFormatter(new(infoFormatter))
	log.SetLevel(log.InfoLevel)
	switch {
	case quiet:
		log.SetLevel(log.ErrorLevel)
	case verbose:
		log.SetFormatter(defaultLogFormatter)
		log.SetLevel(log.DebugLevel)
	}
}
