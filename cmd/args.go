package main

import (
	"fmt"
	"regexp"
	"strings"
)

// options holds the dataset locations given on the command line. Empty means
// not supplied.
type options struct {
	Covid         string
	Population    string
	Properties    string
	PropertiesDB  string
	ZipBoundaries string
	Log           string
}

var argPattern = regexp.MustCompile(`^--(.+?)=(.+)$`)

// parseArgs accepts only --name=value arguments, each name at most once.
// The returned error message is printed as-is.
func parseArgs(args []string) (options, error) {
	var opts options
	seen := make(map[string]bool, len(args))

	for _, arg := range args {
		m := argPattern.FindStringSubmatch(arg)
		if m == nil {
			return options{}, fmt.Errorf("Error: Invalid argument format '%s'. Expected format: --name=value", arg)
		}
		name, value := strings.ToLower(m[1]), m[2]

		var dst *string
		switch name {
		case "covid":
			dst = &opts.Covid
		case "population":
			dst = &opts.Population
		case "properties":
			dst = &opts.Properties
		case "properties-db":
			dst = &opts.PropertiesDB
		case "zip-boundaries":
			dst = &opts.ZipBoundaries
		case "log":
			dst = &opts.Log
		default:
			return options{}, fmt.Errorf("Error: Unknown argument name --%s", name)
		}
		if seen[name] {
			return options{}, fmt.Errorf("Error: Duplicate argument --%s", name)
		}
		seen[name] = true
		*dst = value
	}

	if opts.Properties != "" && opts.PropertiesDB != "" {
		return options{}, fmt.Errorf("Error: --properties and --properties-db cannot be used together")
	}
	return opts, nil
}
