package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Actions selectable with -action
const (
	ActionMenu     = "menu"
	ActionPreview  = "preview"
	ActionDownload = "download"
	ActionRetry    = "retry"
)

type AppFlags struct {
	GlobalConfigFile string
	InputFile        string
	Action           string
}

// ParseFlags parses args (without the program name). Short aliases fill in
// only when the long form is empty.
func ParseFlags(args []string, output io.Writer) (AppFlags, error) {
	fs := flag.NewFlagSet("notegrab", flag.ContinueOnError)
	fs.SetOutput(output)

	globalConfigFile := fs.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := fs.String("c", "", "Alias for -config")

	inputFile := fs.String("file", "", "Path to the URL list, one post URL per line. Overrides bulk_config.input_file.")
	inputFileAlias := fs.String("f", "", "Alias for -file")

	action := fs.String("action", "", "What to run: menu, preview, download or retry (default menu)")
	actionAlias := fs.String("a", "", "Alias for -action")

	if err := fs.Parse(args); err != nil {
		return AppFlags{}, err
	}

	flags := AppFlags{Action: ActionMenu}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *inputFile != "" {
		flags.InputFile = *inputFile
	} else if *inputFileAlias != "" {
		flags.InputFile = *inputFileAlias
	}

	if *action != "" {
		flags.Action = strings.ToLower(*action)
	} else if *actionAlias != "" {
		flags.Action = strings.ToLower(*actionAlias)
	}

	switch flags.Action {
	case ActionMenu, ActionPreview, ActionDownload, ActionRetry:
	default:
		return AppFlags{}, fmt.Errorf("unknown action %q (expected menu, preview, download or retry)", flags.Action)
	}

	return flags, nil
}
