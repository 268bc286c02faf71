package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var errAborted = errors.New("aborted")

// Prompter abstracts the terminal so the run flow can be tested without a TTY.
type Prompter interface {
	FilePath(message string) (string, error)
	Requirements(message string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

type surveyPrompter struct{}

func (surveyPrompter) FilePath(message string) (string, error) {
	var out string
	prompt := &survey.Input{
		Message: message,
		Help:    "Path to the .wsdl file describing the SOAP service",
		Suggest: func(toComplete string) []string {
			matches, _ := filepath.Glob(toComplete + "*")
			return matches
		},
	}
	err := survey.AskOne(prompt, &out, survey.WithValidator(survey.ComposeValidators(survey.Required, fileExists)))
	return out, mapSurveyErr(err)
}

func (surveyPrompter) Requirements(message string) (string, error) {
	var out string
	prompt := &survey.Multiline{
		Message: message,
		Help:    "Free-text hints for the generated test cases; may be left empty",
	}
	err := survey.AskOne(prompt, &out)
	return out, mapSurveyErr(err)
}

func (surveyPrompter) Confirm(message string, def bool) (bool, error) {
	out := def
	err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out)
	return out, mapSurveyErr(err)
}

func fileExists(ans interface{}) error {
	path, _ := ans.(string)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("path is a directory")
	}
	return nil
}

func mapSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
