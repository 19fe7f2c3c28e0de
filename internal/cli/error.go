package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/dbtargets/pkg/profiles"
	"github.com/macropower/dbtargets/pkg/yaml"
)

// ErrorHandler renders command errors for [fang.Execute]. Profile errors
// are headed by their kind, and YAML errors include an excerpt of the
// offending source.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))

	indent := lipgloss.NewStyle().MarginLeft(2)

	var pErr *profiles.Error
	if errors.As(err, &pErr) {
		mustN(fmt.Fprintln(w, indent.Render(string(pErr.Kind))))
	}

	mustN(fmt.Fprintln(w, indent.Render(err.Error())))
	mustN(fmt.Fprintln(w))

	if excerpt := sourceExcerpt(err); excerpt != "" {
		mustN(fmt.Fprintln(w, indent.Render(excerpt)))
		mustN(fmt.Fprintln(w))
	}

	if isUsageError(err) {
		mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
			lipgloss.Left,
			styles.ErrorText.UnsetWidth().Render("Try"),
			styles.Program.Flag.Render("--help"),
			styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render("for usage."),
		)))
		mustN(fmt.Fprintln(w))
	}
}

// sourceExcerpt returns the annotated source around a YAML error, if err
// carries one.
func sourceExcerpt(err error) string {
	var yamlErr *yaml.Error
	if !errors.As(err, &yamlErr) || yamlErr.Source == nil {
		return ""
	}

	withSnippet := *yamlErr
	yaml.WithSnippet(true)(&withSnippet)

	_, excerpt, ok := strings.Cut(withSnippet.Error(), "\n")
	if !ok {
		return ""
	}

	return excerpt
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
