// Command linksift-extract prints the links found in a file or stdin.
//
//	linksift-extract [-json] [-html] [-group] [-sep SEP] [FILE]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"linksift/internal/apperrors"
	"linksift/internal/config"
	"linksift/internal/domain"
	"linksift/internal/logging"
	"linksift/internal/parser"
	"linksift/internal/service"
)

type options struct {
	json  bool
	html  bool
	group bool
	sep   string
}

func main() {
	var opts options
	flag.BoolVar(&opts.json, "json", false, "print the full result as JSON")
	flag.BoolVar(&opts.html, "html", false, "print the sanitized HTML before the list")
	flag.BoolVar(&opts.group, "group", false, "group links by site")
	flag.StringVar(&opts.sep, "sep", "", "print only URLs, joined by this separator")
	flag.Parse()

	if err := run(opts, flag.Args(), os.Stdin, os.Stdout); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, apperrors.UserMessage(err))
		os.Exit(1)
	}
}

func run(opts options, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, "text", os.Stderr)
	if err != nil {
		return err
	}
	if cfg.LogLevel == "info" {
		log.SetLevel(logrus.WarnLevel)
	}

	in := stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	svc := service.New(
		parser.New(parser.WithLogger(log)),
		nil, nil,
		service.Limits{MaxContentLength: cfg.MaxContentLength, MaxURLCount: cfg.MaxURLCount},
		log,
	)
	result, err := svc.Extract(context.Background(), 0, string(raw))
	if err != nil {
		return err
	}

	return render(stdout, opts, result)
}

func render(w io.Writer, opts options, result domain.ParsedContent) error {
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if opts.sep != "" {
		_, err := fmt.Fprintln(w, domain.CopyText(result.ExtractedURLs, unescape(opts.sep)))
		return err
	}

	if opts.html {
		fmt.Fprintln(w, result.OriginalHTML)
		fmt.Fprintln(w)
	}

	if len(result.ExtractedURLs) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No links found.")
		return nil
	}

	if opts.group {
		for _, g := range service.GroupBySite(result.ExtractedURLs) {
			color.New(color.Bold).Fprintf(w, "%s (%d)\n", g.Site, len(g.Links))
			for _, u := range g.Links {
				printEntry(w, "  ", u)
			}
		}
		return nil
	}

	for i, u := range result.ExtractedURLs {
		printEntry(w, fmt.Sprintf("%3d. ", i+1), u)
	}
	return nil
}

var (
	labelColor   = color.New(color.FgCyan)
	invalidColor = color.New(color.FgRed)
)

func printEntry(w io.Writer, prefix string, u domain.ExtractedURL) {
	fmt.Fprint(w, prefix)
	if u.HasLabel() {
		labelColor.Fprint(w, u.DisplayText)
		fmt.Fprint(w, " - ")
	}
	if u.IsValid {
		fmt.Fprintln(w, u.URL)
		return
	}
	invalidColor.Fprintf(w, "%s (invalid)\n", u.URL)
}

// unescape turns the shell-friendly "\n" and "\t" into real characters.
func unescape(sep string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(sep)
}
