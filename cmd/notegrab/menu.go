package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aleister1102/notegrab/internal/bulk"
	"github.com/aleister1102/notegrab/internal/extractor"
	"github.com/fatih/color"
)

// Menu is the interactive console loop
type Menu struct {
	service   *bulk.Service
	options   extractor.Options
	inputFile string
	in        *bufio.Reader
	out       io.Writer

	readOnce sync.Once
	lines    chan string
	readErr  error

	title *color.Color
	bold  *color.Color
	green *color.Color
	red   *color.Color
}

func NewMenu(service *bulk.Service, options extractor.Options, inputFile string, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		service:   service,
		options:   options,
		inputFile: inputFile,
		in:        bufio.NewReader(in),
		out:       out,
		title:     color.New(color.FgCyan, color.Bold),
		bold:      color.New(color.Bold),
		green:     color.New(color.FgGreen),
		red:       color.New(color.FgRed),
	}
}

// Run shows the menu until the user exits or input ends. Cancelling ctx
// stops a running batch and makes Run return, even while it waits at a prompt.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		m.title.Fprintln(m.out, "\n📁 XHS Bulk Downloader")
		fmt.Fprintf(m.out, "1. 👀 Preview URLs in %s\n", m.inputFile)
		fmt.Fprintln(m.out, "2. 🚀 Start bulk download")
		fmt.Fprintln(m.out, "3. 🔄 Retry failed downloads")
		fmt.Fprintln(m.out, "4. ⚙️ Download with custom settings")
		fmt.Fprintln(m.out, "5. 🚪 Exit")

		choice, err := m.prompt(ctx, "\nChoose an option (1-5): ")
		if err != nil {
			return ignoreStop(err)
		}

		switch choice {
		case "1":
			m.service.Preview(m.inputFile, 0)
		case "2":
			m.report(m.service.Download(ctx, m.inputFile, m.options, 0))
		case "3":
			m.report(m.service.RetryFailed(ctx, m.options))
		case "4":
			opts, maxConcurrent, err := m.customSettings(ctx)
			if err != nil {
				return ignoreStop(err)
			}
			m.report(m.service.Download(ctx, m.inputFile, opts, maxConcurrent))
		case "5":
			m.green.Fprintln(m.out, "👋 Goodbye!")
			return nil
		default:
			m.red.Fprintln(m.out, "❌ Invalid choice. Please select 1-5.")
		}
	}
}

func (m *Menu) customSettings(ctx context.Context) (extractor.Options, int, error) {
	opts := m.options
	m.bold.Fprintln(m.out, "Custom Download Settings:")

	answers := make([]string, 0, 4)
	for _, question := range []string{
		"Save metadata to database? (y/n, default=y): ",
		"Organize by author folders? (y/n, default=y): ",
		"Create individual post folders? (y/n, default=y): ",
		fmt.Sprintf("Max concurrent downloads (%d-%d, default=%d): ", bulk.MinConcurrent, bulk.MaxConcurrent, bulk.DefaultMaxConcurrent),
	} {
		answer, err := m.prompt(ctx, question)
		if err != nil {
			return opts, 0, err
		}
		answers = append(answers, answer)
	}

	opts.RecordData = bulk.ParseYesNo(answers[0])
	opts.AuthorArchive = bulk.ParseYesNo(answers[1])
	opts.FolderMode = bulk.ParseYesNo(answers[2])
	return opts, bulk.ParseConcurrency(answers[3], bulk.DefaultMaxConcurrent), nil
}

func (m *Menu) report(_ any, err error) {
	if err != nil {
		m.red.Fprintf(m.out, "❌ %v\n", err)
	}
}

// ignoreStop maps the end of input and cancellation to a clean exit
func ignoreStop(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// prompt prints question and waits for one trimmed line or for ctx to end.
// A final line without a newline is still returned.
func (m *Menu) prompt(ctx context.Context, question string) (string, error) {
	m.bold.Fprint(m.out, question)
	m.readOnce.Do(func() {
		m.lines = make(chan string)
		go m.readLines()
	})

	select {
	case <-ctx.Done():
		fmt.Fprintln(m.out)
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			return "", m.readErr
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return line, nil
	}
}

// readLines feeds input lines to prompt until the reader fails.
// readErr is set before lines is closed.
func (m *Menu) readLines() {
	defer close(m.lines)
	for {
		line, err := m.in.ReadString('\n')
		if err == nil || line != "" {
			m.lines <- strings.TrimSpace(line)
		}
		if err != nil {
			m.readErr = err
			return
		}
	}
}
