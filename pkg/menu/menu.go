package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jungletek/vms-storage-calc/pkg/estimator"
	"github.com/jungletek/vms-storage-calc/pkg/logger"
	"github.com/jungletek/vms-storage-calc/pkg/report"
)

const separatorWidth = 40

var (
	// ErrInvalidInput is returned by the input helpers for unparsable or non-finite numbers
	ErrInvalidInput = errors.New("invalid input")

	errExit = errors.New("exit")
)

// Handler runs one menu option
type Handler func(m *Menu) error

// Entry is one row of the dispatch table
type Entry struct {
	Key   string
	Label string
	Run   Handler
}

// Options carries the configured defaults into the menu
type Options struct {
	ReferenceFPS   float64
	TableBitrates  []float64
	TableDurations []float64
}

// Menu is the interactive calculator
type Menu struct {
	in       *bufio.Scanner
	out      io.Writer
	renderer *report.Renderer
	opts     Options
	entries  []Entry
}

// New creates a menu reading answers from in and writing to out
func New(in io.Reader, out io.Writer, opts Options) *Menu {
	if opts.ReferenceFPS == 0 {
		opts.ReferenceFPS = estimator.DefaultReferenceFPS
	}
	return &Menu{
		in:       bufio.NewScanner(in),
		out:      out,
		renderer: report.NewRenderer(out, false),
		opts:     opts,
		entries:  DefaultEntries(),
	}
}

// DefaultEntries returns the calculator's dispatch table
func DefaultEntries() []Entry {
	return []Entry{
		{Key: "1", Label: "Calculate storage for specific bitrate and duration", Run: storageForDuration},
		{Key: "2", Label: "Calculate FPS impact on bitrate", Run: fpsImpact},
		{Key: "3", Label: "Show storage estimation table", Run: storageTable},
		{Key: "4", Label: "Show quick reference values", Run: quickReference},
		{Key: "5", Label: "Calculate storage for multiple cameras", Run: multipleCameras},
		{Key: "6", Label: "Exit", Run: exit},
	}
}

// Run shows the menu until the user exits or input ends
func (m *Menu) Run() error {
	m.println("VMS Storage Calculator")
	m.println(strings.Repeat("=", separatorWidth))

	for {
		m.println("\nChoose an option:")
		for _, e := range m.entries {
			m.printf("%s. %s\n", e.Key, e.Label)
		}

		choice, err := m.ask(fmt.Sprintf("\nEnter your choice (%s-%s): ", m.entries[0].Key, m.entries[len(m.entries)-1].Key))
		if err != nil {
			return ignoreEOF(err)
		}

		entry, ok := m.lookup(choice)
		if !ok {
			m.printf("[ERROR] Invalid choice. Please enter %s-%s.\n", m.entries[0].Key, m.entries[len(m.entries)-1].Key)
			continue
		}

		err = entry.Run(m)
		switch {
		case err == nil:
		case errors.Is(err, errExit):
			return nil
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrInvalidInput):
			m.println("[ERROR] Invalid input. Please enter valid numbers.")
		default:
			logger.GetLogger().WithError(err).WithField("option", entry.Key).Debug("Menu option failed")
			m.printf("[ERROR] %v\n", err)
		}
	}
}

func (m *Menu) lookup(key string) (Entry, bool) {
	for _, e := range m.entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

func (m *Menu) println(a ...interface{}) {
	fmt.Fprintln(m.out, a...)
}

func (m *Menu) printf(format string, a ...interface{}) {
	fmt.Fprintf(m.out, format, a...)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
