package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// EndMarker terminates multi-line input
const EndMarker = "END"

// ErrInputClosed is returned when the input ends before an answer is read
var ErrInputClosed = errors.New("input closed")

// Prompter reads answers from the reviewer
type Prompter struct {
	in      *bufio.Reader
	printer *Printer
}

// NewPrompter creates a Prompter reading from in and prompting through printer
func NewPrompter(in io.Reader, printer *Printer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), printer: printer}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask prompts for a single line, returning def when the answer is blank
func (p *Prompter) Ask(prompt, def string) (string, error) {
	if def != "" {
		p.printer.Print("%s [%s]: ", prompt, def)
	} else {
		p.printer.Print("%s: ", prompt)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) == "" {
		return def, nil
	}
	return strings.TrimSpace(line), nil
}

// Choice prompts until the answer is one of choices
func (p *Prompter) Choice(prompt string, choices []string, def string) (string, error) {
	label := fmt.Sprintf("%s [%s]", prompt, strings.Join(choices, "/"))
	for {
		answer, err := p.Ask(label, def)
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		for _, c := range choices {
			if answer == c {
				return c, nil
			}
		}
		p.printer.Warning("Please select one of the available options")
	}
}

// Confirm asks a yes/no question
func (p *Prompter) Confirm(prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		p.printer.Print("%s [%s]: ", prompt, hint)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.printer.Warning("Please enter y or n")
	}
}

// MultiLine reads lines until one equal to EndMarker. When nothing was
// entered def is returned.
func (p *Prompter) MultiLine(prompt, def string) (string, error) {
	p.printer.Println(fmt.Sprintf("%s (type '%s' on a new line when done):", prompt, EndMarker))
	var lines []string
	for {
		line, err := p.readLine()
		if err != nil {
			if errors.Is(err, ErrInputClosed) {
				break
			}
			return "", err
		}
		if strings.TrimSpace(line) == EndMarker {
			break
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return def, nil
	}
	return strings.Join(lines, "\n"), nil
}
