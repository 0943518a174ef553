// Package assistant implements the interactive command loop on top of an address book.
package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gitlab.com/dirk.krummacker/contacts-assistant/internal/addressbook"
)

// anyArity marks commands that ignore their arguments.
const anyArity = -1

// HandlerFunc executes a command with its arguments and returns the text to print.
type HandlerFunc func(args []string) (string, error)

// command is an entry of the command table.
type command struct {
	arity   int
	usage   string
	handler HandlerFunc
}

// Assistant reads commands, runs them against an address book and prints the results.
type Assistant struct {
	book     *addressbook.AddressBook
	out      io.Writer
	logger   *slog.Logger
	commands map[string]command
	exits    map[string]bool
}

// New creates an assistant for book that prints to out and registers all commands.
func New(book *addressbook.AddressBook, out io.Writer, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Assistant{
		book:     book,
		out:      out,
		logger:   logger,
		commands: map[string]command{},
		exits:    map[string]bool{"close": true, "exit": true},
	}
	a.Handle("add", 2, "add username phone", a.addContact)
	a.Handle("change", 2, "change username phone", a.changeContact)
	a.Handle("phone", 1, "phone username", a.showPhone)
	a.Handle("all", anyArity, "all", a.showAll)
	a.Handle("add-birthday", 2, "add-birthday username DD.MM.YYYY", a.addBirthday)
	a.Handle("show-birthday", 1, "show-birthday username", a.showBirthday)
	a.Handle("birthdays", anyArity, "birthdays", a.birthdays)
	a.Handle("hello", anyArity, "hello", a.hello)
	return a
}

// Handle registers a command. A non-negative arity is checked before the handler is called; on a
// mismatch the usage is printed instead.
func (a *Assistant) Handle(name string, arity int, usage string, handler HandlerFunc) {
	a.commands[name] = command{arity: arity, usage: usage, handler: handler}
}

// Run prints the welcome message and processes lines from in until an exit command, the end of
// the input or a cancelled context. Errors other than the recognized address book errors stop
// the loop and are returned.
func (a *Assistant) Run(ctx context.Context, in io.Reader) error {
	a.Println("Welcome to the assistant bot!")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// stdin reader goroutine -> lines into channel. After an exit command it stays blocked in
	// Scan until the next line or the end of the process; it is abandoned on purpose.
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
		close(lines)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(a.out, "Enter a command: ")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				a.logger.Debug("end of input")
				a.Println("Goodbye!")
				return nil
			}
			done, err := a.Execute(line)
			if err != nil || done {
				return err
			}
		}
	}
}

// Execute runs a single input line. It reports whether the line asked to exit.
func (a *Assistant) Execute(line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false, nil
	}
	name, args := fields[0], fields[1:]
	if a.exits[name] {
		a.Println("Goodbye!")
		return true, nil
	}
	cmd, ok := a.commands[name]
	if !ok {
		a.logger.Debug("unknown command", "command", name)
		a.Println("Invalid command")
		return false, nil
	}
	if cmd.arity != anyArity && len(args) != cmd.arity {
		a.Println("Invalid command. Usage: " + cmd.usage)
		return false, nil
	}
	msg, err := addressbook.Message(cmd.handler(args))
	if err != nil {
		a.logger.Error("command failed", "command", name, "error", err)
		return false, err
	}
	a.Println(msg)
	return false, nil
}

// Println writes s and a newline to the output of the assistant.
func (a *Assistant) Println(s string) {
	fmt.Fprintln(a.out, s)
}

// expectArgs guards handlers that index into their arguments.
func expectArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d, got %d", addressbook.ErrArgumentCount, n, len(args))
	}
	return nil
}

// addContact handles "add username phone".
func (a *Assistant) addContact(args []string) (string, error) {
	if err := expectArgs(args, 2); err != nil {
		return "", err
	}
	return a.book.AddContact(args[0], args[1])
}

// changeContact handles "change username phone".
func (a *Assistant) changeContact(args []string) (string, error) {
	if err := expectArgs(args, 2); err != nil {
		return "", err
	}
	return a.book.ChangeContact(args[0], args[1])
}

// showPhone handles "phone username".
func (a *Assistant) showPhone(args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	return a.book.ShowPhone(args[0])
}

// showAll handles "all".
func (a *Assistant) showAll([]string) (string, error) {
	return a.book.ShowAll(), nil
}

// addBirthday handles "add-birthday username DD.MM.YYYY".
func (a *Assistant) addBirthday(args []string) (string, error) {
	if err := expectArgs(args, 2); err != nil {
		return "", err
	}
	return a.book.AddBirthday(args[0], args[1])
}

// showBirthday handles "show-birthday username".
func (a *Assistant) showBirthday(args []string) (string, error) {
	if err := expectArgs(args, 1); err != nil {
		return "", err
	}
	return a.book.ShowBirthday(args[0])
}

// birthdays handles "birthdays" and lists the contacts to congratulate.
func (a *Assistant) birthdays([]string) (string, error) {
	upcoming := a.book.BirthdaysPerWeek()
	if len(upcoming) == 0 {
		return "No upcoming birthdays in the next week.", nil
	}
	return "Upcoming birthdays to celebrate: " + strings.Join(upcoming, ", "), nil
}

// hello handles "hello".
func (a *Assistant) hello([]string) (string, error) {
	return "Hello! How can I assist you today?", nil
}
