package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/export"
)

// sessionFlags are the flags 'set' can pin for the rest of a session
var sessionFlags = []string{"seed", "format", "out", "catalog-env"}

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (load the config once, run multiple commands)",
		Long: `Start an interactive session where you can try several seeds or formats without reloading the configuration.

Use 'set seed 7' or 'set format csv' to pin a flag for every later command that accepts it;
a flag given on the command line still wins. 'show' lists pinned flags and 'unset' clears one.
The session will keep running until you type 'exit' or 'quit'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\n🏕️  Starting interactive session...")
			fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			commands := make(map[string]*cobra.Command)
			if rootCmd := cmd.Parent(); rootCmd != nil {
				for _, subCmd := range rootCmd.Commands() {
					switch subCmd.Name() {
					case "interactive", "completion", "help":
					default:
						commands[subCmd.Name()] = subCmd
					}
				}
			}

			return newSession(out, commands, app.Logger).run(cmd.InOrStdin())
		},
	}

	return cmd
}

// session runs camp commands against the config loaded at startup
type session struct {
	out      io.Writer
	commands map[string]*cobra.Command
	logger   *zap.Logger

	// Flag values pinned with 'set', keyed by flag name
	pinned map[string]string
}

func newSession(out io.Writer, commands map[string]*cobra.Command, logger *zap.Logger) *session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &session{
		out:      out,
		commands: commands,
		logger:   logger,
		pinned:   make(map[string]string),
	}
}

func (s *session) run(in io.Reader) error {
	lines := bufio.NewScanner(in)

	for s.prompt(); lines.Scan(); s.prompt() {
		words, err := splitArgs(lines.Text())
		if err != nil {
			fmt.Fprintf(s.out, "❌ Error parsing command: %v\n\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}

		if s.dispatch(words[0], words[1:]) {
			fmt.Fprintln(s.out, "👋 Goodbye!")
			return nil
		}
	}

	if err := lines.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	fmt.Fprintln(s.out)
	return nil
}

// prompt lists the pinned flags
func (s *session) prompt() {
	if len(s.pinned) == 0 {
		fmt.Fprint(s.out, "camp> ")
		return
	}

	settings := make([]string, 0, len(s.pinned))
	for _, name := range slices.Sorted(maps.Keys(s.pinned)) {
		settings = append(settings, name+"="+s.pinned[name])
	}
	fmt.Fprintf(s.out, "camp [%s]> ", strings.Join(settings, " "))
}

// dispatch handles one line and reports whether the session should end
func (s *session) dispatch(name string, args []string) bool {
	switch name {
	case "exit", "quit":
		return true
	case "help":
		s.printHelp()
	case "set":
		s.set(args)
	case "unset":
		s.unset(args)
	case "show":
		s.show()
	default:
		s.execute(name, args)
	}
	return false
}

func (s *session) set(args []string) {
	if len(args) != 2 || args[1] == "" {
		fmt.Fprintf(s.out, "❌ Usage: set <%s> <value>\n\n", strings.Join(sessionFlags, "|"))
		return
	}

	name, value := args[0], args[1]
	if err := checkSessionFlag(name, value); err != nil {
		fmt.Fprintf(s.out, "❌ Error: %v\n\n", err)
		return
	}

	s.pinned[name] = value
	s.logger.Debug("Pinned session flag", zap.String("flag", name), zap.String("value", value))
	fmt.Fprintf(s.out, "✓ %s = %s\n\n", name, value)
}

func (s *session) unset(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "❌ Usage: unset <name>")
		fmt.Fprintln(s.out)
		return
	}
	if _, ok := s.pinned[args[0]]; !ok {
		fmt.Fprintf(s.out, "❌ %s is not set\n\n", args[0])
		return
	}

	delete(s.pinned, args[0])
	s.logger.Debug("Cleared session flag", zap.String("flag", args[0]))
	fmt.Fprintf(s.out, "✓ %s cleared\n\n", args[0])
}

func (s *session) show() {
	if len(s.pinned) == 0 {
		fmt.Fprintln(s.out, "No session flags set; commands use the config values")
		fmt.Fprintln(s.out)
		return
	}

	fmt.Fprintln(s.out, "Session flags:")
	for _, name := range slices.Sorted(maps.Keys(s.pinned)) {
		fmt.Fprintf(s.out, "  --%-14s %s\n", name, s.pinned[name])
	}
	fmt.Fprintln(s.out)
}

// execute runs a camp command through RunE so PersistentPreRunE does not reload the config
func (s *session) execute(name string, args []string) {
	target, ok := s.commands[name]
	if !ok {
		fmt.Fprintf(s.out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", name)
		return
	}

	flags := target.Flags()
	flags.VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := target.ParseFlags(args); err != nil {
		fmt.Fprintf(s.out, "❌ Error parsing flags: %v\n\n", err)
		return
	}

	// Pinned values fill in only what the line left out
	for flagName, value := range s.pinned {
		if flag := flags.Lookup(flagName); flag != nil && !flag.Changed {
			flag.Value.Set(value)
		}
	}

	positional := flags.Args()
	if target.Args != nil {
		if err := target.Args(target, positional); err != nil {
			fmt.Fprintf(s.out, "❌ Error: %v\n\n", err)
			return
		}
	}

	s.logger.Debug("Running session command", zap.String("command", name), zap.Strings("args", args))

	switch {
	case target.RunE != nil:
		if err := target.RunE(target, positional); err != nil {
			fmt.Fprintf(s.out, "❌ Error: %v\n\n", err)
		}
	case target.Run != nil:
		target.Run(target, positional)
	}
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, "\nAvailable commands:")
	for _, name := range slices.Sorted(maps.Keys(s.commands)) {
		cmd := s.commands[name]
		fmt.Fprintf(s.out, "  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintln(s.out, "\nSession commands:")
	fmt.Fprintf(s.out, "  %-30s %s\n", "set <name> <value>", "Pin --"+strings.Join(sessionFlags, ", --")+" for later commands")
	fmt.Fprintf(s.out, "  %-30s %s\n", "unset <name>", "Clear a pinned flag")
	fmt.Fprintf(s.out, "  %-30s %s\n", "show", "List pinned flags")
	fmt.Fprintf(s.out, "  %-30s %s\n", "help", "Show this help message")
	fmt.Fprintf(s.out, "  %-30s %s\n", "exit, quit", "Exit the interactive session")
	fmt.Fprintln(s.out)
}

// checkSessionFlag rejects values the generate command would refuse
func checkSessionFlag(name, value string) error {
	switch name {
	case "seed":
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("seed must be a non-negative integer, got: %s", value)
		}
	case "format":
		if _, err := export.ParseFormat(value); err != nil {
			return err
		}
	case "out", "catalog-env":
	default:
		return fmt.Errorf("cannot set %q (one of: %s)", name, strings.Join(sessionFlags, ", "))
	}
	return nil
}

// splitArgs breaks a session line into words. Single quotes keep their contents
// literally; elsewhere a backslash escapes the next character. Quotes may sit
// inside a word, so --out="my camp.pdf" is one word.
func splitArgs(line string) ([]string, error) {
	var (
		words   []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("missing closing %c", quote)
	}
	if escaped {
		return nil, errors.New("line ends with a backslash")
	}
	if inWord {
		words = append(words, word.String())
	}

	return words, nil
}
