package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/stigoleg/idle-nudge/internal/config"
)

// gen-docs writes shell completions and a man page from the idlenudge
// flag set, so both stay in step with --help.

const (
	appName        = "idlenudge"
	appDescription = "Keeps a desktop session from going idle by nudging the mouse cursor one pixel when no input is seen."
)

type flagDef struct {
	Short string
	Long  string
	Arg   string
	Desc  string
}

func main() {
	flags := collectFlags(config.Flags())

	if err := writeCompletions(".", flags); err != nil {
		logrus.Fatalf("completions: %v", err)
	}
	if err := writeMan(".", flags); err != nil {
		logrus.Fatalf("man page: %v", err)
	}
}

// collectFlags converts a flag set into flag definitions, adding --help.
func collectFlags(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		d := flagDef{Long: "--" + f.Name, Desc: f.Usage}
		if f.Shorthand != "" {
			d.Short = "-" + f.Shorthand
		}
		if f.Value.Type() != "bool" {
			d.Arg = "<" + f.Value.Type() + ">"
		}
		defs = append(defs, d)
	})
	return append(defs, flagDef{Short: "-h", Long: "--help", Desc: "Show help message"})
}

func writeCompletions(root string, flags []flagDef) error {
	base := filepath.Join(root, "docs", "completions")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return errors.Wrap(err, "create completions dir")
	}

	// Bash
	var bash strings.Builder
	bash.WriteString("_" + appName + "() {\n")
	bash.WriteString("  local cur prev opts\n")
	bash.WriteString("  COMPREPLY=()\n")
	bash.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	var opts []string
	for _, f := range flags {
		if f.Short != "" {
			opts = append(opts, f.Short)
		}
		if f.Long != "" {
			opts = append(opts, f.Long)
		}
	}
	bash.WriteString("  opts=\"" + strings.Join(opts, " ") + "\"\n")
	bash.WriteString("  if [[ ${cur} == -* ]] ; then\n")
	bash.WriteString("    COMPREPLY=( $(compgen -W \"${opts}\" -- ${cur}) )\n")
	bash.WriteString("    return 0\n")
	bash.WriteString("  fi\n")
	bash.WriteString("}\n")
	bash.WriteString("complete -F _" + appName + " " + appName + "\n")
	if err := os.WriteFile(filepath.Join(base, appName+".bash"), []byte(bash.String()), 0o644); err != nil {
		return errors.Wrap(err, "write bash completion")
	}

	// Zsh
	var zsh strings.Builder
	zsh.WriteString("#compdef " + appName + "\n")
	zsh.WriteString("_arguments ")
	var parts []string
	for _, f := range flags {
		parts = append(parts, fmt.Sprintf("'%s[%s]%s'", zFlagName(f), zEscape(f.Desc), zArgSuffix(f.Arg)))
	}
	zsh.WriteString(strings.Join(parts, " ") + "\n")
	if err := os.WriteFile(filepath.Join(base, "_"+appName), []byte(zsh.String()), 0o644); err != nil {
		return errors.Wrap(err, "write zsh completion")
	}

	// Fish
	var fish strings.Builder
	fish.WriteString("complete -c " + appName + " -f\n")
	for _, f := range flags {
		fish.WriteString(fishFlagLine(f))
	}
	if err := os.WriteFile(filepath.Join(base, appName+".fish"), []byte(fish.String()), 0o644); err != nil {
		return errors.Wrap(err, "write fish completion")
	}

	return nil
}

func zFlagName(f flagDef) string {
	if f.Arg != "" {
		// zsh requires = for options with arguments
		if f.Long != "" {
			return f.Long + "="
		}
		return f.Short + "="
	}
	if f.Long != "" {
		return f.Long
	}
	return f.Short
}

func zArgSuffix(arg string) string {
	if arg == "" {
		return ""
	}
	return ":value:" + strings.Trim(arg, "<>")
}

// zEscape keeps descriptions from closing the single-quoted option or the
// bracketed description.
func zEscape(s string) string {
	r := strings.NewReplacer("'", "", "[", "(", "]", ")")
	return r.Replace(s)
}

func fishFlagLine(f flagDef) string {
	var b strings.Builder
	b.WriteString("complete -c ")
	b.WriteString(appName)
	if f.Short != "" {
		b.WriteString(" -s ")
		b.WriteString(strings.TrimPrefix(f.Short, "-"))
	}
	if f.Long != "" {
		b.WriteString(" -l ")
		b.WriteString(strings.TrimPrefix(f.Long, "--"))
	}
	if f.Arg != "" {
		b.WriteString(" -r")
	} else {
		b.WriteString(" -f")
	}
	b.WriteString(" -d \"")
	b.WriteString(escapeDoubleQuotes(f.Desc))
	b.WriteString("\"\n")
	return b.String()
}

func escapeDoubleQuotes(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

func roffEscape(s string) string {
	return strings.ReplaceAll(s, "-", "\\-")
}

func writeMan(root string, flags []flagDef) error {
	dir := filepath.Join(root, "man")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create man dir")
	}

	var b strings.Builder
	b.WriteString(".TH \"" + strings.ToUpper(appName) + "\" \"1\" \"\" \"idle-nudge\" \"User Commands\"\n")
	b.WriteString(".SH NAME\n" + appName + " \\- " + appDescription + "\n")
	b.WriteString(".SH SYNOPSIS\n.B " + appName + "\n")

	var synopsis []string
	for _, f := range flags {
		names := roffEscape(f.Long)
		if f.Short != "" {
			names = roffEscape(f.Short) + "|" + names
		}
		if f.Arg != "" {
			names += " " + f.Arg
		}
		synopsis = append(synopsis, "["+names+"]")
	}
	b.WriteString(strings.Join(synopsis, " ") + "\n")

	b.WriteString(".SH DESCRIPTION\n" + appDescription + "\n")
	b.WriteString(".SH OPTIONS\n")
	for _, f := range flags {
		names := f.Short
		if f.Long != "" {
			if names != "" {
				names += ", "
			}
			names += f.Long
		}
		if f.Arg != "" {
			names += " " + f.Arg
		}
		b.WriteString(".TP\n\\fB" + roffEscape(names) + "\\fR\n" + f.Desc + "\n")
	}
	b.WriteString(".SH ENVIRONMENT\n")
	for _, env := range []string{config.EnvIdle, config.EnvPoll, config.EnvBackend, config.EnvLogFile, config.EnvLogLevel} {
		b.WriteString(".TP\n\\fB" + env + "\\fR\nOverridden by the matching flag.\n")
	}
	b.WriteString(".SH EXAMPLES\n")
	b.WriteString(".TP\n\\fB" + appName + "\\fR\nStart interactive TUI.\n")
	b.WriteString(".TP\n\\fB" + appName + " \\-d 2h30m\\fR\nNudge for 2 hours 30 minutes.\n")
	b.WriteString(".TP\n\\fB" + appName + " \\-c 22:00 \\-\\-headless\\fR\nNudge until 10:00 PM without the TUI.\n")
	b.WriteString(".SH SEE ALSO\nProject homepage: https://github.com/stigoleg/idle-nudge\n")
	return errors.Wrap(os.WriteFile(filepath.Join(dir, appName+".1"), []byte(b.String()), 0o644), "write man page")
}
