package core

import (
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const (
	EnvUser = "USER"
	EnvHome = "HOME"

	DefaultPrompt = `\u@\h:\w\$ `
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7][0-7]?[0-7]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\a`, "\a", // alert
		`\e`, "\x1b", // escape
	)

	promptUserColor = color.New(color.FgGreen, color.Bold)
	promptDirColor  = color.New(color.FgBlue, color.Bold)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseUint(arg[2:], 8, 8)
		if err != nil {
			return arg
		}
		return string([]byte{byte(out)})
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseUint(arg[2:], 16, 8)
		if err != nil {
			return arg
		}
		return string([]byte{byte(out)})
	})
	return s
}

// promptInfo holds the values prompt escapes expand to.
type promptInfo struct {
	User string
	Host string
	Dir  string
	Home string
	Root bool
}

// Dir with the home directory abbreviated to "~".
func (p *promptInfo) shortDir() string {
	switch {
	case p.Home == "" || p.Home == "/":
		return p.Dir
	case p.Dir == p.Home:
		return "~"
	case strings.HasPrefix(p.Dir, p.Home+"/"):
		return "~" + strings.TrimPrefix(p.Dir, p.Home)
	}
	return p.Dir
}

func (p *promptInfo) sigil() string {
	if p.Root {
		return "#"
	}
	return "$"
}

// expand replaces \u, \h, \w and \$ then interprets the remaining
// backslash escapes.
func (p *promptInfo) expand(format string) string {
	prompt := strings.ReplaceAll(format, `\u`, p.User)
	prompt = strings.ReplaceAll(prompt, `\h`, p.Host)
	prompt = strings.ReplaceAll(prompt, `\w`, p.shortDir())
	prompt = strings.ReplaceAll(prompt, `\$`, p.sigil())
	return unescape(prompt)
}

// colored renders DefaultPrompt with colors, they're dropped when color
// output is disabled.
func (p *promptInfo) colored() string {
	return promptUserColor.Sprint(p.User+"@"+p.Host) + ":" + promptDirColor.Sprint(p.shortDir()) + p.sigil() + " "
}

func (s *Session) promptInfo() *promptInfo {
	info := &promptInfo{
		User: s.env.Getenv(EnvUser),
		Home: s.env.Getenv(EnvHome),
		Root: os.Geteuid() == 0,
	}
	if info.User == "" {
		if u, err := user.Current(); err == nil {
			info.User = u.Username
		}
	}
	if host, err := os.Hostname(); err == nil {
		// Only the first component like \h in bash.
		info.Host = strings.SplitN(host, ".", 2)[0]
	}
	if wd, err := os.Getwd(); err == nil {
		info.Dir = wd
	}
	if info.Home != "" {
		info.Home = filepath.Clean(info.Home)
	}
	return info
}

// Prompt renders the configured prompt, or the colored default if none is
// configured.
func (s *Session) Prompt() string {
	info := s.promptInfo()
	if s.config.Prompt == "" {
		return info.colored()
	}
	return info.expand(s.config.Prompt)
}
