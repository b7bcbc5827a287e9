// Package shell turns a line of input into a pipeline of simple commands.
//
// Loosely follows the token recognition and simple command grammar in
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
package shell

/**
Steps covered by this package:

1. The shell breaks the input into tokens: words and operators; see Token
Recognition. Quoting is recorded per character so later expansion can tell
which characters were quoted.

2. The shell parses the input into simple commands (see Simple Commands)
joined by pipes, each with its own list of redirections.

The remaining steps (expansion, redirection and execution) happen in the
expand and core packages when the pipeline runs:

3. The shell performs expansions on each word: tilde prefix and parameter
expansion only.

4. The shell performs redirection and removes redirection operators and
their operands from the parameter list.

5. The shell executes a built-in or executable file and waits for the
command to complete and collects the exit status.
**/
