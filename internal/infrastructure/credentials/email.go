package credentials

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ResolveEmail returns the address used for Crossref polite authentication.
// A username from the command line takes precedence and is combined with the
// configured mail domain without touching the file. Otherwise the address is
// read from path; if the file is missing the user is prompted once and the
// answer persisted for future runs.
func ResolveEmail(path, username, domain string, in io.Reader, out io.Writer) (string, error) {
	if username != "" {
		return username + "@" + domain, nil
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		return strings.TrimSpace(string(raw)), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("read email file: %w", err)
	}

	fmt.Fprint(out, "Email address (for CrossRef polite authentication): ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if scanErr := scanner.Err(); scanErr != nil {
			return "", fmt.Errorf("read email from input: %w", scanErr)
		}
		return "", fmt.Errorf("no email provided")
	}
	email := strings.TrimSpace(scanner.Text())

	if err := os.WriteFile(path, []byte(email), 0o644); err != nil {
		return "", fmt.Errorf("persist email: %w", err)
	}

	return email, nil
}
