package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// importHosts reads one hostname per line from the named file, or from
// standard input when the name is "-". Leading and trailing whitespace
// is trimmed and blank lines are skipped.
func importHosts(name string) ([]string, error) {
	var in io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	return scanHosts(in)
}

func scanHosts(in io.Reader) ([]string, error) {
	var hosts []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		host := strings.TrimSpace(scanner.Text())
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading host list: %w", err)
	}
	return hosts, nil
}
