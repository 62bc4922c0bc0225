package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadProxies reads the optional proxy map file. Each line pairs a URL scheme
// with a proxy URL, separated by ": ". A missing file yields an empty map and
// no error; requests then go out directly.
func LoadProxies(path string) (map[string]string, error) {
	proxies := map[string]string{}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return proxies, nil
		}
		return nil, fmt.Errorf("open proxy file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, found := strings.Cut(line, ": ")
		if !found {
			return nil, fmt.Errorf("malformed proxy line %q", line)
		}
		proxies[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read proxy file: %w", err)
	}

	return proxies, nil
}
