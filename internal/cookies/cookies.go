package cookies

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DefaultPaths are tried, in order, when Load is given no path.
var DefaultPaths = []string{"./cookies.json", "./cookies.txt"}

// ErrNoCookies is returned by Load when no path is given and none of the
// DefaultPaths can be read.
var ErrNoCookies = errors.New("no cookies file found")

const httpOnlyPrefix = "#HttpOnly_"

// Cookie is one browser cookie as exported by a cookie manager extension.
type Cookie struct {
	// Host is the URL (or bare domain) the cookie belongs to, e.g.
	// "https://.bandcamp.com/".
	Host    string `json:"Host raw"`
	Name    string `json:"Name raw"`
	Content string `json:"Content raw"`
}

// Load reads cookies from path. Files ending in .json are parsed as a JSON
// export, anything else as a Netscape cookies.txt.
//
// With an empty path, each of DefaultPaths is tried in turn.
func Load(path string) ([]Cookie, error) {
	if path == "" {
		for _, p := range DefaultPaths {
			if c, err := Load(p); err == nil {
				return c, nil
			}
		}
		return nil, ErrNoCookies
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read cookies file %q: %w", path, err)
	}

	if strings.HasSuffix(path, ".json") {
		return ParseJSON(data)
	}
	return ParseText(string(data)), nil
}

// ParseJSON parses a JSON array of {"Host raw", "Name raw", "Content raw"}
// objects.
func ParseJSON(data []byte) ([]Cookie, error) {
	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse cookies json: %w", err)
	}
	return cookies, nil
}

// ParseText parses a Netscape cookies.txt. Lines must have seven
// tab-separated columns; comments and malformed lines are skipped.
func ParseText(content string) []Cookie {
	var cookies []Cookie

	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		line = strings.TrimPrefix(line, httpOnlyPrefix)
		if strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != 7 {
			continue
		}
		cookies = append(cookies, Cookie{
			Host:    "https://" + cols[0],
			Name:    cols[5],
			Content: cols[6],
		})
	}

	return cookies
}

// Jar builds a cookie jar holding cookies. Each cookie is scoped to its
// host's domain and all subdomains.
func Jar(cookies []Cookie) (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	for _, c := range cookies {
		u, err := hostURL(c.Host)
		if err != nil {
			return nil, fmt.Errorf("cookie %q: %w", c.Name, err)
		}
		jar.SetCookies(u, []*http.Cookie{{
			Name:   c.Name,
			Value:  c.Content,
			Domain: u.Hostname(),
			Path:   "/",
		}})
	}

	return jar, nil
}

func hostURL(host string) (*url.URL, error) {
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	u.Host = strings.TrimPrefix(u.Host, ".")
	if u.Host == "" {
		return nil, fmt.Errorf("no host in %q", host)
	}
	return u, nil
}
