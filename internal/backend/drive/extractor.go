package drive

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultFileID points at the placeholder image served whenever a request
// cannot be resolved to a usable Drive file.
const DefaultFileID = "1Jab6uk5DsW8PD6FjH_8BTyx9NxFUYfZD"

// DefaultImageURL is the share URL of the placeholder image.
const DefaultImageURL = "https://drive.google.com/file/d/" + DefaultFileID + "/view"

const idClass = `[-A-Za-z0-9_]{25,}`

var (
	// ordered by precedence, the first matching pattern wins
	fileIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/file/d/(` + idClass + `)`),
		regexp.MustCompile(`/d/(` + idClass + `)`),
		regexp.MustCompile(`[?&]id=(` + idClass + `)`),
	}
	fileIDPattern = regexp.MustCompile(`^` + idClass + `$`)

	driveHosts = map[string]bool{
		"drive.google.com":             true,
		"docs.google.com":              true,
		"drive.usercontent.google.com": true,
	}
)

// ExtractFileID returns the Drive file identifier embedded in rawURL.
// It never fails: URLs without a recognizable identifier yield DefaultFileID.
func ExtractFileID(rawURL string) string {
	if !IsDriveURL(rawURL) {
		return DefaultFileID
	}
	for _, pattern := range fileIDPatterns {
		if match := pattern.FindStringSubmatch(rawURL); len(match) == 2 {
			return match[1]
		}
	}
	return DefaultFileID
}

// IsDriveURL reports whether rawURL is an http(s) URL on a Google Drive host.
// Scheme-less input such as "drive.google.com/file/d/<id>/view" is read as https.
func IsDriveURL(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		if u, err = url.Parse("https://" + strings.TrimPrefix(rawURL, "//")); err != nil {
			return false
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return driveHosts[strings.ToLower(u.Hostname())]
}

// IsValidFileID reports whether id as a whole looks like a Drive file identifier.
func IsValidFileID(id string) bool {
	return fileIDPattern.MatchString(id)
}
