package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/usernotify/pkg/sanitizer"
)

// DevSender writes messages to a directory instead of sending them. Each
// message becomes an .html file, an optional .txt file and a .json file with
// the envelope data.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a DevSender writing to dir, which is created on first
// send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

type emailMetadata struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

// SendEmail implements EmailSender.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}
	base := filepath.Join(d.dir, now.Format("2006_01_02_150405.000000")+"_"+sanitizeFilename(identifier))

	meta, err := json.MarshalIndent(emailMetadata{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		Tag:       params.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal metadata: %v", ErrFailedToSendEmail, err)
	}

	files := map[string][]byte{
		base + ".html": []byte(params.BodyHTML),
		base + ".json": meta,
	}
	if params.BodyText != "" {
		files[base+".txt"] = []byte(params.BodyText)
	}
	for name, data := range files {
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("%w: write %s: %v", ErrFailedToSendEmail, filepath.Base(name), err)
		}
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = sanitizer.Apply(strings.ToLower(s),
		sanitizer.Trim,
		func(v string) string { return strings.ReplaceAll(v, " ", "_") },
		func(v string) string { return unsafeFilenameChars.ReplaceAllString(v, "") },
		func(v string) string { return sanitizer.MaxLength(v, 100) },
	)
	if s == "" {
		return "email"
	}
	return s
}
