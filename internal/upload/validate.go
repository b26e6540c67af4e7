package upload

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"bingo-cards-backend/internal/codec"
)

// DefaultMaxBytes bounds an upload when no limit is configured.
const DefaultMaxBytes = 1 << 20

var (
	ErrEmpty         = errors.New("empty upload")
	ErrTooLarge      = errors.New("upload too large")
	ErrExtension     = errors.New("unsupported file extension")
	ErrMIME          = errors.New("unsupported content type")
	ErrUnsafeContent = errors.New("unsafe content")
	ErrStructure     = errors.New("invalid card structure")
)

var (
	cardNoRe = regexp.MustCompile(`^CardNo\.(\d+)$`)
	fieldRe  = regexp.MustCompile(`^\d+$`)

	unsafePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<\s*script`),
		regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
		regexp.MustCompile(`(?i)<\s*iframe`),
		regexp.MustCompile(`(?i)<\s*object`),
		regexp.MustCompile(`(?i)<\s*embed`),
		regexp.MustCompile(`(?i)javascript\s*:`),
		regexp.MustCompile(`(?i)data\s*:\s*text/html`),
	}

	// Browsers label unknown extensions inconsistently.
	allowedDeclared = map[string]bool{
		"":                         true,
		"text/plain":               true,
		"application/octet-stream": true,
	}
)

// File is an uploaded .bingoCards payload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Validator checks untrusted uploads before they reach codec.Parse.
type Validator struct {
	MaxBytes int
}

// NewValidator creates a Validator; a non-positive maxBytes uses DefaultMaxBytes.
func NewValidator(maxBytes int) *Validator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Validator{MaxBytes: maxBytes}
}

// Validate runs every check in order and returns the first failure.
func (v *Validator) Validate(f File) error {
	if len(f.Data) == 0 {
		return ErrEmpty
	}
	if len(f.Data) > v.MaxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(f.Data), v.MaxBytes)
	}
	if !strings.EqualFold(filepath.Ext(f.Name), codec.Extension) {
		return fmt.Errorf("%w: %q", ErrExtension, f.Name)
	}
	if err := checkMIME(f); err != nil {
		return err
	}

	content := string(f.Data)
	for _, re := range unsafePatterns {
		if re.MatchString(content) {
			return fmt.Errorf("%w: matches %s", ErrUnsafeContent, re.String())
		}
	}
	return CheckStructure(content)
}

func checkMIME(f File) error {
	declared := f.ContentType
	if declared != "" {
		mt, _, err := mime.ParseMediaType(declared)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMIME, declared)
		}
		declared = mt
	}
	if !allowedDeclared[declared] {
		return fmt.Errorf("%w: declared %q", ErrMIME, declared)
	}

	for m := mimetype.Detect(f.Data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return fmt.Errorf("%w: content is not plain text", ErrMIME)
}

// CheckStructure verifies every card segment has a unique CardNo token, exactly
// 27 cells and only numeric cells within [0,90].
func CheckStructure(content string) error {
	segments := strings.Split(content, codec.CardSeparator)
	if len(segments) > 0 && segments[0] == "" {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return fmt.Errorf("%w: no cards", ErrStructure)
	}

	seen := make(map[int]struct{}, len(segments))
	for i, seg := range segments {
		tokens := strings.Split(seg, codec.FieldSep)
		if len(tokens) != codec.TokensPerCard {
			return fmt.Errorf("%w: card %d has %d tokens, want %d", ErrStructure, i+1, len(tokens), codec.TokensPerCard)
		}
		m := cardNoRe.FindStringSubmatch(tokens[0])
		if m == nil {
			return fmt.Errorf("%w: card %d has bad header %q", ErrStructure, i+1, tokens[0])
		}
		number, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("%w: card %d has bad header %q", ErrStructure, i+1, tokens[0])
		}
		if _, dup := seen[number]; dup {
			return fmt.Errorf("%w: card number %d appears more than once", ErrStructure, number)
		}
		seen[number] = struct{}{}
		for j, tok := range tokens[1:] {
			if tok == "" {
				continue
			}
			if !fieldRe.MatchString(tok) {
				return fmt.Errorf("%w: card %d cell %d is not a number", ErrStructure, i+1, j)
			}
			n, err := strconv.Atoi(tok)
			if err != nil || n > 90 {
				return fmt.Errorf("%w: card %d cell %d out of range", ErrStructure, i+1, j)
			}
		}
	}
	return nil
}
