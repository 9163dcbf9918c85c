// Package validation holds the struct validator and the text check used on
// user-entered descriptions and names.
package validation

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	once     sync.Once
	validate *validator.Validate
	policy   *bluemonday.Policy
)

func setup() {
	validate = validator.New()
	policy = bluemonday.StrictPolicy()
}

// Struct validates v against its `validate` tags and flattens the failures
// into a single error listing field=tag pairs.
func Struct(v any) error {
	once.Do(setup)
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s=%s", fe.Namespace(), fe.Tag()))
	}
	sort.Strings(parts)
	return fmt.Errorf("invalid fields: %s", strings.Join(parts, ", "))
}

// ErrMarkup is returned for text that carries HTML tags or comments.
var ErrMarkup = errors.New("text contains markup")

// CleanText turns whitespace runes into spaces, drops other unprintable runes
// and trims the result. Everything else is kept as typed; text the strict
// HTML policy would alter is rejected with ErrMarkup.
func CleanText(s string) (string, error) {
	once.Do(setup)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == ' ' {
			return r
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		return -1
	}, s)
	if html.UnescapeString(policy.Sanitize(cleaned)) != html.UnescapeString(cleaned) {
		return "", ErrMarkup
	}
	return strings.TrimSpace(cleaned), nil
}
