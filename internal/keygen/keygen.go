// Package keygen builds object keys from a key template.
//
// A template is a plain string with {{name}} placeholders. Four names are
// known: prefix, random, filename and ext. Unknown placeholders are left
// in the output as written.
//
//	keygen.Generate("cat.png", keygen.Options{
//	    Type:        keygen.TypeNone,
//	    KeyTemplate: "{{prefix}}/{{filename}}",
//	    Prefix:      "imgs",
//	}) // "imgs/cat.png"
package keygen

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTemplate is used when the configured template is blank.
const DefaultTemplate = "{{prefix}}/{{random}}.{{ext}}"

// TypeNone keeps the source file's extension.
const TypeNone = "none"

var placeholder = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Options controls a single key generation.
type Options struct {
	// Type is the target format. TypeNone derives ext from the file name,
	// anything else is used as ext verbatim.
	Type string

	// KeyTemplate is the format string. Blank means DefaultTemplate.
	KeyTemplate string

	// Prefix is substituted for {{prefix}}.
	Prefix string
}

// Generator produces keys with an injectable clock and random source.
// The zero value uses time.Now and math/rand/v2.
type Generator struct {
	Now  func() time.Time
	Rand func(n int) int
}

var std Generator

// Generate builds a key for fileName using the package default Generator.
func Generate(fileName string, opts Options) string {
	return std.Generate(fileName, opts)
}

// Generate builds a key for fileName from opts.
func (g Generator) Generate(fileName string, opts Options) string {
	tmpl := opts.KeyTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultTemplate
	}

	values := map[string]string{
		"prefix":   opts.Prefix,
		"random":   g.random(),
		"filename": fileName,
		"ext":      extension(fileName, opts.Type),
	}

	return placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-2]
		if v, ok := values[name]; ok {
			return v
		}
		return match
	})
}

// random returns "<ms since local midnight, base36>-<two base36 chars>".
// It disambiguates keys for humans; it does not guarantee uniqueness.
func (g Generator) random() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	intn := rand.IntN
	if g.Rand != nil {
		intn = g.Rand
	}

	t := now()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	elapsed := t.Sub(midnight).Milliseconds()

	frag := strconv.FormatInt(int64(intn(36*36)), 36)
	if len(frag) < 2 {
		frag = "0" + frag
	}

	return strconv.FormatInt(elapsed, 36) + "-" + frag
}

func extension(fileName, typ string) string {
	if typ != TypeNone {
		return typ
	}
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 {
		return ""
	}
	return fileName[i+1:]
}
