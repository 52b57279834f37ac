package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

//go:embed resources/language
var embedded embed.FS

const (
	dirPrefix   = "resource.language."
	stringsFile = "strings.po"
)

// SourceLanguage is the language every msgid is written in.
var SourceLanguage = language.BritishEnglish

// ErrMissingString is returned by Lookup for a msgid the source catalog lacks.
var ErrMissingString = errors.New("string missing from source catalog")

var entryPattern = regexp.MustCompile(`(?m)^msgctxt "#(\d+)"\r?\nmsgid "(.*)"\r?\nmsgstr "(.*)"\r?$`)

type entry struct {
	id     string
	msgid  string
	msgstr string
}

// Catalog resolves English msgids to the configured language. It is built
// on first use and safe for concurrent readers afterwards.
type Catalog struct {
	fsys      fs.FS
	requested string
	logger    *zap.Logger

	once    sync.Once
	initErr error
	known   map[string]struct{}
	tag     language.Tag
	printer *message.Printer
}

// NewCatalog returns a catalog for lang (for example "de_de"). When dir is
// empty the embedded language files are used, otherwise dir must contain
// resource.language.<lang>/strings.po folders.
func NewCatalog(dir, lang string, logger *zap.Logger) *Catalog {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(embedded, "resources/language")
		if err != nil {
			panic(err)
		}
		fsys = sub
	}
	return newCatalog(fsys, lang, logger)
}

func newCatalog(fsys fs.FS, lang string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{fsys: fsys, requested: lang, logger: logger}
}

// Language reports the language the catalog settled on.
func (c *Catalog) Language() language.Tag {
	c.once.Do(c.load)
	return c.tag
}

// Err reports a failure to build the catalog, if any.
func (c *Catalog) Err() error {
	c.once.Do(c.load)
	return c.initErr
}

// Lookup returns the localised form of msgid or ErrMissingString.
func (c *Catalog) Lookup(msgid string) (string, error) {
	c.once.Do(c.load)
	if _, ok := c.known[msgid]; !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingString, msgid)
	}
	return c.printer.Sprintf(msgid), nil
}

// Gettext is Lookup with the msgid itself as fallback.
func (c *Catalog) Gettext(msgid string) string {
	s, err := c.Lookup(msgid)
	if err != nil {
		c.logger.Debug("Untranslated string", zap.String("msgid", msgid))
		return msgid
	}
	return s
}

func (c *Catalog) load() {
	c.tag = SourceLanguage
	c.known = map[string]struct{}{}
	c.printer = message.NewPrinter(SourceLanguage)

	available, dirs, err := availableLanguages(c.fsys)
	if err != nil {
		c.initErr = err
		c.logger.Error("Failed to list language files", zap.Error(err))
		return
	}

	sourceDir, ok := dirs[SourceLanguage.String()]
	if !ok {
		c.initErr = fmt.Errorf("no %s language file", SourceLanguage)
		c.logger.Error("Source language file missing", zap.Error(c.initErr))
		return
	}
	source, err := readEntries(c.fsys, sourceDir)
	if err != nil {
		c.initErr = err
		c.logger.Error("Failed to read source language file", zap.Error(err))
		return
	}

	requested := parseTag(c.requested)
	_, idx, confidence := language.NewMatcher(available).Match(requested)
	target := available[idx]
	if confidence == language.No {
		target = SourceLanguage
	}

	b := catalog.NewBuilder(catalog.Fallback(SourceLanguage))
	byID := make(map[string]string, len(source))
	for _, e := range source {
		c.known[e.msgid] = struct{}{}
		byID[e.id] = e.msgid
		if err := b.SetString(SourceLanguage, e.msgid, literal(e.msgid)); err != nil {
			c.logger.Warn("Skipping string", zap.String("msgid", e.msgid), zap.Error(err))
		}
	}

	if target.String() != SourceLanguage.String() {
		translated, err := readEntries(c.fsys, dirs[target.String()])
		if err != nil {
			c.logger.Warn("Falling back to source language",
				zap.String("language", target.String()), zap.Error(err))
			target = SourceLanguage
		}
		for _, e := range translated {
			msgid, ok := byID[e.id]
			if !ok || e.msgstr == "" {
				continue
			}
			if err := b.SetString(target, msgid, literal(e.msgstr)); err != nil {
				c.logger.Warn("Skipping translation", zap.String("id", e.id), zap.Error(err))
			}
		}
	}

	c.tag = target
	c.printer = message.NewPrinter(target, message.Catalog(b))
	c.logger.Info("Language catalog loaded",
		zap.String("requested", c.requested),
		zap.String("language", target.String()),
		zap.Int("strings", len(c.known)),
	)
}

// availableLanguages returns the matchable tags and their folder names keyed
// by canonical tag string.
func availableLanguages(fsys fs.FS) ([]language.Tag, map[string]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, nil, err
	}

	// source language first so the matcher falls back to it
	tags := []language.Tag{SourceLanguage}
	dirs := map[string]string{}
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), dirPrefix) {
			continue
		}
		tag := parseTag(strings.TrimPrefix(e.Name(), dirPrefix))
		if tag == language.Und {
			continue
		}
		dirs[tag.String()] = e.Name()
		if tag.String() != SourceLanguage.String() {
			tags = append(tags, tag)
		}
	}
	return tags, dirs, nil
}

func readEntries(fsys fs.FS, dir string) ([]entry, error) {
	data, err := fs.ReadFile(fsys, path.Join(dir, stringsFile))
	if err != nil {
		return nil, err
	}
	matches := entryPattern.FindAllStringSubmatch(string(data), -1)
	out := make([]entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entry{id: m[1], msgid: unquote(m[2]), msgstr: unquote(m[3])})
	}
	return out, nil
}

// literal escapes s so the printer renders it verbatim instead of as a
// format string.
func literal(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

func unquote(s string) string {
	return strings.NewReplacer(`\"`, `"`, `\n`, "\n", `\\`, `\`).Replace(s)
}

// parseTag accepts Kodi style folder suffixes like "en_gb" as well as BCP 47.
func parseTag(s string) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if err != nil {
		return language.Und
	}
	return tag
}
