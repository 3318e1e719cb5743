package bookconv

import (
	"slices"
	"sort"
	"strings"
)

// sandboxFlag is pandoc's isolation switch: no file reads or network access
// beyond the named input. It is always argv[0] of every pandoc invocation.
const sandboxFlag = "--sandbox"

// metadataField binds a typed ConversionOptions field to its allowlist name.
type metadataField struct {
	name string
	get  func(ConversionOptions) string
}

// typedFields is in declaration order; argument order follows it.
var typedFields = []metadataField{
	{name: "title", get: func(o ConversionOptions) string { return o.Title }},
	{name: "author", get: func(o ConversionOptions) string { return o.Author }},
	{name: "date", get: func(o ConversionOptions) string { return o.Date }},
	{name: "language", get: func(o ConversionOptions) string { return o.Language }},
	{name: "publisher", get: func(o ConversionOptions) string { return o.Publisher }},
}

// Typed fields each format forwards. The free-form map is not restricted by
// this list, only by the allowlist.
var (
	epubFields = []string{"title", "author", "date", "language", "publisher"}
	pdfFields  = []string{"title", "author", "date"}
)

// metadataArgKey maps an allowlisted field name to pandoc's variable name.
func metadataArgKey(field string) string {
	if field == "language" {
		return "lang"
	}
	return field
}

// buildArgs assembles the pandoc argument vector:
//
//	--sandbox <input> -o <output> <fixed...> [--metadata key=value]...
//
// Typed fields come first in declaration order, then Metadata entries in
// sorted key order. Each key=value is one element; nothing is ever joined
// into a command string.
func (c *Converter) buildArgs(input, output string, fixed []string, opts ConversionOptions, fields []string) []string {
	args := make([]string, 0, 4+len(fixed)+2*(len(fields)+len(opts.Metadata)))
	args = append(args, sandboxFlag, pathArg(input), "-o", pathArg(output))
	args = append(args, fixed...)

	for _, f := range typedFields {
		if !slices.Contains(fields, f.name) {
			continue
		}
		v := f.get(opts)
		if v == "" {
			continue
		}
		args = c.appendMetadata(args, f.name, v)
	}

	keys := make([]string, 0, len(opts.Metadata))
	for k := range opts.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = c.appendMetadata(args, k, opts.Metadata[k])
	}

	return args
}

func (c *Converter) appendMetadata(args []string, key, value string) []string {
	v, ok := c.Sanitize(key, value).Value()
	if !ok {
		return args
	}
	return append(args, "--metadata", metadataArgKey(key)+"="+v)
}

// pathArg keeps a path from being read as an option by the tool.
func pathArg(p string) string {
	if strings.HasPrefix(p, "-") {
		return "./" + p
	}
	return p
}
