package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/constant"
	"go/format"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/scylladb/go-set/strset"
	"golang.org/x/tools/go/packages"
)

var funcMap = template.FuncMap{
	"join": strings.Join,
}

type GeneratorOptions struct {
	Args      []string
	BuildTags string
	Dir       string
	Output    string
	Type      string
}

type Generator struct {
	options GeneratorOptions
	pkgDefs map[*ast.Ident]types.Object
	pkgName string
	values  []Value
	err     error
}

type Value struct {
	Name         string
	OriginalName string
	Value        int64
}

func NewGenerator(options GeneratorOptions) *Generator {
	if options.Dir == "" {
		options.Dir = "."
	}

	if options.Output == "" {
		options.Output = options.Dir
	}

	return &Generator{options: options}
}

// Run loads the package in the configured directory and writes
// <type>_enum.go to the output directory. It returns the formatted source.
func (g *Generator) Run() ([]byte, error) {
	var tags []string

	if g.options.BuildTags != "" {
		tags = strings.Split(g.options.BuildTags, ",")
	}

	cfg := &packages.Config{
		Mode:       packages.LoadAllSyntax,
		Tests:      false,
		Dir:        g.options.Dir,
		BuildFlags: []string{fmt.Sprintf("-tags=%s", strings.Join(tags, " "))},
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, errors.Wrap(err, "loading package")
	}

	if len(pkgs) != 1 {
		return nil, errors.Errorf("%d packages found", len(pkgs))
	}

	if len(pkgs[0].Errors) > 0 {
		return nil, errors.Wrapf(pkgs[0].Errors[0], "loading %s", pkgs[0].PkgPath)
	}

	g.pkgName = pkgs[0].Name
	g.pkgDefs = pkgs[0].TypesInfo.Defs

	for _, file := range pkgs[0].Syntax {
		ast.Inspect(file, g.findType)
	}

	if g.err != nil {
		return nil, g.err
	}

	if len(g.values) == 0 {
		return nil, errors.Errorf("no constants of type %s found", g.options.Type)
	}

	data := struct {
		Args        []string
		PackageName string
		Type        string
		Values      []Value
	}{
		Args:        g.options.Args,
		PackageName: g.pkgName,
		Type:        g.options.Type,
		Values:      g.values,
	}

	var buf bytes.Buffer

	if err := _tmpl.Execute(&buf, data); err != nil {
		return buf.Bytes(), errors.Wrap(err, "executing template")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), errors.Wrap(err, "formatting generated code")
	}

	output := filepath.Join(g.options.Output, fmt.Sprintf("%s_enum.go", strings.ToLower(g.options.Type)))

	if err := os.WriteFile(output, src, 0o644); err != nil {
		return src, errors.Wrapf(err, "writing %s", output)
	}

	return src, nil
}

func (g *Generator) findType(node ast.Node) bool {
	decl, ok := node.(*ast.GenDecl)
	if !ok || decl.Tok != token.CONST {
		// Tags need to be const.
		return true
	}

	typ := ""

	for _, spec := range decl.Specs {
		vspec := spec.(*ast.ValueSpec)
		if vspec.Type != nil {
			ident, ok := vspec.Type.(*ast.Ident)
			if !ok {
				continue
			}

			typ = ident.Name
		}

		if g.options.Type != typ {
			continue
		}

		for _, name := range vspec.Names {
			if name.Name == "_" {
				continue
			}

			v, err := g.value(name, vspec.Comment)
			if err != nil {
				g.err = err
				return false
			}

			g.values = append(g.values, v)
		}
	}

	return false
}

func (g *Generator) value(name *ast.Ident, comment *ast.CommentGroup) (Value, error) {
	obj, ok := g.pkgDefs[name]
	if !ok {
		return Value{}, errors.Errorf("no value for constant %q", name.Name)
	}

	info, ok := obj.Type().Underlying().(*types.Basic)
	if !ok || info.Info()&types.IsInteger == 0 {
		return Value{}, errors.Errorf("%q must be an integer type", g.options.Type)
	}

	value := obj.(*types.Const).Val()
	if value.Kind() != constant.Int {
		return Value{}, errors.Errorf("%q constant is not an integer", name.Name)
	}

	i64, ok := constant.Int64Val(value)
	if !ok {
		return Value{}, errors.Errorf("%q does not fit in an int64", name.Name)
	}

	v := Value{
		OriginalName: name.Name,
		Value:        i64,
		Name:         defaultName(g.options.Type, name.Name),
	}

	if comment == nil || len(comment.List) != 1 {
		return v, nil
	}

	fields := strset.New(strings.Split(strings.TrimSpace(comment.Text()), ", ")...)

	var err error

	fields.Each(func(field string) bool {
		key, val, found := strings.Cut(field, "=")
		if !found || key != "name" {
			return true
		}

		if strings.HasPrefix(val, `"`) {
			val, err = strconv.Unquote(val)
			if err != nil {
				err = errors.Wrapf(err, "unquoting name of %s", name.Name)
				return false
			}
		}

		v.Name = val

		return false
	})

	return v, err
}

// defaultName turns KindExtended_Record into extended-record.
func defaultName(typ, name string) string {
	name = strings.TrimPrefix(name, typ)
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "_", "-")
}

var _tmpl = template.Must(template.New("").Funcs(funcMap).Parse(`// Code generated by "gen-tag {{ join .Args " " }}"; DO NOT EDIT.
package {{ .PackageName }}

import (
	"errors"
	"strconv"
)

func _() {
	// An "invalid array index" compiler error signifies that the constant
	// values have changed. Run the generator again.
	var x [1]struct{}
	{{- range .Values }}
	_ = x[{{ .OriginalName }}-{{ .Value }}]
	{{- end }}
}

var _{{ .Type }}_string_to_type = map[string]{{ .Type }}{
	{{- range .Values }}
	"{{ .Name }}": {{ .OriginalName }},
	{{- end }}
}

var _{{ .Type }}_type_to_string = map[{{ .Type }}]string{
	{{- range .Values }}
	{{ .OriginalName }}: "{{ .Name }}",
	{{- end }}
}

var ErrInvalid{{ .Type }} = errors.New("invalid {{ .Type }}")

func (i {{ .Type }}) String() string {
	if s, ok := _{{ .Type }}_type_to_string[i]; ok {
		return s
	}
	return "{{ .Type }}(" + strconv.FormatInt(int64(i), 10) + ")"
}

func Parse{{ .Type }}(s string) ({{ .Type }}, error) {
	if t, ok := _{{ .Type }}_string_to_type[s]; ok {
		return t, nil
	}
	return 0, ErrInvalid{{ .Type }}
}

func Is{{ .Type }}(s string) bool {
	_, ok := _{{ .Type }}_string_to_type[s]
	return ok
}

func {{ .Type }}List() []{{ .Type }} {
	return []{{ .Type }}{
		{{- range .Values }}
		{{ .OriginalName }},
		{{- end }}
	}
}
`))
