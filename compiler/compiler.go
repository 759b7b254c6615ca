package compiler

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/chime"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Compiler turns a cue into source code that plays it on another platform.
type Compiler struct {
	Template *template.Template
	Target   string
}

//go:embed templates/js/* templates/c/*
var templateFS embed.FS

// Targets lists the targets with built-in templates.
var Targets = []string{"js", "c"}

// New returns a new compiler using the built-in templates of the target: "js"
// for a Web Audio module, "c" for a header with the note table.
func New(target string) (*Compiler, error) {
	if !isTarget(target) {
		return nil, fmt.Errorf("compiler.New failed, because only %v targets are supported (target was %v)", strings.Join(Targets, ", "), target)
	}
	tmpl, err := template.New("base").Funcs(funcMap()).ParseFS(templateFS, "templates/"+target+"/*.*")
	if err != nil {
		return nil, fmt.Errorf(`could not create templates: %v`, err)
	}
	return &Compiler{Template: tmpl, Target: target}, nil
}

// NewFromTemplates uses all the templates found in templateDirectory instead
// of the built-in ones.
func NewFromTemplates(templateDirectory string) (*Compiler, error) {
	globPtrn := filepath.Join(templateDirectory, "*.*")
	tmpl, err := template.New("base").Funcs(funcMap()).ParseGlob(globPtrn)
	if err != nil {
		return nil, fmt.Errorf(`could not create template based on directory "%v": %v`, templateDirectory, err)
	}
	return &Compiler{Template: tmpl, Target: filepath.Base(templateDirectory)}, nil
}

// Cue executes every template with the cue. The result is keyed by the file
// extension of the template, e.g. ".js".
func (com *Compiler) Cue(cue chime.Cue) (map[string]string, error) {
	if err := cue.Validate(); err != nil {
		return nil, fmt.Errorf(`could not compile cue: %w`, err)
	}
	data := struct {
		Cue    chime.Cue
		Name   string
		Length float64
	}{cue, Identifier(cue.Name), cue.Length()}
	retmap := map[string]string{}
	for _, t := range com.Template.Templates() {
		ext := filepath.Ext(t.Name())
		if ext == "" || t.Name() == "base" {
			continue
		}
		var buf bytes.Buffer
		if err := t.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf(`could not execute template "%v": %v`, t.Name(), err)
		}
		retmap[ext] = buf.String()
	}
	if len(retmap) == 0 {
		return nil, fmt.Errorf("no templates with a file extension found for target %v", com.Target)
	}
	return retmap, nil
}

// Identifier converts a cue name like "happy chime" or "level-up" into
// "HappyChime" and "LevelUp". Names starting with a digit get a "Cue" prefix.
func Identifier(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	caser := cases.Title(language.English)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	ret := b.String()
	if ret == "" {
		return "Cue"
	}
	if unicode.IsDigit([]rune(ret)[0]) {
		return "Cue" + ret
	}
	return ret
}

func funcMap() template.FuncMap {
	m := sprig.TxtFuncMap()
	m["identifier"] = Identifier
	m["key"] = chime.MIDIKey
	return m
}

func isTarget(target string) bool {
	for _, t := range Targets {
		if t == target {
			return true
		}
	}
	return false
}
