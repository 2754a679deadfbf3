// Package prompts builds the natural-language generation prompt sent to the
// AI provider. Templates are embedded so the binary is self-contained.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"sync"
	"text/template"

	"github.com/pavelanni/testprep/internal/model"
)

//go:embed templates/*.txt
var templateFS embed.FS

// SystemInstruction is the fixed system message sent with every generation
// request.
const SystemInstruction = "You are an expert educational content creator. " +
	"Generate accurate, well-structured MCQs. Return ONLY valid JSON."

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[model.Domain]*template.Template
)

// load parses the embedded templates. It uses sync.Once so parsing happens
// only on first use.
func load() error {
	loadOnce.Do(func() {
		files := map[model.Domain]string{
			model.DomainSchool:      "templates/school.txt",
			model.DomainCollege:     "templates/college.txt",
			model.DomainCompetitive: "templates/competitive.txt",
		}
		templates = make(map[model.Domain]*template.Template)
		for domain, file := range files {
			content, err := templateFS.ReadFile(file)
			if err != nil {
				loadErr = errors.New("failed to read prompt template " + file + ": " + err.Error())
				return
			}
			tmpl, err := template.New(string(domain)).Parse(string(content))
			if err != nil {
				loadErr = errors.New("failed to parse prompt template " + file + ": " + err.Error())
				return
			}
			templates[domain] = tmpl
		}
	})
	return loadErr
}

// Build renders the generation prompt for a config that has already passed
// validation.
func Build(cfg model.TestConfig) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	tmpl, ok := templates[cfg.Domain]
	if !ok {
		return "", errors.New("no prompt template for domain " + string(cfg.Domain))
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return "", errors.New("render prompt for domain " + string(cfg.Domain) + ": " + err.Error())
	}
	return buf.String(), nil
}
