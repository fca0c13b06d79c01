package ruleimport

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/intersect/anzard/pkg/survey"
)

// catalogFile is the YAML layout of a survey catalog:
//
//	id: 1
//	name: ANZARD
//	sections:
//	  - name: Cycle
//	    questions:
//	      - {code: CYC_DATE, type: Date}
//	      - {code: PR_CLIN, type: Choice, options: [y, n, u]}
type catalogFile struct {
	ID       int64         `yaml:"id"`
	Name     string        `yaml:"name"`
	Sections []sectionFile `yaml:"sections"`
}

type sectionFile struct {
	Name      string         `yaml:"name"`
	Questions []questionFile `yaml:"questions"`
}

type questionFile struct {
	ID      int64    `yaml:"id"`
	Code    string   `yaml:"code"`
	Type    string   `yaml:"type"`
	Options []string `yaml:"options"`
}

// ReadCatalog decodes a YAML survey catalog. Sections and questions are
// ordered as listed. Question ids default to their position in the file,
// counting from 1 across sections.
func ReadCatalog(r io.Reader) (*survey.Survey, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCatalog)
	}

	s := survey.New(f.ID, f.Name)
	var errs []error
	var n int64
	for si, sec := range f.Sections {
		for qi, qf := range sec.Questions {
			n++
			typ, err := survey.ParseQuestionType(qf.Type)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", qf.Code, err))
				continue
			}
			id := qf.ID
			if id == 0 {
				id = n
			}
			q := &survey.Question{
				ID:           id,
				Code:         qf.Code,
				Type:         typ,
				Section:      sec.Name,
				SectionOrder: si,
				Order:        qi,
				Options:      qf.Options,
			}
			if err := s.AddQuestion(q); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidCatalog}, errs...)...)
	}
	return s, nil
}
