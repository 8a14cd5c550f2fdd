package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/forgebee/forgebee/internal/repair"
)

// DesignSpecification is the architecture produced by the design stage. The
// json tags match the provider wire contract; every later stage is prompted
// from this structure.
type DesignSpecification struct {
	DatabaseSchema  DatabaseSchema `json:"database_schema"`
	Endpoints       []Endpoint     `json:"api_endpoints"`
	ValidationRules []string       `json:"validation_rules,omitempty"`
	BusinessLogic   []string       `json:"business_logic,omitempty"`
}

type DatabaseSchema struct {
	Tables []Table `json:"tables"`
}

type Table struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Fields        []Field        `json:"fields,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

type Field struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Constraints []string `json:"constraints,omitempty"`
}

type Relationship struct {
	Type        string `json:"type"`
	TargetTable string `json:"target_table"`
	Description string `json:"description,omitempty"`
}

type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// Validate rejects specifications that cannot drive the later stages.
func (s *DesignSpecification) Validate() error {
	if len(s.DatabaseSchema.Tables) == 0 {
		return fmt.Errorf("design specification has no tables")
	}
	for i, t := range s.DatabaseSchema.Tables {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("table %d has no name", i)
		}
	}
	return nil
}

// Normalize fills the optional sections. Missing endpoints get standard
// RESTful CRUD routes per table; missing rule lists get conservative
// defaults, so downstream prompts always have material to work from.
func (s *DesignSpecification) Normalize() {
	if len(s.Endpoints) == 0 {
		for _, t := range s.DatabaseSchema.Tables {
			base := "/api/v1/" + strings.ToLower(t.Name)
			s.Endpoints = append(s.Endpoints,
				Endpoint{Method: "GET", Path: base, Description: "List " + t.Name},
				Endpoint{Method: "POST", Path: base, Description: "Create " + t.Name},
				Endpoint{Method: "GET", Path: base + "/{id}", Description: "Get one " + t.Name},
				Endpoint{Method: "PUT", Path: base + "/{id}", Description: "Update " + t.Name},
				Endpoint{Method: "DELETE", Path: base + "/{id}", Description: "Delete " + t.Name},
			)
		}
	}
	if len(s.ValidationRules) == 0 {
		s.ValidationRules = []string{"Validate required fields on create and update"}
	}
	if len(s.BusinessLogic) == 0 {
		s.BusinessLogic = []string{"Standard CRUD semantics for all entities"}
	}
}

// ParseDesign recovers a design specification from raw provider output and
// returns it together with its normalized, indented JSON form.
func ParseDesign(r *repair.Recoverer, raw string) (*DesignSpecification, []byte, error) {
	var spec DesignSpecification
	if err := r.RecoverInto(raw, &spec); err != nil {
		return nil, nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}
	spec.Normalize()

	data, err := json.MarshalIndent(&spec, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding design specification: %w", err)
	}
	return &spec, data, nil
}
