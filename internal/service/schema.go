package service

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"ecotrack/internal/domain"
)

// analysisSchema is the JSON Schema every analysis document must satisfy
// before it is decoded. Field names are fixed; status is the closed
// four-value enumeration.
const analysisSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["repository", "isPluginContainingRepo", "status", "pluginDependencies", "publishedArtifacts"],
	"properties": {
		"repository": {
			"type": "object",
			"required": ["url", "organization", "name"],
			"properties": {
				"url": {"type": "string", "minLength": 1},
				"organization": {"type": "string", "minLength": 1},
				"name": {"type": "string", "minLength": 1}
			}
		},
		"isPluginContainingRepo": {"type": "boolean"},
		"status": {"enum": ["not_ported", "blocked", "experimental", "upstream"]},
		"pluginDependencies": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["organization", "name", "version"],
				"properties": {
					"organization": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1},
					"version": {"type": "string"}
				}
			}
		},
		"publishedArtifacts": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["organization", "name", "isPlugin"],
				"properties": {
					"organization": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1},
					"isPlugin": {"type": "boolean"},
					"subproject": {"type": "string"},
					"isPublished": {"type": "boolean"},
					"scalaVersion": {"type": "string"},
					"libraryDependencies": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["organization", "name", "version", "scope"],
							"properties": {
								"organization": {"type": "string", "minLength": 1},
								"name": {"type": "string", "minLength": 1},
								"version": {"type": "string"},
								"scope": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

var analysisSchemaLoader = gojsonschema.NewStringLoader(analysisSchema)

// ParseAnalysis validates a raw analysis document against the schema and
// decodes it. Schema violations come back as a single ValidationError
// listing every failed constraint; no store access happens on that path.
func ParseAnalysis(data []byte) (*domain.Analysis, error) {
	result, err := gojsonschema.Validate(analysisSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, domain.Validationf("analysis document is not valid JSON: %v", err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, domain.Validationf("invalid analysis document: %s", strings.Join(reasons, "; "))
	}

	var rec domain.Analysis
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, domain.Validationf("decode analysis document: %v", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}
