// Package prompt builds the provider prompts for each generation stage. Each
// stage has a single-call prompt producing every file at once and a chunk
// plan producing one file per call with its own token budget; the complexity
// strategy decides which is used.
package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// Chunk is one file of a chunked stage: its artifact path, the token budget
// for the call, and the full prompt text.
type Chunk struct {
	File      string
	MaxTokens int
	Prompt    string
}

// Token budgets per call. Chunk budgets follow the per-file sizes the
// generated code typically needs; route handlers run longest.
const (
	DesignTokens        = 4096
	SingleStageTokens   = 12000
	backendModelsTokens = 8000
	backendSchemaTokens = 8000
	backendRoutesTokens = 10000
	backendMainTokens   = 4000
	frontendChunkTokens = 6000
	testChunkTokens     = 6000
)

// Design asks for the architecture specification as strict JSON. The response
// contract is the wire format pipeline.DesignSpecification unmarshals.
func Design(requirement string) string {
	return fmt.Sprintf(`You are a software architect. Design a web application for the requirements below.

REQUIREMENTS:
%s

Provide the architecture specification in JSON format. Be CONCISE - keep descriptions brief (1-2 sentences max).
Use this structure:

{
    "database_schema": {
        "tables": [
            {
                "name": "table_name",
                "description": "What this table stores",
                "fields": [
                    {
                        "name": "field_name",
                        "type": "SQLAlchemy type (Integer, String, Text, Boolean, DateTime)",
                        "constraints": ["primary_key", "nullable", "unique", "index"]
                    }
                ],
                "relationships": [
                    {
                        "type": "one_to_many",
                        "target_table": "related_table_name",
                        "description": "Relationship description"
                    }
                ]
            }
        ]
    },
    "api_endpoints": [
        {
            "method": "GET",
            "path": "/api/v1/resource",
            "description": "What this endpoint does"
        }
    ],
    "validation_rules": ["Key validation rule"],
    "business_logic": ["Key business rule"]
}

IMPORTANT:
1. Be CONCISE - short descriptions only
2. Include only essential fields
3. Use standard RESTful endpoints (GET, POST, PUT, DELETE)
4. Include timestamps (created_at, updated_at) for main entities

Return ONLY valid JSON, no markdown code blocks, no additional text. Ensure proper JSON syntax with commas between all array/object elements.`, requirement)
}

// Backend asks for the complete FastAPI backend in one call, returned as a
// JSON object mapping file paths to file contents.
func Backend(designJSON, requirement string) string {
	return fmt.Sprintf(`You are a backend developer. Implement a complete FastAPI application.

REQUIREMENTS:
%s

ARCHITECTURE SPECIFICATION:
%s

Generate these files:
1. SQLAlchemy models (models.py) - implement all tables with fields, types, and relationships as specified
2. Pydantic schemas (schemas.py) - create schemas for validation matching the specification
3. API routes (routes.py) - implement all endpoints with the specified methods and paths
4. Main application file (main.py) - FastAPI app setup with CORS, error handling, and database initialization

Return ONLY a valid JSON object mapping file names to complete file contents:
{"models.py": "...", "schemas.py": "...", "routes.py": "...", "main.py": "..."}

No markdown code blocks, no additional text.`, requirement, designJSON)
}

// BackendChunks is the per-file backend plan for chunked generation.
func BackendChunks(designJSON, requirement string) []Chunk {
	files := []struct {
		name      string
		maxTokens int
		body      string
	}{
		{"models.py", backendModelsTokens,
			"SQLAlchemy models for every table in the specification. Include relationships, constraints, and created_at/updated_at timestamps. Import Base from a local database module."},
		{"schemas.py", backendSchemaTokens,
			"Pydantic schemas for every model: a Base, Create, Update, and Response schema per entity, with validation matching the specification."},
		{"routes.py", backendRoutesTokens,
			"FastAPI APIRouter implementing every endpoint in the specification with proper status codes, dependency-injected database sessions, and 404 handling."},
		{"main.py", backendMainTokens,
			"FastAPI application setup: create the app, configure CORS, include the router from routes.py, and initialize the database tables on startup."},
	}

	chunks := make([]Chunk, 0, len(files))
	for _, f := range files {
		chunks = append(chunks, Chunk{
			File:      f.name,
			MaxTokens: f.maxTokens,
			Prompt: fmt.Sprintf(`You are a backend developer.
Generate ONLY the %s file for this FastAPI application.

REQUIREMENTS:
%s

ARCHITECTURE SPECIFICATION:
%s

%s

Return ONLY the Python code for %s, no JSON, no markdown, just the code.`,
				f.name, requirement, designJSON, f.body, f.name),
		})
	}
	return chunks
}

// Frontend asks for the complete Next.js frontend in one call as a JSON
// object mapping file paths to contents.
func Frontend(designJSON, backendContext, requirement string) string {
	return fmt.Sprintf(`You are a frontend developer. Implement a Next.js 14 App Router frontend in TypeScript.

REQUIREMENTS:
%s

ARCHITECTURE SPECIFICATION:
%s

BACKEND CONTEXT:
%s

Generate these files:
1. app/layout.tsx - root layout with navigation
2. app/page.tsx - home page listing the main entities
3. lib/api/client.ts - typed API client with error handling for every backend endpoint
4. components/EntityList.tsx - reusable list view with pagination
5. components/EntityForm.tsx - reusable create/edit form with validation

Return ONLY a valid JSON object mapping file paths to complete file contents.
No markdown code blocks, no additional text.`, requirement, designJSON, backendContext)
}

// FrontendChunks is the per-file frontend plan for chunked generation.
func FrontendChunks(designJSON, backendContext, requirement string) []Chunk {
	files := []struct {
		name string
		body string
	}{
		{"app/layout.tsx", "Root layout with html/body tags, global styles import, and a navigation bar linking to each entity's page."},
		{"app/page.tsx", "Home page that fetches and lists the main entities through the API client, with loading and error states."},
		{"lib/api/client.ts", "Typed API client covering every backend endpoint, with a base URL from NEXT_PUBLIC_API_URL and error handling."},
		{"components/EntityList.tsx", "Reusable client component rendering a paginated table of entities with edit and delete actions."},
		{"components/EntityForm.tsx", "Reusable client component rendering a create/edit form with field validation and submit handling."},
	}

	chunks := make([]Chunk, 0, len(files))
	for _, f := range files {
		chunks = append(chunks, Chunk{
			File:      f.name,
			MaxTokens: frontendChunkTokens,
			Prompt: fmt.Sprintf(`You are a frontend developer.
Generate ONLY the %s file for this Next.js 14 App Router application in TypeScript.

REQUIREMENTS:
%s

ARCHITECTURE SPECIFICATION:
%s

BACKEND CONTEXT:
%s

%s

Return ONLY the TypeScript code for %s, no JSON, no markdown, just the code.`,
				f.name, requirement, designJSON, backendContext, f.body, f.name),
		})
	}
	return chunks
}

// Tests asks for the complete test suite in one call as a JSON object
// mapping file paths to contents.
func Tests(designJSON, backendContext, requirement string) string {
	return fmt.Sprintf(`You are a QA engineer. Write a test suite for the application described below.

REQUIREMENTS:
%s

ARCHITECTURE SPECIFICATION:
%s

BACKEND CONTEXT:
%s

Cover backend unit tests (pytest), frontend component tests (jest), end-to-end
flows (playwright), security checks, and API contract tests.

Return ONLY a valid JSON object mapping file paths to complete file contents.
No markdown code blocks, no additional text.`, requirement, designJSON, backendContext)
}

// TestChunks is the per-category test plan for chunked generation.
func TestChunks(designJSON, backendContext, requirement string) []Chunk {
	files := []struct {
		name      string
		maxTokens int
		lang      string
		body      string
	}{
		{"backend/conftest.py", testChunkTokens, "Python",
			"Pytest conftest with an in-memory SQLite engine fixture, a session fixture, and a FastAPI TestClient fixture with the database dependency overridden."},
		{"backend/test_models.py", testChunkTokens, "Python",
			"Pytest unit tests creating each model, exercising relationships, and asserting constraint violations raise errors."},
		{"backend/test_routes.py", testChunkTokens, "Python",
			"Pytest API tests exercising every endpoint: happy path, validation errors, and 404 on missing resources."},
		{"frontend/api.test.tsx", testChunkTokens, "TypeScript",
			"Jest tests for the API client: successful calls, error propagation, and request payload shapes, with fetch mocked."},
		{"e2e/crud-operations.spec.ts", testChunkTokens, "TypeScript",
			"Playwright end-to-end test walking a full create, read, update, delete cycle for the main entity."},
		{"security/test_auth_security.py", testChunkTokens, "Python",
			"Pytest security checks: rejected malformed payloads, SQL injection attempts in query parameters, and oversized inputs."},
		{"contract/test_api_contract.py", testChunkTokens, "Python",
			"Pytest contract tests asserting each endpoint's response schema matches the architecture specification."},
	}

	chunks := make([]Chunk, 0, len(files))
	for _, f := range files {
		chunks = append(chunks, Chunk{
			File:      f.name,
			MaxTokens: f.maxTokens,
			Prompt: fmt.Sprintf(`You are a QA engineer.
Generate ONLY the %s test file for the application described below.

REQUIREMENTS:
%s

ARCHITECTURE SPECIFICATION:
%s

BACKEND CONTEXT:
%s

%s

Return ONLY the %s code for %s, no JSON, no markdown, just the code.`,
				f.name, requirement, designJSON, backendContext, f.body, f.lang, f.name),
		})
	}
	return chunks
}

// BackendContext summarizes generated backend files for downstream prompts.
func BackendContext(files map[string]string) string {
	if len(files) == 0 {
		return PlaceholderBackendContext()
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("The backend exposes the following generated files:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s (%d bytes)\n", name, len(files[name]))
	}
	return b.String()
}

// PlaceholderBackendContext stands in for the backend when its generation
// failed, so downstream stages can still proceed against the specification.
func PlaceholderBackendContext() string {
	return "Backend generation was unavailable. Assume a standard FastAPI backend implementing the architecture specification at /api/v1, with RESTful CRUD endpoints per table."
}
