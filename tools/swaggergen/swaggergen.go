// Command swaggergen generates OpenAPI 3.0 specification files (JSON and YAML)
// for the jwtkit token service API and writes them to the api/ directory.
//
// Usage:
//
//	go run ./tools/swaggergen
//
// # For Contributors
//
// When you modify the API (add/change endpoints, request/response schemas, etc.),
// update this file to keep the swagger spec in sync:
//
//  1. Endpoints: Edit buildPaths() to add/modify path items and operations
//  2. Schemas: Edit buildSchemas() to add/modify request/response types
//  3. Regenerate: Run `go run ./tools/swaggergen` from the project root
//  4. Verify: Check api/swagger.yaml and api/swagger.json for correctness
//
// Helper functions:
//   - errContent(): Returns standard error response content (reuse for error responses)
//   - nameParam(): Returns a {name} style path parameter definition
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Lightweight OpenAPI 3.0 types
// ---------------------------------------------------------------------------

type OpenAPI struct {
	OpenAPI    string               `json:"openapi"              yaml:"openapi"`
	Info       Info                 `json:"info"                 yaml:"info"`
	Paths      map[string]*PathItem `json:"paths"                yaml:"paths"`
	Components Components           `json:"components"           yaml:"components"`
}

type Info struct {
	Title       string `json:"title"       yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Version     string `json:"version"     yaml:"version"`
}

type PathItem struct {
	Get    *Operation `json:"get,omitempty"    yaml:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"   yaml:"post,omitempty"`
	Put    *Operation `json:"put,omitempty"    yaml:"put,omitempty"`
	Delete *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
}

type Operation struct {
	Tags        []string              `json:"tags"                  yaml:"tags"`
	Summary     string                `json:"summary"               yaml:"summary"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string                `json:"operationId"           yaml:"operationId"`
	Security    []map[string][]string `json:"security,omitempty"    yaml:"security,omitempty"`
	Parameters  []Parameter           `json:"parameters,omitempty"  yaml:"parameters,omitempty"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses"             yaml:"responses"`
}

type Parameter struct {
	Name        string `json:"name"        yaml:"name"`
	In          string `json:"in"          yaml:"in"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required"    yaml:"required"`
	Schema      Schema `json:"schema"      yaml:"schema"`
}

type RequestBody struct {
	Required    bool                 `json:"required"              yaml:"required"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Content     map[string]MediaType `json:"content"               yaml:"content"`
}

type MediaType struct {
	Schema Schema `json:"schema" yaml:"schema"`
}

type Response struct {
	Description string               `json:"description"       yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type Schema struct {
	Type                 string            `json:"type,omitempty"                 yaml:"type,omitempty"`
	Format               string            `json:"format,omitempty"               yaml:"format,omitempty"`
	Description          string            `json:"description,omitempty"          yaml:"description,omitempty"`
	Properties           map[string]Schema `json:"properties,omitempty"           yaml:"properties,omitempty"`
	Items                *Schema           `json:"items,omitempty"                yaml:"items,omitempty"`
	Required             []string          `json:"required,omitempty"             yaml:"required,omitempty"`
	Enum                 []string          `json:"enum,omitempty"                 yaml:"enum,omitempty"`
	Ref                  string            `json:"$ref,omitempty"                 yaml:"$ref,omitempty"`
	AdditionalProperties *Schema           `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
	Example              any               `json:"example,omitempty"              yaml:"example,omitempty"`
}

type Components struct {
	Schemas         map[string]Schema         `json:"schemas"         yaml:"schemas"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes" yaml:"securitySchemes"`
}

type SecurityScheme struct {
	Type        string `json:"type"        yaml:"type"`
	In          string `json:"in"          yaml:"in"`
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// ---------------------------------------------------------------------------
// Spec builder
// ---------------------------------------------------------------------------

func buildSpec() OpenAPI {
	apiKeyAuth := []map[string][]string{{"ApiKeyAuth": {}}}

	return OpenAPI{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       "jwtkit - Token Service API",
			Description: "REST API for managing RSA signing keys and token profiles, minting JWTs and inspecting them.",
			Version:     "1.0.0",
		},
		Paths: buildPaths(apiKeyAuth),
		Components: Components{
			Schemas:         buildSchemas(),
			SecuritySchemes: buildSecuritySchemes(),
		},
	}
}

func buildPaths(apiKeyAuth []map[string][]string) map[string]*PathItem {
	return map[string]*PathItem{
		"/api/v1/keys": {
			Get: &Operation{
				Tags:        []string{"Keys"},
				Summary:     "List signing keys",
				Description: "Returns every stored signing key without its private material.",
				OperationID: "listKeys",
				Security:    apiKeyAuth,
				Responses: map[string]Response{
					"200": {
						Description: "A list of signing keys",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{
								Type:  "array",
								Items: &Schema{Ref: "#/components/schemas/SigningKey"},
							}},
						},
					},
					"401": {Description: "Unauthorized - missing or invalid API key"},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
			Post: &Operation{
				Tags:        []string{"Keys"},
				Summary:     "Create a signing key",
				Description: "Generates a new RSA key pair and stores the private half.",
				OperationID: "addKey",
				Security:    apiKeyAuth,
				RequestBody: &RequestBody{
					Required:    true,
					Description: "Key parameters",
					Content: map[string]MediaType{
						"application/json": {Schema: Schema{Ref: "#/components/schemas/AddKeyRequest"}},
					},
				},
				Responses: map[string]Response{
					"201": {
						Description: "Signing key created",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/KeyDetail"}},
						},
					},
					"400": {Description: "Invalid request body or validation error", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"409": {Description: "Signing key already exists", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/keys/{name}": {
			Get: &Operation{
				Tags:        []string{"Keys"},
				Summary:     "Get a signing key",
				Description: "Returns a single signing key with its public half.",
				OperationID: "getKey",
				Security:    apiKeyAuth,
				Parameters:  []Parameter{nameParam("name", "Name of the signing key")},
				Responses: map[string]Response{
					"200": {
						Description: "The signing key",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/KeyDetail"}},
						},
					},
					"400": {Description: "Invalid key name", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"404": {Description: "Signing key not found", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
			Delete: &Operation{
				Tags:        []string{"Keys"},
				Summary:     "Remove a signing key",
				Description: "Deletes a signing key unless a token profile still references it.",
				OperationID: "removeKey",
				Security:    apiKeyAuth,
				Parameters:  []Parameter{nameParam("name", "Name of the signing key")},
				Responses: map[string]Response{
					"200": {
						Description: "Signing key removed",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/SuccessMessage"}},
						},
					},
					"400": {Description: "Invalid key name", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"404": {Description: "Signing key not found", Content: errContent()},
					"409": {Description: "Signing key is referenced by a token profile", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/keys/{name}/rotate": {
			Post: &Operation{
				Tags:        []string{"Keys"},
				Summary:     "Rotate a signing key",
				Description: "Replaces the key material in place, bumps the version and assigns a fresh key ID. Previously issued tokens keep verifying against the old key ID until the JWKS cache expires.",
				OperationID: "rotateKey",
				Security:    apiKeyAuth,
				Parameters:  []Parameter{nameParam("name", "Name of the signing key")},
				Responses: map[string]Response{
					"200": {
						Description: "Signing key rotated",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/KeyDetail"}},
						},
					},
					"400": {Description: "Invalid key name", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"404": {Description: "Signing key not found", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/profiles": {
			Get: &Operation{
				Tags:        []string{"Profiles"},
				Summary:     "List token profiles",
				OperationID: "listProfiles",
				Security:    apiKeyAuth,
				Responses: map[string]Response{
					"200": {
						Description: "A list of token profiles",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{
								Type:  "array",
								Items: &Schema{Ref: "#/components/schemas/TokenProfile"},
							}},
						},
					},
					"401": {Description: "Unauthorized"},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
			Post: &Operation{
				Tags:        []string{"Profiles"},
				Summary:     "Create a token profile",
				Description: "Defines a named issuance template bound to an existing signing key.",
				OperationID: "addProfile",
				Security:    apiKeyAuth,
				RequestBody: &RequestBody{
					Required:    true,
					Description: "Profile to create",
					Content: map[string]MediaType{
						"application/json": {Schema: Schema{Ref: "#/components/schemas/TokenProfile"}},
					},
				},
				Responses: map[string]Response{
					"201": {
						Description: "Token profile created",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/TokenProfile"}},
						},
					},
					"400": {Description: "Invalid request body or validation error", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"409": {Description: "Token profile already exists", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/profiles/{name}": {
			Get: &Operation{
				Tags:        []string{"Profiles"},
				Summary:     "Get a token profile",
				OperationID: "getProfile",
				Security:    apiKeyAuth,
				Parameters:  []Parameter{nameParam("name", "Name of the token profile")},
				Responses: map[string]Response{
					"200": {
						Description: "The token profile",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/TokenProfile"}},
						},
					},
					"400": {Description: "Invalid profile name", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"404": {Description: "Token profile not found", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
			Put: &Operation{
				Tags:        []string{"Profiles"},
				Summary:     "Update a token profile",
				Description: "Replaces the profile's key binding, TTL, audiences and static claims.",
				OperationID: "updateProfile",
				Security:    apiKeyAuth,
				Parameters:  []Parameter{nameParam("name", "Name of the token profile")},
				RequestBody: &RequestBody{
					Required: true,
					Content: map[string]MediaType{
						"application/json": {Schema: Schema{Ref: "#/components/schemas/TokenProfile"}},
					},
				},
				Responses: map[string]Response{
					"200": {
						Description: "Token profile updated",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/TokenProfile"}},
						},
					},
					"400": {Description: "Invalid request body or validation error", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"404": {Description: "Token profile not found", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
			Delete: &Operation{
				Tags:        []string{"Profiles"},
				Summary:     "Remove a token profile",
				OperationID: "removeProfile",
				Security:    apiKeyAuth,
				Parameters:  []Parameter{nameParam("name", "Name of the token profile")},
				Responses: map[string]Response{
					"200": {
						Description: "Token profile removed",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/SuccessMessage"}},
						},
					},
					"400": {Description: "Invalid profile name", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"404": {Description: "Token profile not found", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/tokens/{profile}": {
			Post: &Operation{
				Tags:        []string{"Tokens"},
				Summary:     "Issue a token",
				Description: "Mints a JWT according to the named profile, signed with the profile's key.",
				OperationID: "issueToken",
				Security:    apiKeyAuth,
				Parameters:  []Parameter{nameParam("profile", "Name of the token profile to mint against")},
				RequestBody: &RequestBody{
					Required:    true,
					Description: "Subject and extra claims",
					Content: map[string]MediaType{
						"application/json": {Schema: Schema{Ref: "#/components/schemas/TokenRequest"}},
					},
				},
				Responses: map[string]Response{
					"201": {
						Description: "Token issued",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/IssuedToken"}},
						},
					},
					"400": {Description: "Invalid request body or validation error", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"404": {Description: "Token profile not found", Content: errContent()},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/api/v1/inspect": {
			Post: &Operation{
				Tags:        []string{"Tokens"},
				Summary:     "Inspect a token",
				Description: "Decodes a compact JWT without verifying its signature and returns header, payload, raw signature and a rendered text form.",
				OperationID: "inspectToken",
				Security:    apiKeyAuth,
				RequestBody: &RequestBody{
					Required:    true,
					Description: "Token to decode",
					Content: map[string]MediaType{
						"application/json": {Schema: Schema{Ref: "#/components/schemas/InspectRequest"}},
					},
				},
				Responses: map[string]Response{
					"200": {
						Description: "Decoded token",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/InspectResult"}},
						},
					},
					"400": {Description: "Malformed token or invalid request body", Content: errContent()},
					"401": {Description: "Unauthorized"},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
		"/.well-known/jwks.json": {
			Get: &Operation{
				Tags:        []string{"Keys"},
				Summary:     "Fetch the JWKS document",
				Description: "Public keys for every stored signing key, in JWK Set form. No authentication required.",
				OperationID: "getJWKS",
				Responses: map[string]Response{
					"200": {
						Description: "The JWK Set",
						Content: map[string]MediaType{
							"application/json": {Schema: Schema{Ref: "#/components/schemas/JWKSet"}},
						},
					},
					"500": {Description: "Internal server error", Content: errContent()},
				},
			},
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func nameParam(name, description string) Parameter {
	return Parameter{
		Name:        name,
		In:          "path",
		Description: description,
		Required:    true,
		Schema:      Schema{Type: "string"},
	}
}

func errContent() map[string]MediaType {
	return map[string]MediaType{
		"application/json": {Schema: Schema{Ref: "#/components/schemas/ErrorResponse"}},
	}
}

func buildSecuritySchemes() map[string]SecurityScheme {
	return map[string]SecurityScheme{
		"ApiKeyAuth": {
			Type:        "apiKey",
			In:          "header",
			Name:        "X-API-Key",
			Description: "API key whose SHA-256 digest appears in the service's API_KEY_DIGESTS configuration.",
		},
	}
}

func buildSchemas() map[string]Schema {
	return map[string]Schema{
		"ErrorResponse": {
			Type: "object",
			Properties: map[string]Schema{
				"error": {Type: "string", Description: "Human-readable error message"},
			},
			Required: []string{"error"},
		},
		"SuccessMessage": {
			Type: "object",
			Properties: map[string]Schema{
				"message": {Type: "string", Description: "Success message"},
			},
			Required: []string{"message"},
		},
		"AddKeyRequest": {
			Type:        "object",
			Description: "Parameters for generating a new signing key.",
			Properties: map[string]Schema{
				"name": {
					Type:        "string",
					Description: "Unique name for the key (max 255 chars)",
				},
				"algorithm": {
					Type:        "string",
					Enum:        []string{"RS256", "RS384", "RS512"},
					Description: "Signing algorithm, defaults to RS256",
				},
				"key_size": {
					Type:        "integer",
					Description: "RSA modulus size in bits: 2048 (default), 3072 or 4096",
				},
			},
			Required: []string{"name"},
		},
		"SigningKey": {
			Type:        "object",
			Description: "Stored signing key metadata. Private material is never returned.",
			Properties: map[string]Schema{
				"name":       {Type: "string"},
				"key_id":     {Type: "string", Description: "JWK kid, derived from name and version"},
				"algorithm":  {Type: "string", Enum: []string{"RS256", "RS384", "RS512"}},
				"version":    {Type: "integer", Description: "Starts at 1, bumped on every rotation"},
				"created_at": {Type: "string", Format: "date-time"},
				"rotated_at": {Type: "string", Format: "date-time", Description: "Absent until the key has been rotated"},
			},
			Required: []string{"name", "key_id", "algorithm", "version", "created_at"},
		},
		"KeyDetail": {
			Type:        "object",
			Description: "A signing key together with its PEM-encoded public half.",
			Properties: map[string]Schema{
				"name":           {Type: "string"},
				"key_id":         {Type: "string"},
				"algorithm":      {Type: "string", Enum: []string{"RS256", "RS384", "RS512"}},
				"version":        {Type: "integer"},
				"created_at":     {Type: "string", Format: "date-time"},
				"rotated_at":     {Type: "string", Format: "date-time"},
				"public_key_pem": {Type: "string", Description: "PKCS#1 public key in PEM form"},
			},
			Required: []string{"name", "key_id", "algorithm", "version", "created_at", "public_key_pem"},
		},
		"TokenProfile": {
			Type:        "object",
			Description: "A named issuance template bound to a signing key.",
			Properties: map[string]Schema{
				"name":        {Type: "string"},
				"key_name":    {Type: "string", Description: "Name of the signing key used to sign tokens"},
				"ttl_seconds": {Type: "integer", Description: "Token lifetime in seconds, must be positive"},
				"audiences": {
					Type:        "array",
					Items:       &Schema{Type: "string"},
					Description: "aud claim values: one value becomes a string, several an array",
				},
				"claims": {
					Type:                 "object",
					AdditionalProperties: &Schema{},
					Description:          "Static claims stamped into every token, reserved claim names rejected",
				},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
			Required: []string{"name", "key_name", "ttl_seconds"},
		},
		"TokenRequest": {
			Type: "object",
			Properties: map[string]Schema{
				"subject": {Type: "string", Description: "sub claim value"},
				"claims": {
					Type:                 "object",
					AdditionalProperties: &Schema{},
					Description:          "Extra claims merged over the profile's claims, reserved claim names rejected",
				},
			},
			Required: []string{"subject"},
		},
		"IssuedToken": {
			Type: "object",
			Properties: map[string]Schema{
				"token":      {Type: "string", Description: "Compact JWS serialization"},
				"token_type": {Type: "string", Example: "Bearer"},
				"expires_at": {Type: "string", Format: "date-time"},
				"key_id":     {Type: "string", Description: "kid of the signing key version used"},
				"jti":        {Type: "string", Description: "Unique token identifier"},
			},
			Required: []string{"token", "token_type", "expires_at", "key_id", "jti"},
		},
		"InspectRequest": {
			Type: "object",
			Properties: map[string]Schema{
				"token": {Type: "string", Description: "Compact JWT to decode"},
			},
			Required: []string{"token"},
		},
		"InspectResult": {
			Type:        "object",
			Description: "Decoded token parts. The signature is returned as-is, still base64url encoded.",
			Properties: map[string]Schema{
				"header":    {Type: "object", AdditionalProperties: &Schema{}},
				"payload":   {Type: "object", AdditionalProperties: &Schema{}},
				"signature": {Type: "string"},
				"rendered":  {Type: "string", Description: "Human-readable text rendering of the token"},
			},
			Required: []string{"header", "payload", "signature", "rendered"},
		},
		"JWKSet": {
			Type: "object",
			Properties: map[string]Schema{
				"keys": {
					Type:  "array",
					Items: &Schema{Ref: "#/components/schemas/JWK"},
				},
			},
			Required: []string{"keys"},
		},
		"JWK": {
			Type:        "object",
			Description: "RSA public key in JWK form.",
			Properties: map[string]Schema{
				"kty": {Type: "string", Example: "RSA"},
				"use": {Type: "string", Example: "sig"},
				"alg": {Type: "string", Enum: []string{"RS256", "RS384", "RS512"}},
				"kid": {Type: "string"},
				"n":   {Type: "string", Description: "Modulus, base64url encoded"},
				"e":   {Type: "string", Description: "Exponent, base64url encoded"},
			},
			Required: []string{"kty", "use", "alg", "kid", "n", "e"},
		},
	}
}

// ---------------------------------------------------------------------------
// File writers
// ---------------------------------------------------------------------------

func writeJSON(spec OpenAPI, path string) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func writeYAML(spec OpenAPI, path string) error {
	data, err := yaml.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal YAML: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func main() {
	_, src, _, _ := runtime.Caller(0)
	outDir := filepath.Join(filepath.Join(filepath.Dir(src), "..", ".."), "api")

	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create api/ directory: %v\n", err)
		os.Exit(1)
	}

	spec := buildSpec()

	jsonPath := filepath.Join(outDir, "swagger.json")
	if err := writeJSON(spec, jsonPath); err != nil {
		fmt.Fprintf(os.Stderr, "error writing JSON: %v\n", err)
		os.Exit(1)
	}

	yamlPath := filepath.Join(outDir, "swagger.yaml")
	if err := writeYAML(spec, yamlPath); err != nil {
		fmt.Fprintf(os.Stderr, "error writing YAML: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Swagger specs generated:\n  %s\n  %s\n", jsonPath, yamlPath)
}
