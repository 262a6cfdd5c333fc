package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shlomiassaf/openapi"
)

// sortResponseCodes sorts HTTP response codes with stable ordering:
// 1. Numeric codes sorted numerically (100, 200, 201, 400, 404, 500)
// 2. Non-numeric codes sorted alphabetically (default)
func sortResponseCodes(codes []string) {
	sort.Slice(codes, func(i, j int) bool {
		codeI, errI := strconv.Atoi(codes[i])
		codeJ, errJ := strconv.Atoi(codes[j])

		if errI == nil && errJ == nil {
			return codeI < codeJ
		}
		if errI == nil && errJ != nil {
			return true
		}
		if errI != nil && errJ == nil {
			return false
		}
		return codes[i] < codes[j]
	})
}

func extractEndpoints(doc *openapi.Document) []endpoint {
	var endpoints []endpoint

	for path, pathItem := range doc.Paths {
		if pathItem == nil {
			continue
		}
		for _, entry := range pathItem.Operations() {
			endpoints = append(endpoints, endpoint{path: path, method: strings.ToUpper(entry.Method), op: entry.Op, folded: true})
		}
	}

	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].path != endpoints[j].path {
			return endpoints[i].path < endpoints[j].path
		}
		return endpoints[i].method < endpoints[j].method
	})

	return endpoints
}

// extractWebhooks reads the emended document's already-typed Webhooks map
// (§4.D supplemented feature); unlike the teacher's extractWebhooks, no
// version sniffing or raw-extension digging is needed since Convert has
// already lifted webhooks into the same Path/Operation shape as ordinary
// paths.
func extractWebhooks(doc *openapi.Document) []webhook {
	var webhooks []webhook

	for name, pathItem := range doc.Webhooks {
		if pathItem == nil {
			continue
		}
		for _, entry := range pathItem.Operations() {
			webhooks = append(webhooks, webhook{name: name, method: strings.ToUpper(entry.Method), op: entry.Op, folded: true})
		}
	}

	sort.Slice(webhooks, func(i, j int) bool {
		if webhooks[i].name != webhooks[j].name {
			return webhooks[i].name < webhooks[j].name
		}
		return webhooks[i].method < webhooks[j].method
	})

	return webhooks
}

func extractComponents(doc *openapi.Document) []component {
	var components []component

	for name, schema := range doc.Components.Schemas {
		components = append(components, component{
			name:        name,
			compType:    "Schema",
			description: schema.Description,
			details:     formatSchemaDetails(schema),
			folded:      true,
		})
	}
	for name, rb := range doc.Components.RequestBodies {
		components = append(components, component{
			name:        name,
			compType:    "RequestBody",
			description: rb.Description,
			details:     formatRequestBodyDetails(&rb),
			folded:      true,
		})
	}
	for name, resp := range doc.Components.Responses {
		components = append(components, component{
			name:        name,
			compType:    "Response",
			description: resp.Description,
			details:     formatResponseDetails(&resp),
			folded:      true,
		})
	}
	for name, param := range doc.Components.Parameters {
		components = append(components, component{
			name:        name,
			compType:    "Parameter",
			description: param.Description,
			details:     formatParameterDetails(&param),
			folded:      true,
		})
	}
	for name, header := range doc.Components.Headers {
		components = append(components, component{
			name:        name,
			compType:    "Header",
			description: header.Description,
			details:     formatParameterDetails(&header),
			folded:      true,
		})
	}
	for name, secScheme := range doc.Components.SecuritySchemes {
		components = append(components, component{
			name:        name,
			compType:    "SecurityScheme",
			description: secScheme.Description,
			details:     formatSecuritySchemeDetails(secScheme),
			folded:      true,
		})
	}

	sort.Slice(components, func(i, j int) bool {
		if components[i].compType != components[j].compType {
			return components[i].compType < components[j].compType
		}
		return components[i].name < components[j].name
	})

	return components
}

func formatEndpointDetails(ep endpoint) string {
	var details strings.Builder
	op := ep.op

	if op.Summary != "" {
		details.WriteString(fmt.Sprintf("Summary: %s\n", op.Summary))
	}
	if op.Description != "" {
		details.WriteString(fmt.Sprintf("Description: %s\n", op.Description))
	}

	if len(op.Parameters) > 0 {
		details.WriteString("Parameters:\n")
		for _, param := range op.Parameters {
			details.WriteString(fmt.Sprintf("  - %s (%s): %s\n", param.Name, param.In, param.Description))
		}
	}

	if op.RequestBody != nil {
		details.WriteString("Request Body:\n")
		var mediaTypes []string
		for mediaType := range op.RequestBody.Content {
			mediaTypes = append(mediaTypes, mediaType)
		}
		sort.Strings(mediaTypes)
		for _, mediaType := range mediaTypes {
			details.WriteString(fmt.Sprintf("  - %s\n", mediaType))
		}
	}

	if len(op.Responses) > 0 {
		details.WriteString("Responses:\n")
		var codes []string
		for code := range op.Responses {
			codes = append(codes, code)
		}
		sortResponseCodes(codes)
		for _, code := range codes {
			resp := op.Responses[code]
			details.WriteString(fmt.Sprintf("  - %s: %s\n", code, resp.Description))
		}
	}

	return details.String()
}

// schemaTypeLabel renders a Schema's Kind (and, for a OneOf folding a Null
// branch, the nullable suffix) the way the teacher's formatSchemaDetails
// rendered a JSON Schema "type" keyword.
func schemaTypeLabel(s *openapi.Schema) string {
	if s == nil {
		return "unknown"
	}
	if s.Kind.String() == "oneOf" {
		var names []string
		nullable := false
		for _, b := range s.Branches {
			if b.IsNull() {
				nullable = true
				continue
			}
			names = append(names, schemaTypeLabel(b))
		}
		label := strings.Join(names, " | ")
		if nullable {
			label += " (nullable)"
		}
		return label
	}
	return s.Kind.String()
}

func formatSchemaDetails(schema *openapi.Schema) string {
	var details strings.Builder

	if schema == nil {
		return "No schema details available"
	}

	details.WriteString(fmt.Sprintf("Type: %s\n", schemaTypeLabel(schema)))

	if schema.String.Format != "" {
		details.WriteString(fmt.Sprintf("Format: %s\n", schema.String.Format))
	}

	if len(schema.Required) > 0 {
		details.WriteString(fmt.Sprintf("Required: %v\n", schema.Required))
	}

	if len(schema.Properties) > 0 {
		details.WriteString("Properties:\n")
		names := make([]string, 0, len(schema.Properties))
		props := schema.PropertyMap()
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			details.WriteString(fmt.Sprintf("  - %s: %s\n", name, schemaTypeLabel(props[name])))
		}
	}

	if schema.Items != nil {
		details.WriteString(fmt.Sprintf("Items Type: %s\n", schemaTypeLabel(schema.Items)))
	}

	return details.String()
}

func formatRequestBodyDetails(reqBody *openapi.RequestBody) string {
	var details strings.Builder

	if reqBody == nil {
		return "No request body details available"
	}

	if reqBody.Required {
		details.WriteString("Required: true\n")
	}

	if len(reqBody.Content) > 0 {
		details.WriteString("Content Types:\n")
		var mediaTypes []string
		for mediaType := range reqBody.Content {
			mediaTypes = append(mediaTypes, mediaType)
		}
		sort.Strings(mediaTypes)
		for _, mediaType := range mediaTypes {
			mto := reqBody.Content[mediaType]
			details.WriteString(fmt.Sprintf("  - %s", mediaType))
			if mto.Schema != nil {
				details.WriteString(fmt.Sprintf(" (type: %s)", schemaTypeLabel(mto.Schema)))
			}
			details.WriteString("\n")
		}
	}

	return details.String()
}

func formatResponseDetails(response *openapi.Response) string {
	var details strings.Builder

	if response == nil {
		return "No response details available"
	}

	if len(response.Content) > 0 {
		details.WriteString("Content Types:\n")
		var mediaTypes []string
		for mediaType := range response.Content {
			mediaTypes = append(mediaTypes, mediaType)
		}
		sort.Strings(mediaTypes)
		for _, mediaType := range mediaTypes {
			mto := response.Content[mediaType]
			details.WriteString(fmt.Sprintf("  - %s", mediaType))
			if mto.Schema != nil {
				details.WriteString(fmt.Sprintf(" (type: %s)", schemaTypeLabel(mto.Schema)))
			}
			details.WriteString("\n")
		}
	}

	if len(response.Headers) > 0 {
		details.WriteString("Headers:\n")
		var names []string
		for name := range response.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			details.WriteString(fmt.Sprintf("  - %s\n", name))
		}
	}

	return details.String()
}

func formatParameterDetails(param *openapi.Parameter) string {
	var details strings.Builder

	if param == nil {
		return "No parameter details available"
	}

	details.WriteString(fmt.Sprintf("In: %s\n", param.In))

	if param.Required {
		details.WriteString("Required: true\n")
	}

	if param.Schema != nil {
		details.WriteString(fmt.Sprintf("Type: %s\n", schemaTypeLabel(param.Schema)))
		if param.Schema.String.Format != "" {
			details.WriteString(fmt.Sprintf("Format: %s\n", param.Schema.String.Format))
		}
	}

	return details.String()
}

func formatSecuritySchemeDetails(secScheme openapi.SecurityScheme) string {
	var details strings.Builder

	details.WriteString(fmt.Sprintf("Type: %s\n", secScheme.Type))

	if secScheme.Scheme != "" {
		details.WriteString(fmt.Sprintf("Scheme: %s\n", secScheme.Scheme))
	}
	if secScheme.BearerFormat != "" {
		details.WriteString(fmt.Sprintf("Bearer Format: %s\n", secScheme.BearerFormat))
	}
	if secScheme.In != "" {
		details.WriteString(fmt.Sprintf("In: %s\n", secScheme.In))
	}
	if secScheme.Name != "" {
		details.WriteString(fmt.Sprintf("Name: %s\n", secScheme.Name))
	}

	return details.String()
}

func formatWebhookDetails(hook webhook) string {
	var details strings.Builder

	if hook.op.Summary != "" {
		details.WriteString(fmt.Sprintf("Summary: %s\n", hook.op.Summary))
	}
	if hook.op.Description != "" {
		details.WriteString(fmt.Sprintf("Description: %s\n", hook.op.Description))
	}
	if hook.op.OperationID != "" {
		details.WriteString(fmt.Sprintf("Operation ID: %s\n", hook.op.OperationID))
	}

	return details.String()
}
