package oas

// EmendedMarker is the x-samchon-emended value that identifies a document as
// having already passed through upgrade (§3, §6).
const EmendedMarker = "x-samchon-emended"

// ParamLocation enumerates where a Parameter lives.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
	InCookie ParamLocation = "cookie"
)

// Contact and License mirror the Info sub-objects common to every grammar.
type Contact struct {
	Name  string
	URL   string
	Email string
}

type License struct {
	Name string
	URL  string
}

type Info struct {
	Title          string
	Version        string
	Description    string
	TermsOfService string
	Contact        *Contact
	License        *License
}

type Server struct {
	URL         string
	Description string
}

type Tag struct {
	Name        string
	Description string
}

// SecurityRequirement maps scheme name to the list of required scopes.
type SecurityRequirement map[string][]string

// OAuthFlow is one entry of a SecurityScheme's flow set.
type OAuthFlow struct {
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string
	Scopes           map[string]string
}

// SecurityScheme uses the emended flow-set keys per §4.D: implicit,
// authorizationCode, password, clientCredentials.
type SecurityScheme struct {
	Type             string // apiKey, http, oauth2, openIdConnect
	Description      string
	Name             string // apiKey
	In               string // apiKey: query, header, cookie
	Scheme           string // http
	BearerFormat     string
	OpenIDConnectURL string
	Flows            map[string]OAuthFlow
}

// Parameter (§3). References are always inlined during upgrade; there is no
// Reference-typed Parameter in the emended dialect.
type Parameter struct {
	Name        string
	In          ParamLocation
	Schema      *Schema
	Required    bool
	Description string
	Deprecated  bool
}

// MediaTypeObject is the `{schema: Schema}` content-map value (§3). Example
// payloads are opaque and not modeled; they are not carried into the
// Document.
type MediaTypeObject struct {
	Schema *Schema
}

// RequestBody (§3).
type RequestBody struct {
	Description string
	Required    bool
	Content     map[string]MediaTypeObject
	// NestiaEncrypted mirrors x-nestia-encrypted, preserved verbatim (§6).
	NestiaEncrypted *bool
}

// Response (§3).
type Response struct {
	Description     string
	Content         map[string]MediaTypeObject
	Headers         map[string]Parameter
	NestiaEncrypted *bool
}

// Operation (§3). Parameters is always the merge of path-level and
// operation-level parameters (invariant 5); there is no separate path-level
// parameter list anywhere in the emended dialect.
type Operation struct {
	OperationID string
	Summary     string
	Description string
	Parameters  []Parameter
	RequestBody *RequestBody
	// Responses keys by status code string ("200", "default", ...).
	Responses  map[string]Response
	Servers    []Server
	Security   []SecurityRequirement
	Tags       []string
	Deprecated bool
}

// Path (§3). Deliberately carries no `parameters` field (invariant 5): any
// path-level parameters observed on the source document are merged into each
// Operation during upgrade and never survive as a separate slot here.
type Path struct {
	Summary     string
	Description string
	Servers     []Server

	Get     *Operation
	Put     *Operation
	Post    *Operation
	Delete  *Operation
	Options *Operation
	Head    *Operation
	Patch   *Operation
	Trace   *Operation
}

// Operations returns the present method/Operation pairs in the fixed
// iteration order §4.D's method list uses, needed anywhere method order must
// be deterministic (diagnostics, snapshot tests).
func (p *Path) Operations() []struct {
	Method string
	Op     *Operation
} {
	var out []struct {
		Method string
		Op     *Operation
	}
	add := func(method string, op *Operation) {
		if op != nil {
			out = append(out, struct {
				Method string
				Op     *Operation
			}{method, op})
		}
	}
	add("get", p.Get)
	add("put", p.Put)
	add("post", p.Post)
	add("delete", p.Delete)
	add("options", p.Options)
	add("head", p.Head)
	add("patch", p.Patch)
	add("trace", p.Trace)
	return out
}

// Set assigns op to the named method slot. Unknown methods are a caller bug
// (the upgrader only ever calls this with the eight recognized verbs).
func (p *Path) Set(method string, op *Operation) {
	switch method {
	case "get":
		p.Get = op
	case "put":
		p.Put = op
	case "post":
		p.Post = op
	case "delete":
		p.Delete = op
	case "options":
		p.Options = op
	case "head":
		p.Head = op
	case "patch":
		p.Patch = op
	case "trace":
		p.Trace = op
	}
}

// Components (§3, §4.D). Always present in an emended document, even empty.
// Unlike Parameters/RequestBodies/Responses/Headers (dereferenced into their
// owning operation during upgrade, never copied into the output Components),
// PathItems is copied through like Schemas/SecuritySchemes: §4.D lists
// `pathItems` among the components subtrees "mapped through the appropriate
// normalizer", and a webhook or path entry may reference into it by name.
type Components struct {
	Schemas         map[string]*Schema
	Parameters      map[string]Parameter
	RequestBodies   map[string]RequestBody
	Responses       map[string]Response
	Headers         map[string]Parameter
	SecuritySchemes map[string]SecurityScheme
	PathItems       map[string]*Path
}

// Document is the emended document (§3): an OpenAPI-3.1-shaped record that
// satisfies every invariant listed there.
type Document struct {
	OpenAPI    string // "3.1.x"
	Info       *Info
	Servers    []Server
	Components Components
	Paths      map[string]*Path
	// Webhooks maps webhook name to its Path (or, when unresolved, nil with
	// the name recorded as a dangling reference diagnostic).
	Webhooks map[string]*Path
	Security []SecurityRequirement
	Tags     []Tag

	// Emended is always true on a document produced by convert(); it is the
	// x-samchon-emended marker in typed form.
	Emended bool
}
