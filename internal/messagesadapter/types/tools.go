package types

// Tool is one inbound tool definition. InputSchema is a JSON-schema-shaped
// object passed through opaquely.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// Tool choice discriminator values.
const (
	ToolChoiceTypeAuto = "auto"
	ToolChoiceTypeAny  = "any"
	ToolChoiceTypeTool = "tool"
	ToolChoiceTypeNone = "none"
)

// ToolChoice selects how the model may use the supplied tools. Name is set
// only for type "tool".
type ToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}
