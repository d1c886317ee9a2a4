package app

// Tool is the active editing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRect
	ToolCircle
	ToolPolygon
	ToolText
	ToolSeatGrid
	ToolSeatRow
)

var toolNames = [...]string{
	ToolSelect:   "select",
	ToolRect:     "rect",
	ToolCircle:   "circle",
	ToolPolygon:  "polygon",
	ToolText:     "text",
	ToolSeatGrid: "seat-grid",
	ToolSeatRow:  "seat-row",
}

// String returns the tool name.
func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return "unknown"
	}
	return toolNames[t]
}

// ParseTool returns the tool with the given name.
func ParseTool(name string) (Tool, bool) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), true
		}
	}
	return ToolSelect, false
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolSelect, ToolRect, ToolCircle, ToolPolygon, ToolText, ToolSeatGrid, ToolSeatRow}
}

// IsSeatTool reports whether the tool only works inside area mode.
func (t Tool) IsSeatTool() bool {
	return t == ToolSeatGrid || t == ToolSeatRow
}
