// Package protocol defines the closed message vocabulary exchanged between
// the host and the sandboxed mind-map surface, and its wire encoding.
package protocol

import "codemindmap/internal/domain"

// Action tags on the wire
const (
	// host -> surface
	ActionAddChildNode         = "addChildNode"
	ActionImportMindMapData    = "importMindMapData"
	ActionExportMindMapData    = "exportMindMapData"
	ActionEnableAddCodeButton  = "enableAddCodeButton"
	ActionDisableAddCodeButton = "disableAddCodeButton"
	ActionEnableGoToCode       = "enableGoToCode"
	ActionDisableGoToCode      = "disableGoToCode"
	ActionResetMindMap         = "resetMindMap"
	ActionToggleColorScheme    = "toggleColorScheme"

	// surface -> host
	ActionNodeSelected        = "nodeSelected"
	ActionNodeNavigate        = "nodeNavigate"
	ActionAddCodeToNode       = "addCodeToNode"
	ActionExportedMindMapData = "exportedMindMapData"
	ActionMindMapOperation    = "mindMapOperation"
	ActionSaveMindMap         = "saveMindMap"
	ActionLoadMindMap         = "loadMindMap"
	ActionGoToCode            = "goToCode"
	ActionNewMindMap          = "newMindMap"
	ActionCopyNodeText        = "copyNodeText"
)

// SurfaceMessage is a message sent to the surface. The set of variants is
// closed: only types in this package implement it.
type SurfaceMessage interface {
	Action() string
	surfaceMessage()
}

// HostMessage is a message sent by the surface to the host
type HostMessage interface {
	Action() string
	hostMessage()
}

// AddChildNode creates a linked child under the currently selected node
type AddChildNode struct {
	Code     string          `json:"code"`
	NodeData domain.NodeData `json:"nodeData"`
}

// ImportMindMapData replaces the surface's tree
type ImportMindMapData struct {
	Data string `json:"data"`
}

// ExportMindMapData asks the surface for its serialized tree. The reply
// carries the same RequestID.
type ExportMindMapData struct {
	RequestID string `json:"requestId,omitempty"`
}

type EnableAddCodeButton struct{}
type DisableAddCodeButton struct{}
type EnableGoToCode struct{}
type DisableGoToCode struct{}

// ResetMindMap restores the built-in default tree
type ResetMindMap struct{}

// ToggleColorScheme switches the surface between light and dark themes.
// The surface also sends it to the host when its toolbar button is used.
type ToggleColorScheme struct{}

func (AddChildNode) Action() string         { return ActionAddChildNode }
func (ImportMindMapData) Action() string    { return ActionImportMindMapData }
func (ExportMindMapData) Action() string    { return ActionExportMindMapData }
func (EnableAddCodeButton) Action() string  { return ActionEnableAddCodeButton }
func (DisableAddCodeButton) Action() string { return ActionDisableAddCodeButton }
func (EnableGoToCode) Action() string       { return ActionEnableGoToCode }
func (DisableGoToCode) Action() string      { return ActionDisableGoToCode }
func (ResetMindMap) Action() string         { return ActionResetMindMap }
func (ToggleColorScheme) Action() string    { return ActionToggleColorScheme }

func (AddChildNode) surfaceMessage()         {}
func (ImportMindMapData) surfaceMessage()    {}
func (ExportMindMapData) surfaceMessage()    {}
func (EnableAddCodeButton) surfaceMessage()  {}
func (DisableAddCodeButton) surfaceMessage() {}
func (EnableGoToCode) surfaceMessage()       {}
func (DisableGoToCode) surfaceMessage()      {}
func (ResetMindMap) surfaceMessage()         {}
func (ToggleColorScheme) surfaceMessage()    {}

// NodeSelected reports the node the user selected in the graph
type NodeSelected struct {
	NodeID    string           `json:"nodeId"`
	NodeTopic string           `json:"nodeTopic"`
	NodeData  *domain.NodeData `json:"nodeData,omitempty"`
}

// NodeNavigate asks the host to jump to the node's linked code
type NodeNavigate struct {
	NodeID    string           `json:"nodeId,omitempty"`
	NodeTopic string           `json:"nodeTopic"`
	NodeData  *domain.NodeData `json:"nodeData,omitempty"`
}

// AddCodeToNode asks the host to gather its current selection
type AddCodeToNode struct{}

// ExportedMindMapData answers an ExportMindMapData request
type ExportedMindMapData struct {
	RequestID string `json:"requestId,omitempty"`
	Data      string `json:"data"`
}

// MindMapOperation reports an edit made in the graph
type MindMapOperation struct {
	OperationName string `json:"operationName"`
}

type SaveMindMap struct{}
type LoadMindMap struct{}

// GoToCode navigates to the code of the last selected node
type GoToCode struct{}

// NewMindMap asks the host to confirm and reset the tree
type NewMindMap struct{}

// CopyNodeText asks the host to put text on the clipboard; the sandboxed
// surface has no clipboard access of its own.
type CopyNodeText struct {
	Text string `json:"text"`
}

func (NodeSelected) Action() string        { return ActionNodeSelected }
func (NodeNavigate) Action() string        { return ActionNodeNavigate }
func (AddCodeToNode) Action() string       { return ActionAddCodeToNode }
func (ExportedMindMapData) Action() string { return ActionExportedMindMapData }
func (MindMapOperation) Action() string    { return ActionMindMapOperation }
func (SaveMindMap) Action() string         { return ActionSaveMindMap }
func (LoadMindMap) Action() string         { return ActionLoadMindMap }
func (GoToCode) Action() string            { return ActionGoToCode }
func (NewMindMap) Action() string          { return ActionNewMindMap }
func (CopyNodeText) Action() string        { return ActionCopyNodeText }

func (NodeSelected) hostMessage()        {}
func (NodeNavigate) hostMessage()        {}
func (AddCodeToNode) hostMessage()       {}
func (ExportedMindMapData) hostMessage() {}
func (MindMapOperation) hostMessage()    {}
func (SaveMindMap) hostMessage()         {}
func (LoadMindMap) hostMessage()         {}
func (GoToCode) hostMessage()            {}
func (NewMindMap) hostMessage()          {}
func (CopyNodeText) hostMessage()        {}
func (ToggleColorScheme) hostMessage()   {}

// Reference returns the code reference a navigate message points at, or
// false when the node carries no link.
func (m NodeNavigate) Reference() (domain.CodeReference, bool) {
	if m.NodeData == nil || m.NodeData.TopLine <= 0 || m.NodeData.FilePath == "" {
		return domain.CodeReference{}, false
	}
	return m.NodeData.Reference(m.NodeTopic), true
}

