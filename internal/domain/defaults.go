package domain

import (
	"encoding/json"
	"strconv"
)

// DefaultLinkStoreFileName is the file created inside a project's generated
// storage directory.
const DefaultLinkStoreFileName = "CodeMindMap.txt"

// DarkTheme is the theme descriptor the default map starts with
var DarkTheme = json.RawMessage(`{"name":"Dark","type":"dark","palette":["#848FA0","#748BE9","#D2F9FE","#4145A5","#789AFA","#706CF4","#EF987F","#775DD5","#FCEECF","#DA7FBC"],"cssVar":{"--main-color":"#ffffff","--main-bgcolor":"#4c4f69","--color":"#cccccc","--bgcolor":"#252526","--panel-color":"#ffffff","--panel-bgcolor":"#2d3748","--panel-border-color":"#696969","font-size":"10px"}}`)

// DefaultMindMap returns the built-in tree a project without a link store
// starts from.
func DefaultMindMap() *MindMap {
	direction := 2
	leaf := func(id, topic string) *MindMapNode {
		return &MindMapNode{ID: id, Topic: topic}
	}
	branch := func(id, topic string, side int, children ...*MindMapNode) *MindMapNode {
		return &MindMapNode{
			ID:       id,
			Topic:    topic,
			Children: children,
			Extra: map[string]json.RawMessage{
				"direction": json.RawMessage(strconv.Itoa(side)),
				"expanded":  json.RawMessage("true"),
			},
		}
	}

	return &MindMap{
		NodeData: &MindMapNode{
			ID:    RootNodeID,
			Topic: "Code Mind Map",
			Children: []*MindMapNode{
				branch("bd1f03fee1f63bc6", "Code", 0,
					leaf("bd1f07c598e729dc", "Link the selected code (or the line under the caret) as a child node."),
					leaf("bd1bb4b14d6697c3", "Ctrl+click on a node - jump to the code linked to the node."),
				),
				branch("bd1b66c4b56754d9", "Mind Map", 1,
					leaf("bd1b6892bcab126a", "Ctrl+Mouse Wheel Up/Down - Zoom in/out"),
					leaf("bd1b6b632a434b27", "Right Click+Drag - Move the mind map"),
					leaf("bd1b6f9ec2d3d1a4", "tab - Create a child node"),
					leaf("bd1b70c3a1e44d55", "enter - Create a sibling node"),
					leaf("bd1b71e5c0f9f126", "del - Remove a node"),
					leaf("bd1b73a8d2b1e307", "space - Expand/collapse nodes"),
				),
			},
			Extra: map[string]json.RawMessage{"expanded": json.RawMessage("true")},
		},
		Theme:     DarkTheme,
		Direction: &direction,
	}
}

