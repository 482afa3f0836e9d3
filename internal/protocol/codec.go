package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownActionError is returned when a message carries a tag outside the
// vocabulary of its direction.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %q", e.Action)
}

type envelope struct {
	Action string `json:"action"`
}

// EncodeSurface serializes a host -> surface message
func EncodeSurface(msg SurfaceMessage) ([]byte, error) {
	return encode(msg.Action(), msg)
}

// EncodeHost serializes a surface -> host message
func EncodeHost(msg HostMessage) ([]byte, error) {
	return encode(msg.Action(), msg)
}

func encode(action string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", action, err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", action, err)
	}
	tag, _ := json.Marshal(action)
	fields["action"] = tag

	return json.Marshal(fields)
}

// PeekAction returns the action tag of a raw message
func PeekAction(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("decode envelope: %w", err)
	}
	if env.Action == "" {
		return "", fmt.Errorf("decode envelope: missing action")
	}
	return env.Action, nil
}

// Tags are compared case-insensitively.
var hostDecoders = map[string]func([]byte) (HostMessage, error){
	strings.ToLower(ActionNodeSelected):        decodeAs[HostMessage, NodeSelected],
	strings.ToLower(ActionNodeNavigate):        decodeAs[HostMessage, NodeNavigate],
	strings.ToLower(ActionAddCodeToNode):       decodeAs[HostMessage, AddCodeToNode],
	strings.ToLower(ActionExportedMindMapData): decodeAs[HostMessage, ExportedMindMapData],
	strings.ToLower(ActionMindMapOperation):    decodeAs[HostMessage, MindMapOperation],
	strings.ToLower(ActionSaveMindMap):         decodeAs[HostMessage, SaveMindMap],
	strings.ToLower(ActionLoadMindMap):         decodeAs[HostMessage, LoadMindMap],
	strings.ToLower(ActionGoToCode):            decodeAs[HostMessage, GoToCode],
	strings.ToLower(ActionNewMindMap):          decodeAs[HostMessage, NewMindMap],
	strings.ToLower(ActionCopyNodeText):        decodeAs[HostMessage, CopyNodeText],
	strings.ToLower(ActionToggleColorScheme):   decodeAs[HostMessage, ToggleColorScheme],
}

var surfaceDecoders = map[string]func([]byte) (SurfaceMessage, error){
	strings.ToLower(ActionAddChildNode):         decodeAs[SurfaceMessage, AddChildNode],
	strings.ToLower(ActionImportMindMapData):    decodeAs[SurfaceMessage, ImportMindMapData],
	strings.ToLower(ActionExportMindMapData):    decodeAs[SurfaceMessage, ExportMindMapData],
	strings.ToLower(ActionEnableAddCodeButton):  decodeAs[SurfaceMessage, EnableAddCodeButton],
	strings.ToLower(ActionDisableAddCodeButton): decodeAs[SurfaceMessage, DisableAddCodeButton],
	strings.ToLower(ActionEnableGoToCode):       decodeAs[SurfaceMessage, EnableGoToCode],
	strings.ToLower(ActionDisableGoToCode):      decodeAs[SurfaceMessage, DisableGoToCode],
	strings.ToLower(ActionResetMindMap):         decodeAs[SurfaceMessage, ResetMindMap],
	strings.ToLower(ActionToggleColorScheme):    decodeAs[SurfaceMessage, ToggleColorScheme],
}

// decodeAs unmarshals data into the variant V and returns it as I
func decodeAs[I any, V any](data []byte) (I, error) {
	var v V
	var zero I
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, err
	}
	msg, ok := any(v).(I)
	if !ok {
		return zero, fmt.Errorf("%T does not implement %T", v, zero)
	}
	return msg, nil
}

// DecodeHost parses a surface -> host message into its variant
func DecodeHost(data []byte) (HostMessage, error) {
	action, err := PeekAction(data)
	if err != nil {
		return nil, err
	}
	decode, ok := hostDecoders[strings.ToLower(action)]
	if !ok {
		return nil, &UnknownActionError{Action: action}
	}
	msg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", action, err)
	}
	return msg, nil
}

// DecodeSurface parses a host -> surface message into its variant
func DecodeSurface(data []byte) (SurfaceMessage, error) {
	action, err := PeekAction(data)
	if err != nil {
		return nil, err
	}
	decode, ok := surfaceDecoders[strings.ToLower(action)]
	if !ok {
		return nil, &UnknownActionError{Action: action}
	}
	msg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", action, err)
	}
	return msg, nil
}
